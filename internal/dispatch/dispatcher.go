package dispatch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"paramibot/internal/content"
	"paramibot/internal/eventbus"
	kit "paramibot/internal/transport"
	logx "paramibot/pkg/logx"
)

// DefaultMaxLen keeps chunks under Telegram's 4096 limit with headroom.
const DefaultMaxLen = 4000

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

type lockedChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (c *lockedChooser) IntN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.IntN(n)
}

// NewRandChooser returns a goroutine-safe seeded chooser.
func NewRandChooser(seed uint64) Chooser {
	return &lockedChooser{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type Option func(*Dispatcher)

// WithChooser injects the random item choice (tests pass a fixed sequence).
func WithChooser(c Chooser) Option { return func(d *Dispatcher) { d.choose = c } }

func WithMaxLen(n int) Option { return func(d *Dispatcher) { d.maxLen = n } }

func WithMarker(m string) Option { return func(d *Dispatcher) { d.marker = m } }

// WithParallelism lets DailyBroadcast handle up to n languages at once.
func WithParallelism(n int) Option { return func(d *Dispatcher) { d.parallel = n } }

func WithLogger(l logx.Logger) Option { return func(d *Dispatcher) { d.log = l } }

func WithBus(b eventbus.Bus) Option { return func(d *Dispatcher) { d.bus = b } }

func WithNow(now func() time.Time) Option { return func(d *Dispatcher) { d.now = now } }

type Dispatcher struct {
	table  *Table
	source content.Source
	sender kit.Sender
	format *Formatter

	choose   Chooser
	maxLen   int
	marker   string
	parallel int
	log      logx.Logger
	bus      eventbus.Bus
	now      func() time.Time
}

// New validates the table against the source and returns a ready dispatcher.
func New(table *Table, source content.Source, sender kit.Sender, opts ...Option) (*Dispatcher, error) {
	if table == nil || source == nil || sender == nil {
		return nil, fmt.Errorf("dispatch: table, source and sender are required")
	}
	d := &Dispatcher{
		table:  table,
		source: source,
		sender: sender,
		maxLen: DefaultMaxLen,
		now:    time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	if d.maxLen <= 0 {
		return nil, ErrInvalidMaxLen
	}
	if d.choose == nil {
		d.choose = NewRandChooser(uint64(time.Now().UnixNano()))
	}
	if d.log.IsZero() {
		d.log = logx.Nop()
	}
	if err := table.Validate(source); err != nil {
		return nil, err
	}
	d.format = NewFormatter(d.marker, table.Headers())
	return d, nil
}

func (d *Dispatcher) Table() *Table { return d.table }

var richText = &kit.SendOptions{Markup: kit.RichText, DisablePreview: true}

// DailyBroadcast sends one random item per language to its channel.
// It never fails as a whole; every failure is a LanguageResult.
func (d *Dispatcher) DailyBroadcast(ctx context.Context) BroadcastReport {
	langs := d.table.Languages()
	rep := BroadcastReport{Started: d.now(), Results: make([]LanguageResult, len(langs))}

	if d.parallel > 1 {
		var g errgroup.Group
		g.SetLimit(d.parallel)
		for i, lang := range langs {
			g.Go(func() error {
				rep.Results[i] = d.broadcastOne(ctx, lang)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, lang := range langs {
			rep.Results[i] = d.broadcastOne(ctx, lang)
		}
	}
	rep.Finished = d.now()

	fields := []logx.Field{
		logx.Int("languages", len(langs)),
		logx.Int("sent", rep.SentCount()),
		logx.Duration("took", rep.Finished.Sub(rep.Started)),
	}
	if n := len(rep.Failed()); n > 0 {
		d.log.Warn("daily broadcast finished with failures", append(fields, logx.Int("failed", n))...)
	} else {
		d.log.Info("daily broadcast finished", fields...)
	}
	d.publish(eventbus.TypeBroadcast, rep)
	return rep
}

func (d *Dispatcher) broadcastOne(ctx context.Context, lang content.Language) (res LanguageResult) {
	route, _ := d.table.Route(lang)
	res = LanguageResult{Language: lang, Destination: route.Destination}
	defer func() {
		if p := recover(); p != nil {
			res.Sent = false
			res.Err = fmt.Errorf("broadcast %s panicked: %v", lang, p)
		}
		if res.Err != nil {
			d.log.Warn("broadcast failed",
				logx.String("lang", lang.String()),
				logx.String("to", route.Destination.String()),
				logx.String("reason", res.Reason()),
				logx.Err(res.Err))
		}
	}()

	items, err := d.load(ctx, lang)
	if err != nil {
		res.Err = err
		return res
	}
	idx := d.choose.IntN(len(items))
	if idx < 0 || idx >= len(items) {
		idx = ((idx % len(items)) + len(items)) % len(items)
	}
	it := items[idx]
	res.Title = it.Title

	block := d.format.RenderItem(it)
	if _, err := d.sender.SendText(ctx, route.Destination, block.Text, richText); err != nil {
		res.Err = kit.AsDeliveryError(route.Destination, err)
		return res
	}
	res.Sent = true
	d.log.Debug("broadcast sent", logx.String("lang", lang.String()), logx.String("title", it.Title))
	return res
}

// ListAll sends the header and every item of lang to requester.
//
// Errors are returned only for an unsupported language (before any I/O) and
// for a failed load. A failed send stops the sequence and yields a
// StatePartiallyFailed report with a nil error.
func (d *Dispatcher) ListAll(ctx context.Context, lang content.Language, requester kit.ChatTarget) (ListReport, error) {
	rep := ListReport{Language: lang, Requester: requester, State: StateValidating}
	defer func() { d.publish(eventbus.TypeListing, rep) }()

	if !d.table.Supports(lang) {
		rep.State = StateValidationFailed
		rep.Err = &content.UnsupportedLanguageError{Language: lang}
		return rep, rep.Err
	}

	rep.State = StateLoading
	items, err := d.load(ctx, lang)
	if err != nil {
		rep.State = StateLoadFailed
		rep.Err = err
		d.log.Warn("listing load failed", logx.String("lang", lang.String()), logx.Err(err))
		return rep, err
	}
	rep.Items = len(items)

	rep.State = StateRendering
	header, err := d.format.RenderHeader(lang)
	if err != nil {
		rep.State = StateValidationFailed
		rep.Err = err
		return rep, err
	}
	blocks := make([]RenderedBlock, 0, len(items)+1)
	blocks = append(blocks, header)
	for _, it := range items {
		blocks = append(blocks, d.format.RenderItem(it))
	}

	rep.State = StateChunking
	chunks, err := Chunk(blocks, d.maxLen)
	if err != nil {
		rep.State = StateValidationFailed
		rep.Err = err
		return rep, err
	}
	rep.Total = len(chunks)

	rep.State = StateSending
	for i, c := range chunks {
		if _, err := d.sender.SendText(ctx, requester, c.Text(), richText); err != nil {
			rep.State = StatePartiallyFailed
			rep.Err = kit.AsDeliveryError(requester, err)
			d.log.Warn("listing delivery incomplete",
				logx.String("lang", lang.String()),
				logx.String("to", requester.String()),
				logx.Int("sent", i),
				logx.Int("total", rep.Total),
				logx.Err(err))
			return rep, nil
		}
		rep.Sent++
	}
	rep.State = StateCompleted
	d.log.Info("listing sent",
		logx.String("lang", lang.String()),
		logx.String("to", requester.String()),
		logx.Int("items", rep.Items),
		logx.Int("chunks", rep.Total))
	return rep, nil
}

// load fetches items and normalizes failures to *content.SourceError.
func (d *Dispatcher) load(ctx context.Context, lang content.Language) ([]content.Item, error) {
	items, err := d.source.Load(ctx, lang)
	if err != nil {
		return nil, content.Unavailable(lang, err)
	}
	if len(items) == 0 {
		return nil, &content.SourceError{Language: lang, Err: ErrNoItems}
	}
	return items, nil
}

func (d *Dispatcher) publish(typ string, data any) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(eventbus.Event{Type: typ, Time: d.now(), Data: data})
}
