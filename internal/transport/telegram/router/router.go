package router

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	rtsup "paramibot/internal/runtime/supervisor"
	kit "paramibot/internal/transport"
	logx "paramibot/pkg/logx"
)

// DefaultErrorText is sent when a handler fails unexpectedly.
const DefaultErrorText = "An unexpected error occurred. Please try again later."

type Option func(*Router)

// WithWorkers sets the handler pool size. With one worker, commands run on
// the DispatchLoop goroutine one at a time and the update channel is the queue.
func WithWorkers(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.queue = n
		}
	}
}

// WithBotUsername makes the router ignore commands addressed to other bots.
func WithBotUsername(name string) Option { return func(r *Router) { r.botName = name } }

// WithUnknownText replies to unknown commands in private chats.
func WithUnknownText(text string) Option { return func(r *Router) { r.unknownText = text } }

// Router maps command names to handlers. The table is fixed once
// DispatchLoop starts.
type Router struct {
	log    logx.Logger
	sender kit.Sender

	workers     int
	queue       int
	botName     string
	unknownText string

	mu    sync.RWMutex
	cmds  map[string]Command
	order []string

	jobs chan func()
	seq  atomic.Uint64
}

func New(log logx.Logger, sender kit.Sender, opts ...Option) *Router {
	if log.IsZero() {
		log = logx.Nop()
	}
	r := &Router{
		log:       log,
		sender:    sender,
		workers:   max(2, runtime.NumCPU()),
		queue:     64,
		cmds:      map[string]Command{},
	}
	for _, o := range opts {
		o(r)
	}
	r.jobs = make(chan func(), r.queue)
	return r
}

// Register adds commands. Names must be valid and unique.
func (r *Router) Register(cmds ...Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, c := range cmds {
		switch {
		case !ValidCommandName(c.Name):
			errs = append(errs, fmt.Errorf("command %q: invalid name", c.Name))
		case c.Handle == nil:
			errs = append(errs, fmt.Errorf("command %q: no handler", c.Name))
		case r.hasLocked(c.Name):
			errs = append(errs, fmt.Errorf("command %q: already registered", c.Name))
		default:
			r.cmds[c.Name] = c
			r.order = append(r.order, c.Name)
		}
	}
	return errors.Join(errs...)
}

func (r *Router) hasLocked(name string) bool {
	_, ok := r.cmds[name]
	return ok
}

// Commands lists visible commands in registration order.
func (r *Router) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.order))
	for _, n := range r.order {
		if c := r.cmds[n]; !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

func (r *Router) lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cmds[name]
	return c, ok
}

// MenuCommands is the command list for the client menu.
func (r *Router) MenuCommands() []kit.BotCommand {
	cmds := r.Commands()
	out := make([]kit.BotCommand, 0, len(cmds))
	for _, c := range cmds {
		d := c.Description
		if d == "" {
			d = c.Name
		}
		out = append(out, kit.BotCommand{Command: c.Name, Description: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

// PublishMenu pushes MenuCommands to the adapter if it supports it.
func (r *Router) PublishMenu(ctx context.Context) error {
	up, ok := r.sender.(kit.CommandMenuUpdater)
	if !ok {
		return nil
	}
	return up.UpdateMenuCommands(ctx, r.MenuCommands())
}

// DispatchLoop consumes updates until ctx is done or updates is closed.
// Handlers run on a bounded worker pool.
func (r *Router) DispatchLoop(ctx context.Context, updates <-chan kit.Update) error {
	if r.workers == 1 {
		return r.serialLoop(ctx, updates)
	}
	sup := rtsup.New(ctx, rtsup.WithLogger(r.log))
	for i := 0; i < r.workers; i++ {
		sup.GoRestart("command.worker."+strconv.Itoa(i), func(c context.Context) error {
			for {
				select {
				case <-c.Done():
					return nil
				case job, ok := <-r.jobs:
					if !ok {
						return nil
					}
					job()
				}
			}
		}, rtsup.WithRestartBackoff(200*time.Millisecond, 5*time.Second))
	}
	r.log.Info("command dispatcher started", logx.Int("workers", r.workers), logx.Int("commands", len(r.Commands())))

	defer func() {
		// Let queued commands finish before tearing the pool down.
		wctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		close(r.jobs)
		_ = sup.Wait(wctx)
		cancel()
		sup.Cancel()
		r.log.Info("command dispatcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			r.route(ctx, up)
		}
	}
}

func (r *Router) route(ctx context.Context, up kit.Update) {
	job, req := r.prepare(ctx, up)
	if job == nil {
		return
	}
	select {
	case r.jobs <- job:
	default:
		req.Logger.Warn("command queue full")
		_, _ = r.sender.SendText(ctx, req.Chat, "Busy, please try again in a moment.", nil)
	}
}

func (r *Router) serialLoop(ctx context.Context, updates <-chan kit.Update) error {
	r.log.Info("command dispatcher started", logx.Int("workers", 1), logx.Int("commands", len(r.Commands())))
	defer r.log.Info("command dispatcher stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			r.Dispatch(ctx, up)
		}
	}
}

// Dispatch runs one update synchronously, bypassing the worker pool.
func (r *Router) Dispatch(ctx context.Context, up kit.Update) {
	if job, _ := r.prepare(ctx, up); job != nil {
		job()
	}
}

// prepare resolves up to a ready-to-run handler. It returns nil for
// non-commands and unknown commands.
func (r *Router) prepare(ctx context.Context, up kit.Update) (func(), *Request) {
	if up.Kind != kit.UpdateMessage || up.Message == nil {
		return nil, nil
	}
	msg := up.Message
	name, args, ok := ParseCommand(msg.Text, r.botName)
	if !ok {
		return nil, nil
	}
	chat := kit.ChatTarget{ChatID: msg.ChatID}
	cmd, ok := r.lookup(name)
	if !ok {
		r.log.Debug("unknown command", logx.String("cmd", name), logx.Int64("chat_id", msg.ChatID))
		if r.unknownText != "" && !msg.IsGroup {
			_, _ = r.sender.SendText(ctx, chat, r.unknownText, nil)
		}
		return nil, nil
	}

	rid := strconv.FormatUint(r.seq.Add(1), 36)
	req := &Request{
		Update:  up,
		Chat:    chat,
		FromID:  msg.FromID,
		Command: name,
		Args:    args,
		ReqID:   rid,
		Sender:  r.sender,
		Logger: r.log.With(
			logx.String("rid", rid),
			logx.Int64("chat_id", msg.ChatID),
			logx.Int64("from_id", msg.FromID),
			logx.String("cmd", name),
		),
	}
	h := Chain(cmd.Handle,
		MWErrorReply(DefaultErrorText),
		MWRequestLog(),
		MWPanicRecover(),
		MWTimeout(cmd.Timeout),
	)
	return func() { _ = h(ctx, req) }, req
}
