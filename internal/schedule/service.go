package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	logx "paramibot/pkg/logx"
)

// Job is one scheduled unit of work. Errors are logged, never retried.
type Job func(ctx context.Context) error

type entry struct {
	name    string
	daily   Daily
	timeout time.Duration
	job     Job
	id      cron.EntryID
}

// Info describes a registered schedule.
type Info struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

type Service struct {
	mu sync.Mutex

	log     logx.Logger
	c       *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	entries []*entry
}

func New(log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{log: log}
	cl := cronLogger{log: log}
	s.c = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		// A day is long; an overlapping run means the previous one is stuck.
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// AddDaily registers job under a unique name.
func (s *Service) AddDaily(name string, d Daily, timeout time.Duration, job Job) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name required")
	}
	if job == nil {
		return errors.New("job required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.name == name {
			return fmt.Errorf("schedule %q already registered", name)
		}
	}
	e := &entry{name: name, daily: d, timeout: timeout, job: job}
	e.id = s.c.Schedule(d, cron.FuncJob(func() { s.run(e) }))
	s.entries = append(s.entries, e)
	s.log.Info("schedule registered",
		logx.String("name", name),
		logx.String("spec", d.String()),
		logx.Time("next", d.Next(time.Now())))
	return nil
}

func (s *Service) run(e *entry) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()

	ctx := parent
	var cancel context.CancelFunc
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, e.timeout)
		defer cancel()
	}
	start := time.Now()
	s.log.Info("schedule triggered", logx.String("name", e.name))
	if err := e.job(ctx); err != nil {
		s.log.Error("scheduled job failed", logx.String("name", e.name), logx.Duration("took", time.Since(start)), logx.Err(err))
		return
	}
	s.log.Info("scheduled job done", logx.String("name", e.name), logx.Duration("took", time.Since(start)))
}

// Start begins triggering. Jobs get a context derived from ctx.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.c.Start()
	s.log.Info("scheduler started", logx.Int("schedules", len(s.Entries())))
}

// Stop stops triggering, cancels running jobs and waits for them (bounded by ctx).
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

func (s *Service) Entries() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Info, 0, len(s.entries))
	for _, e := range s.entries {
		ce := s.c.Entry(e.id)
		out = append(out, Info{Name: e.name, Spec: e.daily.String(), Next: ce.Next, Prev: ce.Prev})
	}
	return out
}

// Next previews the next trigger of name.
func (s *Service) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.name != name {
			continue
		}
		if ce := s.c.Entry(e.id); !ce.Next.IsZero() {
			return ce.Next, true
		}
		return e.daily.Next(time.Now()), true
	}
	return time.Time{}, false
}

// cronLogger adapts logx to cron.Logger.
type cronLogger struct{ log logx.Logger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug("cron: "+msg, kvFields(kv)...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error("cron: "+msg, append(kvFields(kv), logx.Err(err))...)
}

func kvFields(kv []interface{}) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logx.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
