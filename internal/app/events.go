package app

import (
	"context"

	"paramibot/internal/dispatch"
	"paramibot/internal/eventbus"
	logx "paramibot/pkg/logx"
)

// logEvents writes dispatch outcomes to the log until ctx is done.
func logEvents(ctx context.Context, bus eventbus.Bus, log logx.Logger) {
	events, unsub := bus.Subscribe(128)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			fields := []logx.Field{logx.String("type", e.Type), logx.Time("time", e.Time)}
			switch rep := e.Data.(type) {
			case dispatch.BroadcastReport:
				fields = append(fields,
					logx.Int("languages", len(rep.Results)),
					logx.Int("sent", rep.SentCount()),
					logx.Duration("took", rep.Finished.Sub(rep.Started)))
			case dispatch.ListReport:
				fields = append(fields,
					logx.String("lang", rep.Language.String()),
					logx.String("state", string(rep.State)),
					logx.Int("sent", rep.Sent),
					logx.Int("total", rep.Total))
			}
			log.Debug("event", fields...)
		}
	}
}
