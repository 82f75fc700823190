package app

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	logx "paramibot/pkg/logx"
)

// sdNotifier reports lifecycle state to systemd. Outside systemd
// (no NOTIFY_SOCKET) every call is a no-op.
type sdNotifier struct {
	log logx.Logger
}

func (n sdNotifier) notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.log.Warn("sd_notify failed", logx.String("state", state), logx.Err(err))
		return
	}
	if sent {
		n.log.Debug("sd_notify", logx.String("state", state))
	}
}

func (n sdNotifier) Ready()    { n.notify(daemon.SdNotifyReady) }
func (n sdNotifier) Stopping() { n.notify(daemon.SdNotifyStopping) }

// Watchdog pings systemd at half the configured WatchdogSec until ctx is done.
func (n sdNotifier) Watchdog(ctx context.Context) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		n.log.Warn("watchdog config invalid", logx.Err(err))
		return
	}
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval / 2)
	defer t.Stop()
	n.log.Info("systemd watchdog enabled", logx.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.notify(daemon.SdNotifyWatchdog)
		}
	}
}
