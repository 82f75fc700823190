package router

import (
	"context"
	"time"

	kit "paramibot/internal/transport"
	logx "paramibot/pkg/logx"
)

type HandlerFunc func(ctx context.Context, req *Request) error

// Command is one entry of the static command table.
type Command struct {
	// Name is the bare command id, without the leading slash.
	Name        string
	Description string
	// Usage is shown by /help after the name, e.g. "<language>".
	Usage string
	// Hidden commands are routed but not listed in help or the menu.
	Hidden  bool
	Timeout time.Duration
	Handle  HandlerFunc
}

// Request is what a handler sees for one invocation.
type Request struct {
	Update  kit.Update
	Chat    kit.ChatTarget
	FromID  int64
	Command string
	Args    []string
	ReqID   string

	Sender kit.Sender
	Logger logx.Logger
}

// Reply sends text back to the invoking chat.
func (r *Request) Reply(ctx context.Context, text string, opt *kit.SendOptions) error {
	_, err := r.Sender.SendText(ctx, r.Chat, text, opt)
	return err
}

// Arg returns the i-th argument or "".
func (r *Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return r.Args[i]
}
