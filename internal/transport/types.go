package transport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type UpdateKind string

const (
	UpdateMessage UpdateKind = "message"
)

type Update struct {
	Kind    UpdateKind
	Message *Message
}

type Message struct {
	ID           int
	ChatID       int64
	FromID       int64
	FromUsername string
	Text         string
	IsGroup      bool
}

// ChatTarget addresses a chat either by numeric id or by public @username
// (channels). Username wins when both are set.
type ChatTarget struct {
	ChatID   int64
	Username string
}

// ParseChatTarget accepts "@channel" or a numeric chat id ("-100123...").
func ParseChatTarget(raw string) (ChatTarget, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ChatTarget{}, errors.New("chat target is empty")
	}
	if strings.HasPrefix(s, "@") {
		if len(s) < 2 || strings.ContainsAny(s, " \t\n") {
			return ChatTarget{}, fmt.Errorf("invalid chat username %q", raw)
		}
		return ChatTarget{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return ChatTarget{}, fmt.Errorf("invalid chat id %q", raw)
	}
	return ChatTarget{ChatID: id}, nil
}

func (t ChatTarget) IsZero() bool { return t.ChatID == 0 && t.Username == "" }

// Recipient renders the target the way the Bot API expects chat_id.
func (t ChatTarget) Recipient() string {
	if t.Username != "" {
		return t.Username
	}
	return strconv.FormatInt(t.ChatID, 10)
}

func (t ChatTarget) String() string { return t.Recipient() }

type MessageRef struct {
	Chat      ChatTarget
	MessageID int
}

// Markup selects how the transport interprets message text.
type Markup int

const (
	PlainText Markup = iota
	// RichText is Telegram HTML: <b> spans for emphasis, literal newlines as breaks.
	RichText
)

func (m Markup) String() string {
	if m == RichText {
		return "rich"
	}
	return "plain"
}

type SendOptions struct {
	Markup         Markup
	DisablePreview bool
}

// ErrDeliveryFailed is matched by every *DeliveryError.
var ErrDeliveryFailed = errors.New("delivery failed")

// DeliveryError reports a failed send to one destination.
type DeliveryError struct {
	To  ChatTarget
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDeliveryFailed }

// AsDeliveryError wraps err for to unless it already is a *DeliveryError.
func AsDeliveryError(to ChatTarget, err error) error {
	if err == nil {
		return nil
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		return err
	}
	return &DeliveryError{To: to, Err: err}
}

// Sender is the outbound half of an adapter.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}

type Adapter interface {
	Sender
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error
}

// BotCommand represents a single bot command menu entry.
type BotCommand struct {
	Command     string
	Description string
}

// CommandMenuUpdater is an optional interface that adapters can implement
// to update platform-specific bot command menus (e.g. Telegram /menu list).
type CommandMenuUpdater interface {
	UpdateMenuCommands(ctx context.Context, cmds []BotCommand) error
}
