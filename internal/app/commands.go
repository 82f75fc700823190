package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paramibot/internal/content"
	"paramibot/internal/dispatch"
	kit "paramibot/internal/transport"
	"paramibot/internal/transport/telegram/router"
	logx "paramibot/pkg/logx"
	"paramibot/pkg/tgui"
)

// GenericListCommand lists any supported language given as its argument.
const GenericListCommand = "all_paramis"

const (
	listTimeout   = 2 * time.Minute
	noticeTimeout = 10 * time.Second
)

const (
	textUnavailable = "Content is temporarily unavailable. Please try again later."
	textUnknown     = "Unknown command. Try /help"
)

type langCommand struct {
	Name        string
	Language    content.Language
	Description string
}

// lister is the part of the dispatcher the command handlers need.
type lister interface {
	ListAll(ctx context.Context, lang content.Language, requester kit.ChatTarget) (dispatch.ListReport, error)
	Table() *dispatch.Table
}

// buildCommands returns the static command table. Command ids are fixed at
// startup.
func buildCommands(d lister, langs []langCommand, commands func() []router.Command) []router.Command {
	cmds := []router.Command{
		{
			Name:        "start",
			Description: "Introduction and available commands",
			Handle:      helpHandler(commands, true),
		},
		{
			Name:        "help",
			Description: "List available commands",
			Handle:      helpHandler(commands, false),
		},
		{
			Name:        GenericListCommand,
			Description: "All Paramis in a language",
			Usage:       "<language>",
			Timeout:     listTimeout,
			Handle: func(ctx context.Context, req *router.Request) error {
				return runList(ctx, req, d, content.ParseLanguage(req.Arg(0)))
			},
		},
	}
	for _, lc := range langs {
		desc := lc.Description
		if desc == "" {
			desc = fmt.Sprintf("All Paramis (%s)", lc.Language)
		}
		cmds = append(cmds, router.Command{
			Name:        lc.Name,
			Description: desc,
			Timeout:     listTimeout,
			Handle: func(ctx context.Context, req *router.Request) error {
				return runList(ctx, req, d, lc.Language)
			},
		})
	}
	return cmds
}

// runList lists lang to the invoking chat and tells the user about any
// failure. Only unexpected errors are returned.
func runList(ctx context.Context, req *router.Request, d lister, lang content.Language) error {
	rep, err := d.ListAll(ctx, lang, req.Chat)
	switch {
	case errors.Is(err, content.ErrUnsupportedLanguage):
		return req.Reply(ctx, unsupportedText(lang, d.Table().Languages()), nil)
	case errors.Is(err, content.ErrSourceUnavailable):
		return req.Reply(ctx, textUnavailable, nil)
	case err != nil:
		return err
	case rep.State == dispatch.StatePartiallyFailed:
		// The listing deadline may be what failed; the notice gets its own.
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
		defer cancel()
		if rerr := req.Reply(nctx, incompleteText(rep), nil); rerr != nil {
			req.Logger.Debug("incomplete notice not delivered", logx.Err(rerr))
		}
		return nil
	}
	return nil
}

func unsupportedText(lang content.Language, supported []content.Language) string {
	names := make([]string, 0, len(supported))
	for _, l := range supported {
		names = append(names, l.String())
	}
	var b strings.Builder
	if lang == "" {
		b.WriteString("Please specify a language.")
	} else {
		fmt.Fprintf(&b, "Unsupported language: %s.", lang)
	}
	fmt.Fprintf(&b, "\nUsage: /%s <language>\nAvailable: %s", GenericListCommand, strings.Join(names, ", "))
	return b.String()
}

func incompleteText(rep dispatch.ListReport) string {
	return fmt.Sprintf("Delivery incomplete: %d of %d parts sent.", rep.Sent, rep.Total)
}

func helpHandler(commands func() []router.Command, greet bool) router.HandlerFunc {
	return func(ctx context.Context, req *router.Request) error {
		return req.Reply(ctx, helpText(commands(), greet), &kit.SendOptions{Markup: kit.RichText, DisablePreview: true})
	}
}

func helpText(cmds []router.Command, greet bool) string {
	lines := make([]tgui.H, 0, len(cmds)+2)
	if greet {
		lines = append(lines, tgui.Raw("☸️ ")+tgui.B("Paramis")+tgui.Esc(": the ten perfections, one a day.")+tgui.Raw("\n"))
	}
	lines = append(lines, tgui.B("Commands"))
	for _, c := range cmds {
		name := "/" + c.Name
		if c.Usage != "" {
			name += " " + c.Usage
		}
		lines = append(lines, tgui.Esc(name)+tgui.Esc(" - "+c.Description))
	}
	return tgui.JoinH("\n", lines...).String()
}
