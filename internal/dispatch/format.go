package dispatch

import (
	"strings"

	"paramibot/internal/content"
	"paramibot/pkg/tgui"
)

// DefaultMarker prefixes every rendered block.
const DefaultMarker = "☸️"

// RenderedBlock is one formatted fragment (an item or a header).
// Len is the rune count of the HTML Text, markup included, computed once at
// render time. Telegram measures its limit in UTF-16 units after parsing
// entities, so Len is an approximation: an emoji outside the BMP is one rune
// but two units.
type RenderedBlock struct {
	Text string
	Len  int
}

func newBlock(h tgui.H) RenderedBlock {
	s := h.String()
	return RenderedBlock{Text: s, Len: tgui.Len(s)}
}

// Formatter renders items and headers as Telegram HTML.
type Formatter struct {
	marker  string
	headers map[content.Language]string
}

func NewFormatter(marker string, headers map[content.Language]string) *Formatter {
	if strings.TrimSpace(marker) == "" {
		marker = DefaultMarker
	}
	hs := make(map[content.Language]string, len(headers))
	for k, v := range headers {
		hs[k] = v
	}
	return &Formatter{marker: marker, headers: hs}
}

// RenderItem returns "<marker> <b>title</b>\n\nbody\n\n". It is pure.
func (f *Formatter) RenderItem(it content.Item) RenderedBlock {
	title := strings.TrimSpace(it.Title)
	body := strings.TrimSpace(it.Body)
	var h tgui.H
	if body == "" {
		h = tgui.H(f.marker+" ") + tgui.B(title) + "\n\n"
	} else {
		h = tgui.H(f.marker+" ") + tgui.B(title) + "\n\n" + tgui.Esc(body) + "\n\n"
	}
	return newBlock(h)
}

// RenderHeader returns the bold per-language header block.
func (f *Formatter) RenderHeader(lang content.Language) (RenderedBlock, error) {
	header, ok := f.headers[lang]
	if !ok {
		return RenderedBlock{}, &content.UnsupportedLanguageError{Language: lang}
	}
	return newBlock(tgui.H(f.marker+" ") + tgui.B(strings.TrimSpace(header)) + "\n\n"), nil
}
