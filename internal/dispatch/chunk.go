package dispatch

import (
	"errors"
	"strings"
)

var ErrInvalidMaxLen = errors.New("max message length must be positive")

// MessageChunk is the unit actually transmitted: blocks in order, Len their
// summed length.
type MessageChunk struct {
	Blocks []RenderedBlock
	Len    int
}

func (c MessageChunk) Text() string {
	var b strings.Builder
	b.Grow(c.Len)
	for _, blk := range c.Blocks {
		b.WriteString(blk.Text)
	}
	return b.String()
}

// Chunk greedily packs blocks into chunks of at most maxLen.
//
// A block is never split. A block longer than maxLen is emitted as a chunk on
// its own. Order is preserved and an empty input yields no chunks.
func Chunk(blocks []RenderedBlock, maxLen int) ([]MessageChunk, error) {
	if maxLen <= 0 {
		return nil, ErrInvalidMaxLen
	}
	var (
		out []MessageChunk
		cur MessageChunk
	)
	for _, blk := range blocks {
		if len(cur.Blocks) > 0 && cur.Len+blk.Len > maxLen {
			out = append(out, cur)
			cur = MessageChunk{}
		}
		cur.Blocks = append(cur.Blocks, blk)
		cur.Len += blk.Len
	}
	if len(cur.Blocks) > 0 {
		out = append(out, cur)
	}
	return out, nil
}
