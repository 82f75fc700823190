package dispatch

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blocksOfLen(lens ...int) []RenderedBlock {
	out := make([]RenderedBlock, len(lens))
	for i, n := range lens {
		out[i] = RenderedBlock{Text: strings.Repeat(string(rune('a'+i%26)), n), Len: n}
	}
	return out
}

func chunkLens(chunks []MessageChunk) [][]int {
	out := make([][]int, len(chunks))
	for i, c := range chunks {
		for _, b := range c.Blocks {
			out[i] = append(out[i], b.Len)
		}
	}
	return out
}

func TestChunkGreedy(t *testing.T) {
	tests := []struct {
		name   string
		lens   []int
		maxLen int
		want   [][]int
	}{
		{name: "fits two", lens: []int{100, 100, 100}, maxLen: 250, want: [][]int{{100, 100}, {100}}},
		{name: "all oversized", lens: []int{100, 100, 100}, maxLen: 50, want: [][]int{{100}, {100}, {100}}},
		{name: "exact fit", lens: []int{100, 150, 10}, maxLen: 250, want: [][]int{{100, 150}, {10}}},
		{name: "oversized in middle", lens: []int{10, 300, 10, 10}, maxLen: 100, want: [][]int{{10}, {300}, {10, 10}}},
		{name: "single", lens: []int{1}, maxLen: 1, want: [][]int{{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Chunk(blocksOfLen(tt.lens...), tt.maxLen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chunkLens(got))
		})
	}
}

func TestChunkEmpty(t *testing.T) {
	for _, maxLen := range []int{1, 50, 4000} {
		got, err := Chunk(nil, maxLen)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestChunkInvalidMaxLen(t *testing.T) {
	_, err := Chunk(blocksOfLen(1), 0)
	assert.ErrorIs(t, err, ErrInvalidMaxLen)
	_, err = Chunk(nil, -3)
	assert.ErrorIs(t, err, ErrInvalidMaxLen)
}

func TestChunkPreservesOrderAndBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		lens := make([]int, 1+r.IntN(30))
		for i := range lens {
			lens[i] = 1 + r.IntN(120)
		}
		blocks := blocksOfLen(lens...)
		maxLen := 1 + r.IntN(300)

		chunks, err := Chunk(blocks, maxLen)
		require.NoError(t, err)

		var joined []RenderedBlock
		var text strings.Builder
		for _, c := range chunks {
			require.NotEmpty(t, c.Blocks)
			sum := 0
			for _, b := range c.Blocks {
				sum += b.Len
			}
			assert.Equal(t, sum, c.Len)
			if len(c.Blocks) > 1 {
				assert.LessOrEqual(t, c.Len, maxLen)
			}
			joined = append(joined, c.Blocks...)
			text.WriteString(c.Text())
		}
		assert.Equal(t, blocks, joined)

		var want strings.Builder
		for _, b := range blocks {
			want.WriteString(b.Text)
		}
		assert.Equal(t, want.String(), text.String())
	}
}
