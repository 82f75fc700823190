package tgui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscAndBold(t *testing.T) {
	assert.Equal(t, H("a &lt;b&gt; &amp; c"), Esc("a <b> & c"))
	assert.Equal(t, H("<b>x &lt; y</b>"), B("x < y"))
}

func TestJoinHSkipsBlank(t *testing.T) {
	assert.Equal(t, H("a\nb"), JoinH("\n", "a", " ", "b"))
	assert.Equal(t, H(""), JoinH("\n"))
}

func TestTruncRunes(t *testing.T) {
	assert.Equal(t, "Пар…", TruncRunes("Парамі", 3))
	assert.Equal(t, "abc", TruncRunes("abc", 3))
	assert.Equal(t, "", TruncRunes("abc", 0))
	assert.Equal(t, 6, Len("Парамі"))
}
