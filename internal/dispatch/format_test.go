package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramibot/internal/content"
	"paramibot/pkg/tgui"
)

func TestRenderItem(t *testing.T) {
	f := NewFormatter("", nil)
	b := f.RenderItem(content.Item{Title: " Dāna ", Body: "Generosity <giving> & sharing\n"})

	assert.Equal(t, "☸️ <b>Dāna</b>\n\nGenerosity &lt;giving&gt; &amp; sharing\n\n", b.Text)
	assert.Equal(t, tgui.Len(b.Text), b.Len)
}

func TestRenderItemDeterministic(t *testing.T) {
	f := NewFormatter("*", nil)
	it := content.Item{Title: "Sīla", Body: "Virtue"}
	assert.Equal(t, f.RenderItem(it), f.RenderItem(content.Item{Title: "Sīla", Body: "Virtue"}))
}

func TestRenderItemWithoutBody(t *testing.T) {
	f := NewFormatter("*", nil)
	assert.Equal(t, "* <b>Khanti</b>\n\n", f.RenderItem(content.Item{Title: "Khanti"}).Text)
}

func TestRenderHeader(t *testing.T) {
	f := NewFormatter("", map[content.Language]string{"english": "All Paramis:"})

	b, err := f.RenderHeader("english")
	require.NoError(t, err)
	assert.Equal(t, "☸️ <b>All Paramis:</b>\n\n", b.Text)

	_, err = f.RenderHeader("klingon")
	assert.ErrorIs(t, err, content.ErrUnsupportedLanguage)
}

func TestBlockLenCountsRunesOfMarkup(t *testing.T) {
	f := NewFormatter("*", nil)
	b := f.RenderItem(content.Item{Title: "🙏"})
	assert.Equal(t, "* <b>🙏</b>\n\n", b.Text)
	assert.Equal(t, 12, b.Len)
}
