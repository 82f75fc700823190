package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatTarget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want ChatTarget
		ok   bool
	}{
		{"@paramiday_eng", ChatTarget{Username: "@paramiday_eng"}, true},
		{" -1001234567890 ", ChatTarget{ChatID: -1001234567890}, true},
		{"42", ChatTarget{ChatID: 42}, true},
		{"", ChatTarget{}, false},
		{"@", ChatTarget{}, false},
		{"@two words", ChatTarget{}, false},
		{"0", ChatTarget{}, false},
		{"channel", ChatTarget{}, false},
	}
	for _, tt := range tests {
		got, err := ParseChatTarget(tt.raw)
		if !tt.ok {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestChatTargetRecipient(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "@paramiday_ukr", ChatTarget{Username: "@paramiday_ukr", ChatID: 5}.Recipient())
	assert.Equal(t, "-100123", ChatTarget{ChatID: -100123}.String())
	assert.True(t, ChatTarget{}.IsZero())
}

func TestDeliveryError(t *testing.T) {
	t.Parallel()
	to := ChatTarget{ChatID: 7}
	cause := errors.New("Forbidden: bot was blocked by the user")
	err := AsDeliveryError(to, cause)

	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "delivery to 7 failed: Forbidden: bot was blocked by the user", err.Error())

	// No double wrapping.
	wrapped := fmt.Errorf("send: %w", err)
	assert.Same(t, wrapped, AsDeliveryError(ChatTarget{ChatID: 8}, wrapped))
	assert.NoError(t, AsDeliveryError(to, nil))
}
