package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fasscorp/FassimoV3/internal/session"
)

func TestEmailAdapter(t *testing.T) {
	t.Run("subject and body", func(t *testing.T) {
		raw := "From: alice@example.com\r\nSubject: Pricing question\r\n\r\nHow much is the premium plan?\r\n"
		msg, ch, err := EmailAdapter{}.Normalize([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, session.ChannelEmail, ch)
		assert.Equal(t, "Pricing question\nHow much is the premium plan?", msg)
	})

	t.Run("body only", func(t *testing.T) {
		msg, _, err := EmailAdapter{}.Normalize([]byte("From: alice@example.com\n\nJust the body."))
		require.NoError(t, err)
		assert.Equal(t, "Just the body.", msg)
	})

	t.Run("empty email rejected", func(t *testing.T) {
		_, _, err := EmailAdapter{}.Normalize([]byte("From: alice@example.com\n\n  \n"))
		assert.Error(t, err)
	})
}

func TestWhatsappAdapter(t *testing.T) {
	t.Run("webhook payload", func(t *testing.T) {
		msg, ch, err := WhatsappAdapter{}.Normalize([]byte(`{"from": "+15551234", "text": " hi there "}`))
		require.NoError(t, err)
		assert.Equal(t, session.ChannelWhatsapp, ch)
		assert.Equal(t, "hi there", msg)
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		_, _, err := WhatsappAdapter{}.Normalize([]byte(`{"from":`))
		assert.Error(t, err)
	})

	t.Run("missing text rejected", func(t *testing.T) {
		_, _, err := WhatsappAdapter{}.Normalize([]byte(`{"from": "+15551234"}`))
		assert.Error(t, err)
	})
}

func TestVoiceAdapter(t *testing.T) {
	_, _, err := VoiceAdapter{}.Normalize([]byte{0x00, 0x01})
	assert.Error(t, err)
}
