// Package channels holds the inbound channel adapters. Each adapter exposes a
// single normalize-and-forward operation converting its native payload (raw
// email, webhook JSON, audio) into the (message, channel) pair the router
// consumes. These are prototype stubs: no real mail server, webhook
// verification, or transcription backend sits behind them.
package channels

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Fasscorp/FassimoV3/internal/session"
)

// Adapter normalizes a native payload into router input.
type Adapter interface {
	Normalize(payload []byte) (message string, channel session.Channel, err error)
}

// EmailAdapter extracts a message from a raw RFC 822-ish email: the Subject
// header plus the body after the first blank line.
type EmailAdapter struct{}

// Normalize implements Adapter.
func (EmailAdapter) Normalize(payload []byte) (string, session.Channel, error) {
	raw := strings.ReplaceAll(string(payload), "\r\n", "\n")
	headerPart, body, _ := strings.Cut(raw, "\n\n")

	var subject string
	for _, line := range strings.Split(headerPart, "\n") {
		if v, ok := strings.CutPrefix(line, "Subject:"); ok {
			subject = strings.TrimSpace(v)
			break
		}
	}

	message := strings.TrimSpace(strings.TrimSpace(subject) + "\n" + strings.TrimSpace(body))
	if message == "" {
		return "", "", fmt.Errorf("email payload contained no subject or body")
	}
	return message, session.ChannelEmail, nil
}

// WhatsappAdapter decodes the webhook payload {"from": ..., "text": ...}.
type WhatsappAdapter struct{}

type whatsappPayload struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// Normalize implements Adapter.
func (WhatsappAdapter) Normalize(payload []byte) (string, session.Channel, error) {
	var p whatsappPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", "", fmt.Errorf("invalid whatsapp webhook payload: %w", err)
	}
	if strings.TrimSpace(p.Text) == "" {
		return "", "", fmt.Errorf("whatsapp payload contained no text")
	}
	return strings.TrimSpace(p.Text), session.ChannelWhatsapp, nil
}

// VoiceAdapter would transcribe an audio buffer. No transcription backend is
// wired in the prototype, so it always fails.
type VoiceAdapter struct{}

// Normalize implements Adapter.
func (VoiceAdapter) Normalize(payload []byte) (string, session.Channel, error) {
	return "", "", fmt.Errorf("voice transcription not configured")
}
