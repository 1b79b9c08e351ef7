package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		out, err := ExtractJSON(`{"a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("fenced object", func(t *testing.T) {
		out, err := ExtractJSON("```json\n{\"a\": 1}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("object surrounded by prose", func(t *testing.T) {
		out, err := ExtractJSON(`Sure! Here you go: {"a": {"b": 2}} hope that helps`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": {"b": 2}}`, out)
	})

	t.Run("braces inside strings do not confuse matching", func(t *testing.T) {
		out, err := ExtractJSON(`{"a": "curly } brace", "b": "\" quoted"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": "curly } brace", "b": "\" quoted"}`, out)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := ExtractJSON("no json here")
		assert.Error(t, err)
	})

	t.Run("unbalanced object", func(t *testing.T) {
		_, err := ExtractJSON(`{"a": 1`)
		assert.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	type payload struct {
		Reply string `json:"reply"`
	}

	t.Run("decodes fenced payload", func(t *testing.T) {
		var p payload
		err := Decode("```json\n{\"reply\": \"hi\"}\n```", &p)
		require.NoError(t, err)
		assert.Equal(t, "hi", p.Reply)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		var p payload
		assert.Error(t, Decode(`{"reply": }`, &p))
	})
}
