//go:build !integration

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
)

func TestParseReply(t *testing.T) {
	t.Run("should decode structured output", func(t *testing.T) {
		reply, lang, err := ParseReply(`{"language":"Hinglish","reply":" haan ji bolo "}`, model.DefaultLanguage)
		require.NoError(t, err)
		assert.Equal(t, "haan ji bolo", reply)
		assert.Equal(t, LanguageHinglish, lang)
	})

	t.Run("should decode fenced output", func(t *testing.T) {
		raw := "```json\n{\"language\":\"english\",\"reply\":\"ok sir\"}\n```"
		reply, lang, err := ParseReply(raw, LanguageHinglish)
		require.NoError(t, err)
		assert.Equal(t, "ok sir", reply)
		assert.Equal(t, model.DefaultLanguage, lang)
	})

	t.Run("should keep the previous language when none is given", func(t *testing.T) {
		_, lang, err := ParseReply(`{"reply":"theek hai"}`, LanguageHinglish)
		require.NoError(t, err)
		assert.Equal(t, LanguageHinglish, lang)
	})

	t.Run("should reject empty output", func(t *testing.T) {
		_, _, err := ParseReply("   ", model.DefaultLanguage)
		assert.ErrorIs(t, err, domain.ErrLLMEmpty)
	})

	t.Run("should reject an empty reply field", func(t *testing.T) {
		_, _, err := ParseReply(`{"language":"english","reply":""}`, model.DefaultLanguage)
		assert.ErrorIs(t, err, domain.ErrLLMMalformed)
	})

	t.Run("should reject broken json", func(t *testing.T) {
		_, _, err := ParseReply(`{"reply": "half`, model.DefaultLanguage)
		assert.ErrorIs(t, err, domain.ErrLLMMalformed)
	})

	t.Run("should accept plain text and guess the language", func(t *testing.T) {
		reply, lang, err := ParseReply("kya hai ye?", model.DefaultLanguage)
		require.NoError(t, err)
		assert.Equal(t, "kya hai ye?", reply)
		assert.Equal(t, LanguageHinglish, lang)

		_, lang, err = ParseReply("I went to Kathmandu", LanguageHinglish)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultLanguage, lang, "markers match whole words only")
	})
}
