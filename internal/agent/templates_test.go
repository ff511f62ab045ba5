//go:build !integration

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scam-honeypot/internal/domain/model"
)

func TestTemplatesCoverEveryStrategy(t *testing.T) {
	for _, s := range model.AllStrategies {
		set, ok := templates[s]
		if assert.True(t, ok, s) {
			assert.NotEmpty(t, set[model.DefaultLanguage], s)
			assert.NotEmpty(t, set[LanguageHinglish], s)
		}
	}
}

func TestTemplateReply(t *testing.T) {
	english := templates[model.StrategyDelay][model.DefaultLanguage]

	t.Run("should pick the first unused template", func(t *testing.T) {
		assert.Equal(t, english[0], TemplateReply(model.StrategyDelay, model.DefaultLanguage, nil))
		assert.Equal(t, english[1], TemplateReply(model.StrategyDelay, model.DefaultLanguage, english[:1]))
	})

	t.Run("should fall back to english for an unknown language", func(t *testing.T) {
		assert.Equal(t, english[0], TemplateReply(model.StrategyDelay, "french", nil))
	})

	t.Run("should fall back to delay for an unknown strategy", func(t *testing.T) {
		assert.Equal(t, english[0], TemplateReply(model.Strategy("bogus"), model.DefaultLanguage, nil))
	})

	t.Run("should cycle once everything was used", func(t *testing.T) {
		got := TemplateReply(model.StrategyDelay, model.DefaultLanguage, english)
		assert.Equal(t, english[len(english)%len(english)], got)
		assert.NotEmpty(t, got)
	})

	t.Run("should honor hinglish", func(t *testing.T) {
		got := TemplateReply(model.StrategyExtractBank, LanguageHinglish, nil)
		assert.Equal(t, templates[model.StrategyExtractBank][LanguageHinglish][0], got)
	})
}
