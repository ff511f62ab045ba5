//go:build !integration

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scam-honeypot/internal/domain/model"
)

func TestScore(t *testing.T) {
	t.Run("should detect instantly on explicit otp request", func(t *testing.T) {
		st := model.NewScamStatus()
		res := Score(&st, model.NewIntelligence(), "Please SEND OTP now")
		assert.True(t, res.Instant)
		assert.True(t, res.NewlyDetected)
		assert.True(t, st.Detected)
		assert.Equal(t, InstantConfidence, st.Confidence)
	})

	t.Run("should accumulate signals until the threshold", func(t *testing.T) {
		st := model.NewScamStatus()
		intel := model.NewIntelligence()

		res := Score(&st, intel, "hello")
		assert.False(t, st.Detected)
		assert.Zero(t, st.Confidence)
		assert.Empty(t, res.Raised)

		intel.Add(model.CategoryPhoneNumbers, "9876543210")
		res = Score(&st, intel, "call me back")
		assert.Equal(t, []model.Signal{model.SignalPhone}, res.Raised)
		assert.Equal(t, 2, st.Confidence)
		assert.False(t, st.Detected)

		res = Score(&st, intel, "call me back")
		assert.Empty(t, res.Raised, "a signal counts once per session")
		assert.Equal(t, 2, st.Confidence)

		res = Score(&st, intel, "do it urgent")
		assert.Equal(t, []model.Signal{model.SignalUrgency}, res.Raised)
		assert.Equal(t, DetectionThreshold, st.Confidence)
		assert.True(t, st.Detected)
		assert.True(t, res.NewlyDetected)
	})

	t.Run("should freeze once detected", func(t *testing.T) {
		st := model.NewScamStatus()
		Score(&st, model.NewIntelligence(), "share otp")
		intel := model.NewIntelligence()
		intel.Add(model.CategoryUPIIDs, "x@upi")

		res := Score(&st, intel, "you won a lottery")
		assert.False(t, res.NewlyDetected)
		assert.Empty(t, res.Raised)
		assert.Equal(t, InstantConfidence, st.Confidence)
		assert.True(t, st.Detected)
	})

	t.Run("should never decrease confidence", func(t *testing.T) {
		st := model.NewScamStatus()
		intel := model.NewIntelligence()
		intel.Add(model.CategoryPhishingLinks, "http://x.io")
		prev := 0
		for _, text := range []string{"claim your prize", "nothing", "hello", "asap"} {
			Score(&st, intel, text)
			assert.GreaterOrEqual(t, st.Confidence, prev)
			prev = st.Confidence
		}
	})
}
