//go:build !integration

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scam-honeypot/internal/domain/model"
)

func TestExtract(t *testing.T) {
	t.Run("should pull upi ids and phone numbers", func(t *testing.T) {
		got := Extract("Pay to merchant@upi or call 9876543210")
		assert.Equal(t, []string{"merchant@upi"}, got.UPIIDs)
		assert.Equal(t, []string{"9876543210"}, got.PhoneNumbers)
		assert.Empty(t, got.BankAccounts)
	})

	t.Run("should normalize the country code", func(t *testing.T) {
		got := Extract("Call +91 9876543210 now")
		assert.Equal(t, []string{"9876543210"}, got.PhoneNumbers)
		assert.Empty(t, got.BankAccounts)
	})

	t.Run("should not report a glued country code phone as an account", func(t *testing.T) {
		got := Extract("transfer the money from bank to +919876543210 today")
		assert.Equal(t, []string{"9876543210"}, got.PhoneNumbers)
		assert.Empty(t, got.BankAccounts)

		got = Extract("Deposit to account +91-9123456780 urgently")
		assert.Equal(t, []string{"9123456780"}, got.PhoneNumbers)
		assert.Empty(t, got.BankAccounts)
	})

	t.Run("should classify long numbers near banking words as accounts", func(t *testing.T) {
		got := Extract("Transfer to account number 123456789012 IFSC SBIN0001234")
		assert.Equal(t, []string{"123456789012"}, got.BankAccounts)
		assert.Empty(t, got.PhoneNumbers)
	})

	t.Run("should prefer bank over phone for a bare ten digit number in a banking sentence", func(t *testing.T) {
		got := Extract("Deposit to account 9876543210 today")
		assert.Equal(t, []string{"9876543210"}, got.BankAccounts)
		assert.Empty(t, got.PhoneNumbers)
	})

	t.Run("should keep phone when calling words are present", func(t *testing.T) {
		got := Extract("Bank helpline, call 9876543210")
		assert.Equal(t, []string{"9876543210"}, got.PhoneNumbers)
		assert.Empty(t, got.BankAccounts)
	})

	t.Run("should ignore short numbers", func(t *testing.T) {
		got := Extract("Your OTP is 123456")
		assert.Empty(t, got.BankAccounts)
		assert.Empty(t, got.PhoneNumbers)
		assert.Contains(t, got.SuspiciousKeywords, "otp")
	})

	t.Run("should pull links and keywords", func(t *testing.T) {
		got := Extract("Verify at https://bit.ly/abc or your account blocked, urgent KYC")
		assert.Equal(t, []string{"https://bit.ly/abc"}, got.PhishingLinks)
		assert.Subset(t, got.SuspiciousKeywords, []string{"verify", "urgent", "blocked", "kyc"})
	})

	t.Run("should return empty lists for plain text", func(t *testing.T) {
		got := Extract("hello, how are you")
		for _, c := range model.AllCategories {
			assert.NotNil(t, got.Values(c), c)
			assert.Empty(t, got.Values(c), c)
		}
	})
}

func TestExtractMergeIsIdempotent(t *testing.T) {
	text := "Pay merchant@upi, call 9876543210, urgent"
	intel := model.NewIntelligence()

	grown := intel.Merge(Extract(text))
	assert.ElementsMatch(t, []model.Category{
		model.CategoryUPIIDs, model.CategoryPhoneNumbers, model.CategorySuspiciousKeywords,
	}, grown)

	snapshot := intel.Clone()
	assert.Empty(t, intel.Merge(Extract(text)))
	assert.Equal(t, snapshot, intel)
}
