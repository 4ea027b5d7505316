package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Run("bank statement keywords", func(t *testing.T) {
		assert.Equal(t, TagBankStatement, Detect("Your BANK STATEMENT for January"))
		assert.Equal(t, TagBankStatement, Detect("account balance: $5,000.00"))
		assert.Equal(t, TagBankStatement, Detect("Primary Checking Account summary"))
	})

	t.Run("credit report keywords", func(t *testing.T) {
		assert.Equal(t, TagCreditReport, Detect("Consumer Credit Report"))
		assert.Equal(t, TagCreditReport, Detect("your credit score is 720"))
		assert.Equal(t, TagCreditReport, Detect("FICO Score 8"))
		assert.Equal(t, TagCreditReport, Detect("data furnished by Experian"))
	})

	t.Run("defaults to generic", func(t *testing.T) {
		assert.Equal(t, TagGeneric, Detect("Quarterly invoice for consulting services"))
		assert.Equal(t, TagGeneric, Detect(""))
	})

	t.Run("bank keywords take precedence when both sets match", func(t *testing.T) {
		text := "Credit Report attached alongside the Account Balance summary"
		assert.Equal(t, TagBankStatement, Detect(text))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "checking account with a credit score mention"
		first := Detect(text)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Detect(text))
		}
	})
}
