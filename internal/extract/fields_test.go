package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	t.Run("extracts labeled fields", func(t *testing.T) {
		text := "Bank Statement - ABC Bank\n" +
			"Account Holder: John Doe\n" +
			"Account Number: ****5678\n" +
			"Statement Date: 01/31/2024\n"

		fields := Fields(text)
		assert.Equal(t, "John Doe", fields.ClientName)
		assert.Equal(t, "****5678", fields.AccountNumber)
		assert.Equal(t, "01/31/2024", fields.StatementDate)
	})

	t.Run("first matching pattern wins", func(t *testing.T) {
		text := "Customer: Jane Roe\nPrimary Account Holder: Someone Else\n"
		fields := Fields(text)
		assert.Equal(t, "Jane Roe", fields.ClientName)
	})

	t.Run("strips trailing account digits from name", func(t *testing.T) {
		fields := Fields("Account Holder: John Doe 12345678\n")
		assert.Equal(t, "John Doe", fields.ClientName)
	})

	t.Run("case insensitive labels", func(t *testing.T) {
		fields := Fields("ACCT # 99887766\nas of: 2024-02-01\n")
		assert.Equal(t, "99887766", fields.AccountNumber)
		assert.Equal(t, "2024-02-01", fields.StatementDate)
	})

	t.Run("missing fields yield sentinels", func(t *testing.T) {
		fields := Fields("no labeled data here")
		assert.Equal(t, UnknownClient, fields.ClientName)
		assert.Equal(t, NotFound, fields.AccountNumber)
		assert.Equal(t, UnknownDate, fields.StatementDate)
	})
}
