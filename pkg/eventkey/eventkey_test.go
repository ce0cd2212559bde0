package eventkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fjordledger/divrec/pkg/eventkey"
)

func TestKeyDeterminism(t *testing.T) {
	a := eventkey.Key("us1234567890", "2025-02-07", "2025-03-01", "USD")
	b := eventkey.Key("US1234567890", "2025-02-07", "2025-03-01", "usd")
	assert.Equal(t, a, b, "key must be case-insensitive on ISIN and currency")

	c := eventkey.Key("US1234567890", "2025-02-07", "2025-03-01", "USD")
	assert.Equal(t, a, c, "same logical event must always yield the same key")
}

func TestKeyDistinguishesComponents(t *testing.T) {
	base := eventkey.Key("US1234567890", "2025-02-07", "2025-03-01", "USD")

	assert.NotEqual(t, base, eventkey.Key("US0000000001", "2025-02-07", "2025-03-01", "USD"))
	assert.NotEqual(t, base, eventkey.Key("US1234567890", "2025-02-08", "2025-03-01", "USD"))
	assert.NotEqual(t, base, eventkey.Key("US1234567890", "2025-02-07", "2025-03-02", "USD"))
	assert.NotEqual(t, base, eventkey.Key("US1234567890", "2025-02-07", "2025-03-01", "EUR"))
}

func TestKeyWithMissingComponents(t *testing.T) {
	// Missing components participate as empty strings: the key is still
	// computed and comparable across partial records.
	partial := eventkey.Key("", "2025-02-07", "", "USD")
	assert.Len(t, partial, 40)
	assert.Equal(t, partial, eventkey.Key("", "2025-02-07", "", "usd"))
	assert.NotEqual(t, partial, eventkey.Key("", "", "", ""))
}
