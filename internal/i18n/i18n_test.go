// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The package-level T must echo the bare key before Initialize has run,
// even when callers pass format args for the looked-up message.
func TestPackageTEchoesKeyBeforeInitialize(t *testing.T) {
	require.Nil(t, instance)

	assert.Equal(t, KeyValidationInvalid, T("en", KeyValidationInvalid, "event_id"))
	assert.Equal(t, KeyAuthRequired, T("es", KeyAuthRequired))
}

func TestTranslationLookup(t *testing.T) {
	i := &I18n{
		translations: make(map[string]map[string]string),
		defaultLang:  "en",
	}
	require.NoError(t, i.LoadTranslations("./locales"))

	assert.Equal(t, "Invalid event_id", i.T("en", KeyValidationInvalid, "event_id"))
	assert.Equal(t, "Entrada no encontrada", i.T("es", KeyTicketNotFound))

	// Unknown language falls back to the default catalog.
	assert.Equal(t, "Invalid quantity", i.T("fr", KeyValidationInvalid, "quantity"))

	// Unknown keys come back verbatim.
	assert.Equal(t, "no.such.key", i.T("en", "no.such.key"))
}
