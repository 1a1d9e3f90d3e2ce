package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTranslations_Embedded(t *testing.T) {
	require.NoError(t, LoadTranslations())

	assert.Equal(t, `You have been hired for "Logo design"`,
		Format("en", "BID_HIRED", map[string]string{"gig": "Logo design"}))
	assert.Equal(t, `Penawaran Anda untuk "Logo design" tidak dipilih`,
		Format("id", "BID_REJECTED", map[string]string{"gig": "Logo design"}))
}

func TestTranslate_FallsBackToDefaultLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"l/en/notifications.yaml": {Data: []byte("NOTIFICATIONS:\n  ONLY_EN: english\n  BOTH: en\n")},
		"l/fr/notifications.yaml": {Data: []byte("NOTIFICATIONS:\n  BOTH: fr\n")},
	}
	require.NoError(t, loadFrom(fsys, "l"))

	assert.Equal(t, "fr", Translate("fr", "BOTH"))
	assert.Equal(t, "english", Translate("fr", "ONLY_EN"))
	assert.Equal(t, "english", Translate("de", "ONLY_EN"))
	assert.Equal(t, "MISSING", Translate("fr", "MISSING"))
}

func TestLoadTranslations_InvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"bad/en/notifications.yaml": {Data: []byte("NOTIFICATIONS: [unclosed")},
	}
	assert.Error(t, loadFrom(fsys, "bad"))
}

func TestFormat_MultiplePlaceholders(t *testing.T) {
	fsys := fstest.MapFS{
		"m/en/notifications.yaml": {Data: []byte("NOTIFICATIONS:\n  X: '{a} and {b}'\n")},
	}
	require.NoError(t, loadFrom(fsys, "m"))

	assert.Equal(t, "1 and 2", Format("en", "X", map[string]string{"a": "1", "b": "2"}))
	assert.Equal(t, "{a} and {b}", Format("en", "X", nil))
}
