package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, LoadDefaults(""))

	assert.Equal(t, "Aceita", T("status.accepted"))
	assert.Equal(t, "Ignorada", T("status.ignored"))
	assert.Equal(t, "Pendente", Translate("pt-BR", "status.pending"))
	assert.Equal(t, "jan", T("month.1"))

	assert.Equal(t, "NON_EXISTENT_KEY", T("NON_EXISTENT_KEY"))
}

func TestLoadTranslations_Override(t *testing.T) {
	fsys := fstest.MapFS{
		"pt-BR/labels.yaml": &fstest.MapFile{Data: []byte("LABELS:\n  status.accepted: Aceito\n")},
	}
	require.NoError(t, LoadTranslations(fsys))
	t.Cleanup(func() { _ = LoadDefaults("") })

	assert.Equal(t, "Aceito", T("status.accepted"))
	// keys missing from the override fall back to en
	assert.Equal(t, "Pending", T("status.pending"))
}
