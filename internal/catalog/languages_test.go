package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguages(t *testing.T) {
	list := Languages()
	require.Len(t, list, len(languageCodes))

	byCode := map[string]string{}
	for _, l := range list {
		assert.NotEmpty(t, l.Name, l.Code)
		byCode[l.Code] = l.Name
	}
	assert.Equal(t, "Español", byCode["es"])
	assert.Equal(t, "Inglés", byCode["en"])
	assert.Equal(t, "Afrikáans", byCode["af"])

	list[0].Name = "changed"
	assert.NotEqual(t, "changed", Languages()[0].Name, "callers get a copy")
}
