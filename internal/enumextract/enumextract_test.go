package enumextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_ParsesBulletsAndSelection(t *testing.T) {
	lore := "● Option A \\n ○ Option B \\n ○ Option C"
	options, selected := Options(lore)
	assert.Equal(t, []string{"Option A", "Option B", "Option C"}, options)
	assert.Equal(t, 0, selected)
}

func TestOptions_SelectionNotFirst(t *testing.T) {
	lore := "○ Option A \\n ● Option B"
	options, selected := Options(lore)
	assert.Equal(t, []string{"Option A", "Option B"}, options)
	assert.Equal(t, 1, selected)
}

func TestOptions_FallbackGlyphs(t *testing.T) {
	lore := "?Option A \\n \tOption B"
	options, selected := Options(lore)
	assert.Equal(t, []string{"Option A", "Option B"}, options)
	assert.Equal(t, 0, selected)
}

func TestOptions_IgnoresNonBulletLines(t *testing.T) {
	lore := "Some header \\n ● Real Option"
	options, _ := Options(lore)
	assert.Equal(t, []string{"Real Option"}, options)
}
