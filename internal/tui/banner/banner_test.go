package banner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("draws block letters", func(t *testing.T) {
		art := Render("Info", 0)
		require.NotEmpty(t, art)

		assert.True(t, strings.ContainsAny(art, "█▀▄"))
		for _, line := range strings.Split(art, "\n") {
			assert.LessOrEqual(t, len([]rune(line)), Width("Info"))
		}
	})

	t.Run("no leading or trailing blank rows", func(t *testing.T) {
		lines := strings.Split(Render("Info", 0), "\n")
		require.NotEmpty(t, lines)
		assert.NotEmpty(t, strings.TrimSpace(lines[0]))
		assert.NotEmpty(t, strings.TrimSpace(lines[len(lines)-1]))
	})

	t.Run("too wide falls back to empty", func(t *testing.T) {
		assert.Empty(t, Render("Pokémon Info", 10))
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Render("", 80))
	})
}

func TestWidth(t *testing.T) {
	assert.Greater(t, Width("Pokémon Info"), Width("Info"))
	assert.Zero(t, Width(""))
}
