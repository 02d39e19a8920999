package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codebuddy/internal/extractor"
)

// Test Plan for Text Rendering:
// - Outline shows the module header with import count
// - Symbols appear indented with kind, signature and line spans
// - Modifier flags render in brackets
// - Fields and diagnostics are listed
// - Number formatting groups thousands

func TestRenderText_Outline(t *testing.T) {
	t.Parallel()

	source := `"""Demo."""

import os


@dataclass
class Point:
    x: int
    y: int = 0


class Duck(Animal, Flyable):
    @staticmethod
    def quack() -> str:
        return "quack"
`
	unit := extractor.Extract("demo.py", []byte(source))
	require.Empty(t, unit.Diagnostics)

	out := renderText(unit)

	assert.Contains(t, out, "demo.py (module demo, 1 imports)")
	assert.Contains(t, out, "class Point [dataclass]")
	assert.Contains(t, out, "field x: int")
	assert.Contains(t, out, "field y: int = 0")
	assert.Contains(t, out, "class Duck(Animal, Flyable)")
	assert.Contains(t, out, "method Duck.quack() -> str [static]")
}

func TestRenderText_Diagnostics(t *testing.T) {
	t.Parallel()

	unit := extractor.Extract("bad.py", []byte("@decorator\nx = 1\n"))
	require.Len(t, unit.Diagnostics, 1)

	out := renderText(unit)
	assert.Contains(t, out, "! warning: dangling decorator")
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
