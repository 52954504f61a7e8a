package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOutline_Go(t *testing.T) {
	source := []byte(`package demo

const answer = 42

type Widget struct{}

func (w *Widget) Spin() {}

func NewWidget() *Widget { return &Widget{} }
`)

	outline, err := ExtractOutline("demo.go", source)
	require.NoError(t, err)

	assert.Contains(t, outline, "const: answer")
	assert.Contains(t, outline, "type: Widget")
	assert.Contains(t, outline, "method: Spin")
	assert.Contains(t, outline, "function: NewWidget")
}

func TestExtractOutline_Python(t *testing.T) {
	source := []byte(`class Processor:
    def run(self):
        pass

def helper():
    return 1
`)

	outline, err := ExtractOutline("processor.py", source)
	require.NoError(t, err)

	assert.Contains(t, outline, "class: Processor")
	assert.Contains(t, outline, "function: run")
	assert.Contains(t, outline, "function: helper")
}

func TestExtractOutline_UnsupportedLanguage(t *testing.T) {
	outline, err := ExtractOutline("styles.css", []byte("body { color: red; }"))
	require.NoError(t, err)
	assert.Empty(t, outline)
}
