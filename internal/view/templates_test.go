package view

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSColor(t *testing.T) {
	assert.Equal(t, template.CSS("#0f766e"), cssColor("#0f766e"))
	assert.Equal(t, template.CSS("#abc"), cssColor("#abc"))
	assert.Equal(t, template.CSS(fallbackColor), cssColor("red;background:url(x)"))
	assert.Equal(t, template.CSS(fallbackColor), cssColor(""))
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	_, err = engine.RenderString("reports/missing.html", nil)
	assert.Error(t, err)

	var nilEngine *Engine
	_, err = nilEngine.RenderString("invoice.html", nil)
	assert.Error(t, err)
}
