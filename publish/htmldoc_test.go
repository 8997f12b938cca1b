package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDocumentContainsParts(t *testing.T) {
	doc := RenderDocument("Hello World", "<p>hi</p>")

	assert.Contains(t, doc, "<title>Hello World</title>")
	assert.Contains(t, doc, "<h1>Hello World</h1>")
	assert.Contains(t, doc, "<p>hi</p>")
	assert.Contains(t, doc, `<meta name="viewport"`)
	assert.Contains(t, doc, "<!DOCTYPE html>")
}

func TestRenderDocumentDeterministic(t *testing.T) {
	a := RenderDocument("A Title", "<p>body</p>")
	b := RenderDocument("A Title", "<p>body</p>")
	assert.Equal(t, a, b)
}

func TestRenderDocumentTitleVerbatim(t *testing.T) {
	// Escaping is the caller's responsibility; the serializer interpolates
	// the title as-is.
	doc := RenderDocument("a <b> title", "<p>x</p>")
	assert.Contains(t, doc, "<title>a <b> title</title>")
	assert.Contains(t, doc, "<h1>a <b> title</h1>")
}
