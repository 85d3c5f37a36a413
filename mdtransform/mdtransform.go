// Package mdtransform provides a goldmark extension that rewrites fenced
// code blocks tagged "plantuml" into rendered diagram references. Include
// directives inside the blocks are expanded first, then each block is
// rendered through a PlantUML-compatible server and replaced with an image
// node, inline SVG markup, or a fallback link pointing at the server.
package mdtransform

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/rgonek/goldmark-plantuml/plantuml"
)

// LanguageTag is the fence language that marks a block as diagram text.
// Matching is exact; "plantuml " variants with other casing are ignored.
const LanguageTag = "plantuml"

// Extension wires the diagram transformer and the SVG block renderer into
// a goldmark instance.
type Extension struct {
	transformer *Transformer
}

// New creates the extension with the given config merged onto defaults.
func New(config plantuml.Config) (*Extension, error) {
	t, err := NewTransformer(config)
	if err != nil {
		return nil, err
	}
	return &Extension{transformer: t}, nil
}

// Extend registers the AST transformer and the node renderer with m.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(e.transformer, 100)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(NewHTMLRenderer(), 500)),
	)
}

var _ goldmark.Extender = (*Extension)(nil)
