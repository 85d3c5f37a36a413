package mdtransform

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindSVGBlock identifies inline SVG blocks produced by the transformer.
var KindSVGBlock = ast.NewNodeKind("PlantUMLSVGBlock")

// SVGBlock holds SVG markup returned by the rendering service, embedded
// directly into the document instead of being written to storage.
type SVGBlock struct {
	ast.BaseBlock

	// Markup is the raw SVG returned by the service, written through
	// unescaped.
	Markup []byte

	// Title is the fence metadata, emitted as the container's title
	// attribute.
	Title []byte
}

// NewSVGBlock creates an inline SVG block node.
func NewSVGBlock(markup, title []byte) *SVGBlock {
	return &SVGBlock{
		Markup: markup,
		Title:  title,
	}
}

func (n *SVGBlock) Kind() ast.NodeKind {
	return KindSVGBlock
}

func (n *SVGBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Title":      string(n.Title),
		"MarkupSize": strconv.Itoa(len(n.Markup)),
	}, nil)
}
