package mdtransform

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer renders SVGBlock nodes as a div wrapping the raw SVG markup.
type HTMLRenderer struct{}

// NewHTMLRenderer creates a renderer for SVGBlock nodes.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// RegisterFuncs registers the SVGBlock rendering function.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSVGBlock, r.renderSVGBlock)
}

func (r *HTMLRenderer) renderSVGBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*SVGBlock)
	_, _ = w.WriteString(`<div class="plantuml"`)
	if len(n.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	_, _ = w.Write(n.Markup)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
