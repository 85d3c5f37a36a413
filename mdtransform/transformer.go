package mdtransform

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"

	"github.com/rgonek/goldmark-plantuml/plantuml"
)

// Transformer rewrites matched diagram blocks in place. It implements
// parser.ASTTransformer, so goldmark invokes it once per parsed document.
type Transformer struct {
	config   plantuml.Config
	resolver *plantuml.IncludeResolver
	client   *plantuml.Client
	store    *plantuml.Store
}

// NewTransformer creates a transformer with config merged onto defaults.
func NewTransformer(config plantuml.Config) (*Transformer, error) {
	cfg := config.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{
		config:   cfg,
		resolver: plantuml.NewIncludeResolver(cfg),
		client:   plantuml.NewClient(cfg),
		store:    plantuml.NewStore(cfg),
	}, nil
}

// match is a diagram block captured during the collection pass. The node
// pointer stays valid regardless of sibling mutation, so replacements never
// depend on child indices.
type match struct {
	node  *ast.FencedCodeBlock
	body  string
	title string
}

// Transform collects every matched block, runs one rendering pipeline per
// block concurrently, and applies all replacements in a single synchronous
// pass once every pipeline has settled. A failing pipeline degrades its own
// block to a fallback node and never blocks or fails the others.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var matches []match
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(cb.Language(source)) != LanguageTag {
			return ast.WalkContinue, nil
		}
		body := blockText(cb, source)
		if strings.TrimSpace(body) == "" {
			return ast.WalkContinue, nil
		}
		matches = append(matches, match{
			node:  cb,
			body:  body,
			title: fenceTitle(cb, source),
		})
		return ast.WalkContinue, nil
	})
	if len(matches) == 0 {
		return
	}

	replacements := make([]ast.Node, len(matches))
	g, ctx := errgroup.WithContext(context.Background())
	for i, m := range matches {
		g.Go(func() error {
			replacements[i] = t.renderBlock(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	for i, m := range matches {
		parent := m.node.Parent()
		if parent == nil || replacements[i] == nil {
			continue
		}
		parent.ReplaceChild(parent, m.node, replacements[i])
	}
}

// renderBlock runs one block through the pipeline and always returns a
// replacement node; every failure path ends in the fallback node.
func (t *Transformer) renderBlock(ctx context.Context, m match) ast.Node {
	resolved := t.resolver.Resolve(m.body, t.config.IncludePath)

	if t.config.InlineImage {
		return t.imageNode(t.client.URL(resolved, t.config.Format), m.title)
	}

	if t.config.Format == plantuml.FormatSVG && t.config.InlineSVG {
		markup, err := t.client.Render(ctx, resolved, t.config.Format)
		if err != nil {
			t.config.Logger.Warn("diagram render failed", "err", err)
			return t.fallbackNode(resolved, m.title)
		}
		return NewSVGBlock(markup, []byte(m.title))
	}

	name := plantuml.FilenameFor(resolved, t.config.Format)
	exists, err := t.store.Exists(name)
	if err != nil {
		t.config.Logger.Warn("artifact lookup failed", "name", name, "err", err)
		return t.fallbackNode(resolved, m.title)
	}
	if !exists {
		data, err := t.client.Render(ctx, resolved, t.config.Format)
		if err != nil {
			t.config.Logger.Warn("diagram render failed", "name", name, "err", err)
			return t.fallbackNode(resolved, m.title)
		}
		if _, err := t.store.Write(name, data); err != nil {
			t.config.Logger.Warn("artifact write failed", "name", name, "err", err)
			return t.fallbackNode(resolved, m.title)
		}
	}
	return t.imageNode(plantuml.PublicURL(t.config.URLPrefix, name), m.title)
}

// fallbackNode points the block directly at the rendering service, keeping
// the document usable when rendering or storage fails.
func (t *Transformer) fallbackNode(resolved, title string) ast.Node {
	return t.imageNode(t.client.URL(resolved, t.config.Format), title)
}

// imageNode builds a paragraph-wrapped image reference. The fence metadata
// becomes both the title and the alt text.
func (t *Transformer) imageNode(url, title string) ast.Node {
	link := ast.NewLink()
	link.Destination = []byte(url)
	if title != "" {
		link.Title = []byte(title)
	}
	img := ast.NewImage(link)
	alt := title
	if alt == "" {
		alt = LanguageTag
	}
	img.AppendChild(img, ast.NewString([]byte(alt)))

	p := ast.NewParagraph()
	p.AppendChild(p, img)
	return p
}

// blockText joins the fence body lines, without the trailing newline so
// the hash of a block matches the hash of the same text from a fragment.
func blockText(cb *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := cb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// fenceTitle extracts the free-form metadata after the language word on
// the fence info line.
func fenceTitle(cb *ast.FencedCodeBlock, source []byte) string {
	if cb.Info == nil {
		return ""
	}
	info := string(cb.Info.Segment.Value(source))
	return strings.TrimSpace(strings.TrimPrefix(info, string(cb.Language(source))))
}

var _ parser.ASTTransformer = (*Transformer)(nil)
