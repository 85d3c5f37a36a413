package plantuml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *IncludeResolver {
	t.Helper()
	return NewIncludeResolver(Config{}.ApplyDefaults())
}

func writeFragment(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestResolveNoDirectivesRoundTrip(t *testing.T) {
	r := newTestResolver(t)
	text := "class A {\n  +m(): void\n}"
	assert.Equal(t, text, r.Resolve(text, t.TempDir()))
}

func TestResolveLineDirective(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "part.puml", "@startuml\nclass Part\n@enduml\n")
	r := newTestResolver(t)

	out := r.Resolve("!include part.puml\nPart --> Whole", dir)

	assert.Equal(t, "class Part\nPart --> Whole", out)
}

func TestResolveStructuredDirective(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "part.puml", "class Part\n")
	r := newTestResolver(t)

	out := r.Resolve("before ::include{file=part.puml} after", dir)

	assert.Equal(t, "before class Part after", out)
}

func TestResolveMultipleStructuredDirectivesOnOneLine(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "a.puml", "class A")
	writeFragment(t, dir, "b.puml", "class B")
	r := newTestResolver(t)

	out := r.Resolve("::include{file=a.puml} ::include{file=b.puml}", dir)

	assert.Equal(t, "class A class B", out)
}

func TestResolveNestedIncludeRelativeToFragment(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "shared")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// outer lives in shared/ and includes its sibling by bare name, so the
	// nested target must resolve against shared/, not against dir.
	writeFragment(t, sub, "outer.puml", "!include inner.puml\nclass Outer")
	writeFragment(t, sub, "inner.puml", "@startuml\nclass Inner\n@enduml")
	r := newTestResolver(t)

	out := r.Resolve("!include shared/outer.puml", dir)

	assert.Equal(t, "class Inner\nclass Outer", out)
	assert.NotContains(t, out, "!include")
	assert.NotContains(t, out, "@startuml")
	assert.NotContains(t, out, "@enduml")
}

func TestResolveRelativeTraversal(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "frag")
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(frag, 0o755))
	require.NoError(t, os.MkdirAll(docs, 0o755))
	writeFragment(t, frag, "common.puml", "skinparam monochrome true")
	r := newTestResolver(t)

	out := r.Resolve("!include ../frag/common.puml", docs)

	assert.Equal(t, "skinparam monochrome true", out)
}

func TestResolveMissingTargetLeftVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "present.puml", "class Present")
	r := newTestResolver(t)

	out := r.Resolve("!include missing.puml\n!include present.puml", dir)

	// The broken directive stays untouched while its sibling resolves.
	assert.Contains(t, out, "!include missing.puml")
	assert.Contains(t, out, "class Present")
	assert.NotContains(t, out, "!include present.puml")
}

func TestResolveNonFragmentExtensionLeftVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "notes.txt", "not diagram text")
	r := newTestResolver(t)

	out := r.Resolve("!include notes.txt", dir)

	assert.Equal(t, "!include notes.txt", out)
}

func TestResolveDuplicateTargets(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "part.puml", "class Part")
	r := newTestResolver(t)

	out := r.Resolve("!include part.puml\n!include part.puml", dir)

	assert.Equal(t, "class Part\nclass Part", out)
}

func TestResolveCyclicFragmentsTerminate(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "a.puml", "!include b.puml\nclass A")
	writeFragment(t, dir, "b.puml", "!include a.puml\nclass B")
	r := newTestResolver(t)

	out := r.Resolve("!include a.puml", dir)

	// The cycle is cut at the depth bound: the innermost directive stays
	// verbatim instead of recursing forever.
	assert.Contains(t, out, "!include")
	assert.Contains(t, out, "class A")
	assert.Contains(t, out, "class B")
}

func TestResolveDepthBoundConfigurable(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "one.puml", "!include two.puml\nlevel one")
	writeFragment(t, dir, "two.puml", "level two")
	r := NewIncludeResolver(Config{MaxIncludeDepth: 1}.ApplyDefaults())

	out := r.Resolve("!include one.puml", dir)

	assert.Contains(t, out, "level one")
	assert.Contains(t, out, "!include two.puml")
	assert.NotContains(t, out, "level two")
}

func TestResolveFailedNestedDirectiveStaysVerbatim(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// outer references a sibling that does not exist; a same-named file at
	// the document base must not be spliced in its place.
	writeFragment(t, sub, "outer.puml", "::include{file=inner.puml}\nclass Outer")
	writeFragment(t, dir, "inner.puml", "class WrongInner")
	r := newTestResolver(t)

	out := r.Resolve("!include sub/outer.puml", dir)

	assert.Contains(t, out, "::include{file=inner.puml}")
	assert.Contains(t, out, "class Outer")
	assert.NotContains(t, out, "class WrongInner")
}

func TestResolveDepthBlockedDirectiveNotRetriedAtParentDepth(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "outer.puml", "::include{file=deeper.puml}\nclass Outer")
	writeFragment(t, dir, "deeper.puml", "class Deeper")
	r := NewIncludeResolver(Config{MaxIncludeDepth: 1}.ApplyDefaults())

	out := r.Resolve("!include outer.puml", dir)

	// The nested directive hit the depth bound inside the fragment; the
	// enclosing level must not get a second attempt at it.
	assert.Contains(t, out, "::include{file=deeper.puml}")
	assert.Contains(t, out, "class Outer")
	assert.NotContains(t, out, "class Deeper")
}

func TestResolveIndentedLineDirective(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "part.puml", "class Part")
	r := newTestResolver(t)

	out := r.Resolve("  !include part.puml", dir)

	assert.Equal(t, "class Part", out)
}
