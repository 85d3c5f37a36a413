package plantuml

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// Both directive forms in one pattern, scanned in a single pass per
	// recursion level: the line-oriented "!include <target>" (group 1)
	// and the structured "::include{file=<target>}" (group 2), which may
	// appear anywhere, several per line. A single scan matters: content
	// substituted for one directive must never be rescanned at the same
	// level, so a directive left verbatim inside a fragment stays
	// verbatim instead of being re-resolved against the wrong base path.
	includePattern = regexp.MustCompile(`(?m)^[ \t]*!include[ \t]+(\S+)[ \t]*$|::include\{file=([^}]+)\}`)

	// Framing lines stripped from nested fragments so that concatenating
	// fragments never produces nested @startuml/@enduml markers.
	framingPattern = regexp.MustCompile(`(?m)^[ \t]*@(?:start|end)uml\b[^\n]*$`)
)

// fragmentExtensions marks the file types eligible for include expansion.
// Directives naming any other target pass through verbatim.
var fragmentExtensions = map[string]bool{
	".puml":     true,
	".plantuml": true,
	".iuml":     true,
	".pu":       true,
}

// IncludeResolver expands include directives in diagram text into the
// literal content of the referenced fragment files.
type IncludeResolver struct {
	maxDepth int
	logger   *log.Logger
}

// NewIncludeResolver builds a resolver from an already-defaulted Config.
func NewIncludeResolver(cfg Config) *IncludeResolver {
	return &IncludeResolver{
		maxDepth: cfg.MaxIncludeDepth,
		logger:   cfg.Logger,
	}
}

// Resolve expands every include directive in text, recursively. Relative
// targets are resolved against basePath; nested includes resolve against
// the directory of the fragment that contains them, so fragments can move
// together with their own includes. A directive whose target cannot be
// read, or whose expansion would exceed the depth bound, is left in place
// verbatim; one broken include never aborts the rest of the resolution.
func (r *IncludeResolver) Resolve(text, basePath string) string {
	return r.resolveDepth(text, basePath, 0)
}

func (r *IncludeResolver) resolveDepth(text, basePath string, depth int) string {
	return includePattern.ReplaceAllStringFunc(text, func(directive string) string {
		groups := includePattern.FindStringSubmatch(directive)
		target := groups[1]
		if target == "" {
			target = strings.TrimSpace(groups[2])
		}
		return r.expand(directive, target, basePath, depth)
	})
}

// expand returns the flattened content for target, or the original
// directive text when the target is not a fragment file or cannot be read.
func (r *IncludeResolver) expand(directive, target, basePath string, depth int) string {
	if !fragmentExtensions[strings.ToLower(filepath.Ext(target))] {
		return directive
	}
	content, dir, err := r.readFragment(target, basePath, depth)
	if err != nil {
		r.logger.Debug("include left unexpanded", "target", target, "err", err)
		return directive
	}
	nested := r.resolveDepth(content, dir, depth+1)
	nested = framingPattern.ReplaceAllString(nested, "")
	return strings.TrimSpace(nested)
}

func (r *IncludeResolver) readFragment(target, basePath string, depth int) (content, dir string, err error) {
	if depth >= r.maxDepth {
		return "", "", fmt.Errorf("%w: %q at depth %d", ErrDepthExceeded, target, depth)
	}
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(basePath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrIncludeRead, err)
	}
	return string(data), filepath.Dir(path), nil
}
