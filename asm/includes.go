package asm

import (
	"os"
	"path/filepath"
	"strings"
)

// IncludeResolver splices `include "relative/path.asm"` directives into
// the including file's text before lexing, so included labels and
// instructions share the parent's starting address instead of being
// assembled as a separate unit. Includes are resolved relative to the
// directory of the file that names them, recursively, with cycle
// detection.
type IncludeResolver struct {
	stack []string // absolute paths of files currently being expanded
}

// NewIncludeResolver creates a resolver with an empty include stack.
func NewIncludeResolver() *IncludeResolver {
	return &IncludeResolver{}
}

// ResolveFile reads path and recursively expands any include directives
// found within it, returning the fully spliced source text.
func (r *IncludeResolver) ResolveFile(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", NewIOError(Position{Filename: path}, "resolving path: %v", err)
	}

	for _, included := range r.stack {
		if included == absPath {
			return "", NewIOError(Position{Filename: path}, "include cycle detected: %s", absPath)
		}
	}

	content, err := os.ReadFile(absPath) // #nosec G304 -- caller-provided assembly source path
	if err != nil {
		return "", NewIOError(Position{Filename: path}, "reading file: %v", err)
	}

	r.stack = append(r.stack, absPath)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	return r.expandContent(string(content), filepath.Dir(absPath), filepath.Base(path))
}

// expandContent walks content line by line, replacing each `include
// "file"` line with the recursively-expanded contents of that file,
// resolved relative to baseDir.
func (r *IncludeResolver) expandContent(content, baseDir, filename string) (string, error) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for lineNum, line := range lines {
		incPath, isInclude := parseIncludeLine(line)
		if !isInclude {
			result = append(result, line)
			continue
		}
		if incPath == "" {
			return "", NewIOError(Position{Filename: filename, Line: lineNum + 1}, "invalid include directive: %s", strings.TrimSpace(line))
		}

		expanded, err := r.ResolveFile(filepath.Join(baseDir, incPath))
		if err != nil {
			return "", err
		}
		result = append(result, expanded)
	}

	return strings.Join(result, "\n"), nil
}

// parseIncludeLine recognizes a line of the form `include "path"`,
// optionally preceded by whitespace, with a trailing comment allowed.
// isInclude reports whether the line is an include directive at all;
// path is empty when present but malformed.
func parseIncludeLine(line string) (path string, isInclude bool) {
	trimmed := strings.TrimSpace(line)
	if semi := strings.IndexByte(trimmed, ';'); semi >= 0 {
		trimmed = strings.TrimSpace(trimmed[:semi])
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "include") {
		return "", false
	}

	rest := strings.TrimSpace(trimmed[len(fields[0]):])
	if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
		return rest[1 : len(rest)-1], true
	}
	return "", true
}
