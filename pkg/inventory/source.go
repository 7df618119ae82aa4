// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies an inventory source syntax.
type Format int

const (
	// FormatAuto detects the syntax from the file extension, falling back to
	// content sniffing when the extension is absent or ambiguous.
	FormatAuto Format = iota
	// FormatINI is the line-oriented [group] syntax.
	FormatINI
	// FormatYAML is the structured all/children/hosts/vars syntax.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatINI:
		return "ini"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// Source names one inventory source: a single file or a directory of
// declaration files, with an optional format hint.
type Source struct {
	Path   string
	Format Format
}

// SourcesFromPaths wraps plain paths as auto-detected sources.
func SourcesFromPaths(paths []string) []Source {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = Source{Path: p, Format: FormatAuto}
	}
	return sources
}

type (
	// Declarations is the raw output of parsing one source, before any graph
	// building: ordered group and host declarations plus per-line warnings.
	Declarations struct {
		// Source is the path of the source as given.
		Source string
		// Dir is the directory overlay files are discovered relative to.
		Dir string
		// Groups holds group declarations in first-declaration order.
		Groups []*GroupDecl
		// Hosts holds hosts declared outside any group (INI preamble lines).
		Hosts []*HostDecl
		// Warnings collects malformed-line diagnostics that did not abort
		// parsing.
		Warnings []string
	}

	// GroupDecl is one group's raw declaration within a source.
	GroupDecl struct {
		Name     string
		Hosts    []*HostDecl
		Children []string
		Vars     map[string]any
	}

	// HostDecl is one host's raw declaration with its inline variables.
	HostDecl struct {
		Name string
		Vars map[string]any
	}
)

// group returns the declaration for name, creating it on first reference.
func (d *Declarations) groupDecl(name string) *GroupDecl {
	for _, g := range d.Groups {
		if g.Name == name {
			return g
		}
	}
	g := &GroupDecl{Name: name}
	d.Groups = append(d.Groups, g)
	return g
}

func (d *Declarations) warnf(path string, line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.Warnings = append(d.Warnings, fmt.Sprintf("%s:%d: %s", path, line, msg))
}

// reserved overlay directories are never declaration files.
var reservedDirs = map[string]bool{
	"group_vars": true,
	"host_vars":  true,
}

// skippedExtensions are file suffixes that are never inventory declarations
// when enumerating a directory source.
var skippedExtensions = map[string]bool{
	".md": true, ".txt": true, ".orig": true, ".bak": true,
	".cfg": true, ".retry": true, ".pyc": true,
}

// ParseSource parses one inventory source. Directory sources enumerate
// regular files recursively in sorted order, excluding the reserved overlay
// directories and hidden files. A wholly unparsable file yields *ParseError.
func ParseSource(src Source) (*Declarations, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, &ParseError{Path: src.Path, Err: err}
	}

	if !info.IsDir() {
		decls := &Declarations{Source: src.Path, Dir: filepath.Dir(src.Path)}
		if err := parseFile(src.Path, src.Format, decls); err != nil {
			return nil, err
		}
		return decls, nil
	}

	decls := &Declarations{Source: src.Path, Dir: src.Path}
	walkErr := filepath.WalkDir(src.Path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if reservedDirs[name] || (strings.HasPrefix(name, ".") && path != src.Path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			return nil
		}
		if skippedExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		return parseFile(path, src.Format, decls)
	})
	if walkErr != nil {
		var pe *ParseError
		if errors.As(walkErr, &pe) {
			return nil, walkErr
		}
		return nil, &ParseError{Path: src.Path, Err: walkErr}
	}
	return decls, nil
}

// parseFile dispatches one file to the INI or YAML parser per the format
// hint, the extension, or content sniffing.
func parseFile(path string, hint Format, decls *Declarations) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}

	format := hint
	if format == FormatAuto {
		format = detectFormat(path, data)
	}

	if format == FormatYAML {
		return parseYAMLFile(path, data, decls)
	}
	return parseINIFile(path, data, decls)
}

// detectFormat picks a syntax by extension, or by sniffing: a document that
// decodes to a top-level YAML mapping is structured markup, anything else is
// treated as line-oriented.
func detectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
		return FormatYAML
	case ".ini":
		return FormatINI
	}
	var probe map[string]any
	if err := yaml.Unmarshal(bytes.TrimSpace(data), &probe); err == nil && len(probe) > 0 {
		return FormatYAML
	}
	return FormatINI
}
