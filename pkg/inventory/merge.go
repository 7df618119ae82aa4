// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	overlayGroupVars = "group_vars"
	overlayHostVars  = "host_vars"
)

// merger applies the variable overlay precedence (doc.go) to every host in a
// Resolved skeleton. Overlay files are looked up relative to each source's
// containing directory, in source-list order, and cached for the pass.
type merger struct {
	res   *Resolved
	dirs  []string
	cache map[string]map[string]any
}

func newMerger(res *Resolved, sources []*Declarations) *merger {
	var dirs []string
	for _, decls := range sources {
		if decls.Dir != "" && !slices.Contains(dirs, decls.Dir) {
			dirs = append(dirs, decls.Dir)
		}
	}
	return &merger{res: res, dirs: dirs, cache: make(map[string]map[string]any)}
}

// apply computes each host's resolved variable mapping. Fatal overlay errors
// abort the pass; the caller discards the partial snapshot.
func (m *merger) apply(ctx context.Context) error {
	for _, name := range m.res.hostOrder {
		select {
		case <-ctx.Done():
			return fmt.Errorf("resolution aborted: %w", ctx.Err())
		default:
		}

		host := m.res.hosts[name]
		order := m.res.precedenceGroups(host)

		vars := make(map[string]any)
		for _, group := range order {
			vars = mergeMaps(vars, m.res.groups[group].Vars)
		}
		vars = mergeMaps(vars, host.inline)
		for _, group := range order {
			overlay, err := m.overlay(overlayGroupVars, group)
			if err != nil {
				return err
			}
			vars = mergeMaps(vars, overlay)
		}
		overlay, err := m.overlay(overlayHostVars, host.Name)
		if err != nil {
			return err
		}
		vars = mergeMaps(vars, overlay)

		host.Vars = vars
		host.inline = nil
	}
	return nil
}

// overlay loads and merges every overlay file bound to kind/name across the
// source directories, in source order. Missing overlays are an empty result,
// unreadable or non-mapping ones a fatal *ParseError.
func (m *merger) overlay(kind, name string) (map[string]any, error) {
	key := kind + "/" + name
	if cached, ok := m.cache[key]; ok {
		return cached, nil
	}

	var merged map[string]any
	for _, dir := range m.dirs {
		vars, err := loadOverlay(filepath.Join(dir, kind), name)
		if err != nil {
			return nil, err
		}
		if vars != nil {
			merged = mergeMaps(merged, vars)
		}
	}
	m.cache[key] = merged
	return merged, nil
}

// loadOverlay resolves one overlay binding under dir: a bare file, a .yml or
// .yaml file, or a directory whose files merge in sorted name order.
func loadOverlay(dir, name string) (map[string]any, error) {
	base := filepath.Join(dir, name)

	if info, err := os.Stat(base); err == nil && info.IsDir() {
		entries, err := os.ReadDir(base)
		if err != nil {
			return nil, &ParseError{Path: base, Err: err}
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.Type().IsRegular() && entry.Name()[0] != '.' {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		var merged map[string]any
		for _, fname := range names {
			vars, err := loadOverlayFile(filepath.Join(base, fname))
			if err != nil {
				return nil, err
			}
			merged = mergeMaps(merged, vars)
		}
		return merged, nil
	}

	for _, candidate := range []string{base, base + ".yml", base + ".yaml"} {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return loadOverlayFile(candidate)
	}
	return nil, nil
}

// loadOverlayFile parses one overlay document. Empty documents are fine;
// anything that is not a mapping is a fatal input error.
func loadOverlayFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Line: yamlErrorLine(err), Err: err}
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	vars, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: errors.New("overlay file must contain a mapping")}
	}
	return vars, nil
}
