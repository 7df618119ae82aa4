// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// excludedDirs are never descended into while searching for playbooks:
// dependency trees, inventories, and variable overlay directories all hold
// YAML that is not a playbook.
var excludedDirs = map[string]bool{
	".git": true, ".venv": true, "venv": true, "__pycache__": true,
	"collections": true, "inventory": true, "roles": true,
	"node_modules": true, "group_vars": true, "host_vars": true,
}

// Playbooks walks root and returns every YAML file whose document is a
// top-level sequence, sorted by path. Unreadable or invalid files are simply
// not playbooks.
func Playbooks(root string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if excludedDirs[entry.Name()] || (strings.HasPrefix(entry.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil //nolint:nilerr // unreadable file: not a playbook
		}
		var doc any
		if yaml.Unmarshal(data, &doc) != nil {
			return nil
		}
		if _, ok := doc.([]any); ok {
			results = append(results, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(results)
	return results, nil
}

type (
	// ValidationResult reports YAML well-formedness for one file.
	ValidationResult struct {
		Path  string           `json:"path"`
		OK    bool             `json:"ok"`
		Error *ValidationError `json:"error,omitempty"`
	}

	// ValidationError carries the parse failure, with the 1-based line the
	// parser pointed at when it is known.
	ValidationError struct {
		Message string `json:"message"`
		Line    int    `json:"line,omitempty"`
	}
)

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// ValidateFiles checks each path for YAML well-formedness. Every path gets a
// result; only I/O and parse outcomes are reported, never semantics.
func ValidateFiles(paths []string) []ValidationResult {
	results := make([]ValidationResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, validateFile(path))
	}
	return results
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = &ValidationError{Message: err.Error()}
		return result
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		verr := &ValidationError{Message: err.Error()}
		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			verr.Line, _ = strconv.Atoi(m[1])
		}
		result.Error = verr
		return result
	}
	result.OK = true
	return result
}
