// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine extracts the 1-based line number a yaml.v3 error refers to,
// or zero when the error carries none.
func yamlErrorLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseYAMLFile parses the structured inventory syntax: a top-level mapping
// of group names to {hosts, children, vars} bodies, nested recursively under
// children. The document is walked as nodes so first-declaration order
// survives (plain map decoding would scramble it).
func parseYAMLFile(path string, data []byte, decls *Declarations) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return &ParseError{Path: path, Line: yamlErrorLine(err), Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil // empty document
	}

	doc := resolveAlias(root.Content[0])
	if isNullNode(doc) {
		return nil
	}
	if doc.Kind != yaml.MappingNode {
		return &ParseError{Path: path, Line: doc.Line, Err: errors.New("top-level inventory document must be a mapping of groups")}
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		walkGroupNode(path, name, resolveAlias(doc.Content[i+1]), decls)
	}
	return nil
}

// walkGroupNode folds one group body (hosts/children/vars) into decls,
// recursing into inline child group definitions.
func walkGroupNode(path, name string, node *yaml.Node, decls *Declarations) {
	group := decls.groupDecl(name)
	if isNullNode(node) {
		return
	}
	if node.Kind != yaml.MappingNode {
		decls.warnf(path, node.Line, "group %q: expected a mapping body", name)
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveAlias(node.Content[i+1])

		switch key {
		case "hosts":
			walkHostsNode(path, group, value, decls)
		case "children":
			if isNullNode(value) {
				continue
			}
			if value.Kind != yaml.MappingNode {
				decls.warnf(path, value.Line, "group %q: children must be a mapping", name)
				continue
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				child := value.Content[j].Value
				group.Children = append(group.Children, child)
				walkGroupNode(path, child, resolveAlias(value.Content[j+1]), decls)
			}
		case "vars":
			vars, ok := decodeVarsNode(path, value, decls)
			if ok {
				group.Vars = mergeMaps(group.Vars, vars)
			}
		default:
			decls.warnf(path, node.Content[i].Line, "group %q: unrecognized key %q", name, key)
		}
	}
}

// walkHostsNode folds a hosts mapping (host name to optional inline vars)
// into the group declaration.
func walkHostsNode(path string, group *GroupDecl, node *yaml.Node, decls *Declarations) {
	if isNullNode(node) {
		return
	}
	if node.Kind != yaml.MappingNode {
		decls.warnf(path, node.Line, "group %q: hosts must be a mapping", group.Name)
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		host := &HostDecl{Name: node.Content[i].Value}
		body := resolveAlias(node.Content[i+1])
		if !isNullNode(body) {
			vars, ok := decodeVarsNode(path, body, decls)
			if !ok {
				continue
			}
			host.Vars = vars
		}
		group.Hosts = append(group.Hosts, host)
	}
}

// decodeVarsNode decodes a vars mapping into map[string]any. Values are kept
// opaque; only the top-level shape is validated.
func decodeVarsNode(path string, node *yaml.Node, decls *Declarations) (map[string]any, bool) {
	if node.Kind != yaml.MappingNode {
		decls.warnf(path, node.Line, "vars must be a mapping, got %s", nodeKindName(node.Kind))
		return nil, false
	}
	var vars map[string]any
	if err := node.Decode(&vars); err != nil {
		decls.warnf(path, node.Line, "undecodable vars mapping: %v", err)
		return nil, false
	}
	return vars, true
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

func isNullNode(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.DocumentNode:
		return "document"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", kind)
	}
}
