// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// sectionRe matches [group], [group:children], and [group:vars] headers.
var sectionRe = regexp.MustCompile(`^\[([^:\[\]\s]+)(?::([a-z]+))?\]$`)

type iniSectionKind int

const (
	sectionHosts iniSectionKind = iota
	sectionChildren
	sectionVars
)

// parseINIFile parses the line-oriented inventory syntax into decls. Hosts
// listed before any [section] header belong to no group and later fall into
// "ungrouped". Malformed lines inside an otherwise-parsable file become
// warnings; structural damage (broken section headers, binary content) is a
// fatal *ParseError.
func parseINIFile(path string, data []byte, decls *Declarations) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return &ParseError{Path: path, Err: errors.New("binary content is not a line-oriented inventory")}
	}

	var (
		current *GroupDecl
		kind    iniSectionKind
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, ";") {
			continue
		}

		if strings.HasPrefix(text, "[") {
			m := sectionRe.FindStringSubmatch(text)
			if m == nil {
				return &ParseError{Path: path, Line: line, Err: fmt.Errorf("malformed section header %q", text)}
			}
			switch m[2] {
			case "":
				kind = sectionHosts
			case "children":
				kind = sectionChildren
			case "vars":
				kind = sectionVars
			default:
				return &ParseError{Path: path, Line: line, Err: fmt.Errorf("unknown section suffix %q (want children or vars)", m[2])}
			}
			current = decls.groupDecl(m[1])
			continue
		}

		switch {
		case current == nil:
			// Preamble host line: member of no group.
			host, ok := parseHostLine(path, line, text, decls)
			if ok {
				decls.Hosts = append(decls.Hosts, host)
			}
		case kind == sectionHosts:
			host, ok := parseHostLine(path, line, text, decls)
			if ok {
				current.Hosts = append(current.Hosts, host)
			}
		case kind == sectionChildren:
			fields := strings.Fields(text)
			if len(fields) != 1 {
				decls.warnf(path, line, "expected a single child group name, got %q", text)
				continue
			}
			current.Children = append(current.Children, fields[0])
		case kind == sectionVars:
			key, value, found := strings.Cut(text, "=")
			if !found || strings.TrimSpace(key) == "" {
				decls.warnf(path, line, "expected key=value, got %q", text)
				continue
			}
			if current.Vars == nil {
				current.Vars = make(map[string]any)
			}
			current.Vars[strings.TrimSpace(key)] = coerceScalar(strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return &ParseError{Path: path, Line: line, Err: err}
	}
	return nil
}

// parseHostLine parses "name k=v k=v ..." into a HostDecl. Tokens that are
// not key=value pairs after the host name are warned about and skipped.
func parseHostLine(path string, line int, text string, decls *Declarations) (*HostDecl, bool) {
	tokens := splitHostTokens(text)
	if len(tokens) == 0 {
		return nil, false
	}
	if strings.Contains(tokens[0], "=") {
		decls.warnf(path, line, "host line must start with a host name, got %q", tokens[0])
		return nil, false
	}

	host := &HostDecl{Name: tokens[0]}
	for _, token := range tokens[1:] {
		key, value, found := strings.Cut(token, "=")
		if !found || key == "" {
			decls.warnf(path, line, "ignoring malformed inline variable %q for host %s", token, host.Name)
			continue
		}
		if host.Vars == nil {
			host.Vars = make(map[string]any)
		}
		host.Vars[key] = coerceScalar(value)
	}
	return host, true
}
