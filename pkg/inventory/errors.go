// SPDX-License-Identifier: MPL-2.0

package inventory

import "fmt"

// ParseError is fatal for a resolution pass: a source file could not be
// parsed at all. Line is 1-based and zero when unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unparsable inventory file %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("unparsable inventory file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HostNotFoundError is a query-time failure: the requested host does not
// exist in the resolved inventory.
type HostNotFoundError struct {
	Host string
}

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("host %q not found in inventory", e.Host)
}

// GroupNotFoundError is a query-time failure: the requested group does not
// exist in the resolved inventory.
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("group %q not found in inventory", e.Group)
}
