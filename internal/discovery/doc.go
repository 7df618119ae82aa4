// SPDX-License-Identifier: MPL-2.0

// Package discovery finds playbooks under a project root and validates YAML
// documents. Both are purely local file operations: a playbook is recognized
// by its shape (a YAML document whose top level is a sequence of plays), not
// by running anything.
package discovery
