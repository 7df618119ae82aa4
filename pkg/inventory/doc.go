// SPDX-License-Identifier: MPL-2.0

// Package inventory resolves Ansible inventories without invoking Ansible.
//
// A resolution pass discovers and parses one or more inventory sources (INI
// or YAML, single files or directories), builds the host/group membership
// graph with the implicit "all" and "ungrouped" groups, merges group_vars and
// host_vars overlays with inline variables under the documented precedence
// order, and produces an immutable Resolved snapshot that answers read-only
// queries: listing, tree rendering, single-host lookup, and diffing two
// snapshots.
//
// The variable precedence reproduced here, lowest to highest:
//
//  1. inline vars on "all"
//  2. inline vars on ancestor groups, breadth-first from "all" toward the
//     host (siblings in lexical order)
//  3. inline vars on the host itself
//  4. group_vars/all overlay files
//  5. group_vars/<group> overlay files, same breadth-first order
//  6. host_vars/<host> overlay files
//
// On key collision nested mappings merge recursively; scalars and lists are
// replaced wholesale.
package inventory
