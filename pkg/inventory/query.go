// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"reflect"
	"sort"
	"strings"
)

type (
	// Listing is the list() query result: every host name plus each group's
	// direct member hosts, all in first-declaration order.
	Listing struct {
		Hosts  []string            `json:"hosts"`
		Groups map[string][]string `json:"groups"`
	}

	// HostInfo is the findHost query result. Groups is the ancestor-closed
	// membership list in variable precedence order ("all" first).
	HostInfo struct {
		Name   string         `json:"host"`
		Groups []string       `json:"groups"`
		Vars   map[string]any `json:"vars"`
	}

	// DiffReport compares two independently resolved inventories. It is
	// directional: left is "before", right is "after".
	DiffReport struct {
		AddedHosts             []string                    `json:"added_hosts"`
		RemovedHosts           []string                    `json:"removed_hosts"`
		GroupMembershipChanges map[string]MembershipChange `json:"group_membership_changes"`
		VariableChanges        map[string]VariableChange   `json:"variable_changes"`
	}

	// MembershipChange records group memberships gained and lost by one host.
	MembershipChange struct {
		Added   []string `json:"added"`
		Removed []string `json:"removed"`
	}

	// VariableChange records resolved-variable differences for one host.
	VariableChange struct {
		Added   []string               `json:"added"`
		Removed []string               `json:"removed"`
		Changed map[string]ValueChange `json:"changed"`
	}

	// ValueChange holds a colliding key's value on each side.
	ValueChange struct {
		Before any `json:"before"`
		After  any `json:"after"`
	}
)

// List returns all host names and the group membership mapping.
func (r *Resolved) List() *Listing {
	listing := &Listing{
		Hosts:  r.Hosts(),
		Groups: make(map[string][]string, len(r.groupOrder)),
	}
	for _, name := range r.groupOrder {
		members := r.groups[name].Hosts
		listing.Groups[name] = append([]string{}, members...)
	}
	return listing
}

// FindHost returns a host's ancestor-closed memberships and resolved
// variables, or HostNotFoundError.
func (r *Resolved) FindHost(name string) (*HostInfo, error) {
	host, ok := r.host(name)
	if !ok {
		return nil, &HostNotFoundError{Host: name}
	}
	return &HostInfo{
		Name:   host.Name,
		Groups: r.precedenceGroups(host),
		Vars:   copyValue(host.Vars).(map[string]any),
	}, nil
}

// Group returns a copy of the named group, or GroupNotFoundError.
func (r *Resolved) Group(name string) (*Group, error) {
	group, ok := r.group(name)
	if !ok {
		return nil, &GroupNotFoundError{Group: name}
	}
	out := &Group{
		Name:     group.Name,
		Hosts:    append([]string{}, group.Hosts...),
		Children: append([]string{}, group.Children...),
		Parents:  append([]string{}, group.Parents...),
	}
	if group.Vars != nil {
		out.Vars = copyValue(group.Vars).(map[string]any)
	}
	return out, nil
}

// Graph renders the membership tree, groups before member hosts, in
// first-declaration order. A group reachable through several parents is
// expanded exactly once, on first encounter.
func (r *Resolved) Graph() string {
	var sb strings.Builder
	expanded := make(map[string]bool)

	var render func(name string, depth int)
	render = func(name string, depth int) {
		sb.WriteString(treePrefix(depth))
		sb.WriteString("@" + name + ":\n")
		if expanded[name] {
			return
		}
		expanded[name] = true

		group := r.groups[name]
		for _, child := range group.Children {
			render(child, depth+1)
		}
		for _, host := range group.Hosts {
			sb.WriteString(treePrefix(depth + 1))
			sb.WriteString(host + "\n")
		}
	}
	render(GroupAll, 0)
	return sb.String()
}

func treePrefix(depth int) string {
	if depth == 0 {
		return ""
	}
	return "  " + strings.Repeat("|  ", depth-1) + "|--"
}

// Diff compares two resolutions. Structurally symmetric: diffing the
// arguments in the opposite order swaps added/removed and inverts every
// before/after pair.
func Diff(left, right *Resolved) *DiffReport {
	report := &DiffReport{
		AddedHosts:             []string{},
		RemovedHosts:           []string{},
		GroupMembershipChanges: make(map[string]MembershipChange),
		VariableChanges:        make(map[string]VariableChange),
	}

	var common []string
	for _, name := range left.hostOrder {
		if _, ok := right.hosts[name]; ok {
			common = append(common, name)
		} else {
			report.RemovedHosts = append(report.RemovedHosts, name)
		}
	}
	for _, name := range right.hostOrder {
		if _, ok := left.hosts[name]; !ok {
			report.AddedHosts = append(report.AddedHosts, name)
		}
	}
	sort.Strings(report.AddedHosts)
	sort.Strings(report.RemovedHosts)
	sort.Strings(common)

	for _, name := range common {
		lh, rh := left.hosts[name], right.hosts[name]

		lg := left.precedenceGroups(lh)
		rg := right.precedenceGroups(rh)
		if mc, changed := diffNames(lg, rg); changed {
			report.GroupMembershipChanges[name] = mc
		}
		if vc, changed := diffVars(lh.Vars, rh.Vars); changed {
			report.VariableChanges[name] = vc
		}
	}
	return report
}

func diffNames(left, right []string) (MembershipChange, bool) {
	ls := make(map[string]bool, len(left))
	for _, n := range left {
		ls[n] = true
	}
	rs := make(map[string]bool, len(right))
	for _, n := range right {
		rs[n] = true
	}

	mc := MembershipChange{Added: []string{}, Removed: []string{}}
	for n := range rs {
		if !ls[n] {
			mc.Added = append(mc.Added, n)
		}
	}
	for n := range ls {
		if !rs[n] {
			mc.Removed = append(mc.Removed, n)
		}
	}
	sort.Strings(mc.Added)
	sort.Strings(mc.Removed)
	return mc, len(mc.Added)+len(mc.Removed) > 0
}

func diffVars(left, right map[string]any) (VariableChange, bool) {
	vc := VariableChange{Added: []string{}, Removed: []string{}, Changed: make(map[string]ValueChange)}
	for key, lv := range left {
		rv, ok := right[key]
		switch {
		case !ok:
			vc.Removed = append(vc.Removed, key)
		case !reflect.DeepEqual(lv, rv):
			vc.Changed[key] = ValueChange{Before: lv, After: rv}
		}
	}
	for key := range right {
		if _, ok := left[key]; !ok {
			vc.Added = append(vc.Added, key)
		}
	}
	sort.Strings(vc.Added)
	sort.Strings(vc.Removed)
	return vc, len(vc.Added)+len(vc.Removed)+len(vc.Changed) > 0
}
