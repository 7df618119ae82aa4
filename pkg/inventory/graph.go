// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"
	"slices"

	"ansictl/internal/dag"
)

// builder accumulates declarations from all sources into one membership
// graph. Each resolution pass owns a fresh builder: the implicit groups are
// instances, never package state.
type builder struct {
	res *Resolved
}

func newBuilder() *builder {
	b := &builder{res: &Resolved{
		hosts:  make(map[string]*Host),
		groups: make(map[string]*Group),
	}}
	b.ensureGroup(GroupAll)
	b.ensureGroup(GroupUngrouped)
	b.addChild(GroupAll, GroupUngrouped)
	return b
}

func (b *builder) ensureGroup(name string) *Group {
	if g, ok := b.res.groups[name]; ok {
		return g
	}
	g := &Group{Name: name}
	b.res.groups[name] = g
	b.res.groupOrder = append(b.res.groupOrder, name)
	return g
}

func (b *builder) ensureHost(name string) *Host {
	if h, ok := b.res.hosts[name]; ok {
		return h
	}
	h := &Host{Name: name}
	b.res.hosts[name] = h
	b.res.hostOrder = append(b.res.hostOrder, name)
	return h
}

func (b *builder) addMember(group *Group, host *Host) {
	if !slices.Contains(group.Hosts, host.Name) {
		group.Hosts = append(group.Hosts, host.Name)
	}
	if !slices.Contains(host.Groups, group.Name) {
		host.Groups = append(host.Groups, group.Name)
	}
}

func (b *builder) addChild(parentName, childName string) error {
	if childName == GroupAll {
		return fmt.Errorf("group %q cannot be a child of %q", GroupAll, parentName)
	}
	parent := b.ensureGroup(parentName)
	child := b.ensureGroup(childName)
	if !slices.Contains(parent.Children, childName) {
		parent.Children = append(parent.Children, childName)
	}
	if !slices.Contains(child.Parents, parentName) {
		child.Parents = append(child.Parents, parentName)
	}
	return nil
}

// buildGraph combines the per-source declarations, in source-list order,
// into a Resolved skeleton: groups, hosts, memberships, and inline vars
// (later sources override colliding keys). Variable overlays are applied by
// the merger afterwards. A membership cycle is fatal.
func buildGraph(sources []*Declarations) (*Resolved, error) {
	b := newBuilder()

	for _, decls := range sources {
		for _, gd := range decls.Groups {
			group := b.ensureGroup(gd.Name)
			if len(gd.Vars) > 0 {
				group.Vars = mergeMaps(group.Vars, gd.Vars)
			}
			for _, hd := range gd.Hosts {
				host := b.ensureHost(hd.Name)
				b.addMember(group, host)
				if len(hd.Vars) > 0 {
					host.inline = mergeMaps(host.inline, hd.Vars)
				}
			}
			for _, child := range gd.Children {
				if err := b.addChild(gd.Name, child); err != nil {
					return nil, err
				}
			}
		}
		for _, hd := range decls.Hosts {
			host := b.ensureHost(hd.Name)
			if len(hd.Vars) > 0 {
				host.inline = mergeMaps(host.inline, hd.Vars)
			}
		}
	}

	b.finalize()

	if err := b.checkAcyclic(); err != nil {
		return nil, err
	}
	return b.res, nil
}

// finalize wires the implicit memberships: explicit groups with no parent
// become children of "all", and hosts no group claims join "ungrouped".
func (b *builder) finalize() {
	for _, name := range b.res.groupOrder {
		if name == GroupAll || name == GroupUngrouped {
			continue
		}
		if len(b.res.groups[name].Parents) == 0 {
			b.addChild(GroupAll, name) //nolint:errcheck // child is never "all" here
		}
	}
	ungrouped := b.res.groups[GroupUngrouped]
	for _, name := range b.res.hostOrder {
		host := b.res.hosts[name]
		if len(host.Groups) == 0 {
			b.addMember(ungrouped, host)
		}
	}
}

// checkAcyclic verifies the group membership edges form a DAG.
func (b *builder) checkAcyclic() error {
	g := dag.New()
	for _, name := range b.res.groupOrder {
		g.AddNode(name)
		for _, child := range b.res.groups[name].Children {
			g.AddEdge(name, child)
		}
	}
	_, err := g.TopologicalSort()
	return err
}

// ancestorClosure returns every group the host belongs to, directly or
// transitively, as a set.
func (r *Resolved) ancestorClosure(host *Host) map[string]bool {
	closure := make(map[string]bool)
	stack := append([]string{}, host.Groups...)
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure[name] {
			continue
		}
		closure[name] = true
		if g, ok := r.groups[name]; ok {
			stack = append(stack, g.Parents...)
		}
	}
	return closure
}

// precedenceGroups returns the host's groups in variable precedence order:
// "all" first, then breadth-first toward the host's direct groups, siblings
// in lexical order. The same order drives inline vars and overlay files.
func (r *Resolved) precedenceGroups(host *Host) []string {
	closure := r.ancestorClosure(host)
	if !closure[GroupAll] {
		// Hosts are always reachable from all; guard for degenerate graphs.
		closure[GroupAll] = true
	}

	order := []string{GroupAll}
	visited := map[string]bool{GroupAll: true}
	queue := []string{GroupAll}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		var next []string
		for _, child := range r.groups[name].Children {
			if closure[child] && !visited[child] {
				visited[child] = true
				next = append(next, child)
			}
		}
		slices.Sort(next)
		order = append(order, next...)
		queue = append(queue, next...)
	}
	return order
}
