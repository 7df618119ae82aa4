// SPDX-License-Identifier: MPL-2.0

package inventory

const (
	// GroupAll is the implicit root group; every group is reachable from it.
	GroupAll = "all"
	// GroupUngrouped is the implicit group holding hosts that no explicit
	// group claims. It is always a direct child of "all".
	GroupUngrouped = "ungrouped"
)

type (
	// Host is a resolved inventory host. Groups holds direct memberships in
	// first-declaration order; Vars is the fully merged variable mapping.
	Host struct {
		Name   string         `json:"name"`
		Groups []string       `json:"groups"`
		Vars   map[string]any `json:"vars"`

		// inline holds variables declared on the host directly in a source
		// file, kept separate until overlay merging assigns Vars.
		inline map[string]any
	}

	// Group is a resolved inventory group. Hosts, Children, and Parents are
	// name lists in first-declaration order; Vars is the group's inline
	// variable overlay.
	Group struct {
		Name     string         `json:"name"`
		Hosts    []string       `json:"hosts"`
		Children []string       `json:"children,omitempty"`
		Parents  []string       `json:"parents,omitempty"`
		Vars     map[string]any `json:"vars,omitempty"`
	}

	// Resolved is the immutable snapshot produced by one resolution pass.
	// All queries read from it; a new pass yields a new snapshot.
	Resolved struct {
		hosts      map[string]*Host
		hostOrder  []string
		groups     map[string]*Group
		groupOrder []string
	}
)

// Hosts returns all host names in first-declaration order.
func (r *Resolved) Hosts() []string {
	out := make([]string, len(r.hostOrder))
	copy(out, r.hostOrder)
	return out
}

// Groups returns all group names in first-declaration order, the implicit
// "all" and "ungrouped" first.
func (r *Resolved) Groups() []string {
	out := make([]string, len(r.groupOrder))
	copy(out, r.groupOrder)
	return out
}

// HostCount returns the number of hosts in the snapshot.
func (r *Resolved) HostCount() int { return len(r.hostOrder) }

func (r *Resolved) host(name string) (*Host, bool) {
	h, ok := r.hosts[name]
	return h, ok
}

func (r *Resolved) group(name string) (*Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}
