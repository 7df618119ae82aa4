// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"reflect"
	"testing"
)

const queryFixture = `
[web]
web1
web2

[db]
db1

[prod:children]
web
db
`

func queryResolved(t *testing.T) *Resolved {
	t.Helper()
	return resolveTree(t, map[string]string{"hosts.ini": queryFixture}, "hosts.ini")
}

func TestList(t *testing.T) {
	t.Parallel()

	listing := queryResolved(t).List()

	if want := []string{"web1", "web2", "db1"}; !reflect.DeepEqual(listing.Hosts, want) {
		t.Errorf("hosts = %v, want declaration order %v", listing.Hosts, want)
	}
	if want := []string{"web1", "web2"}; !reflect.DeepEqual(listing.Groups["web"], want) {
		t.Errorf("web members = %v, want %v", listing.Groups["web"], want)
	}
	if members := listing.Groups["prod"]; len(members) != 0 {
		t.Errorf("prod direct members = %v, want none (hosts are indirect)", members)
	}
	if _, ok := listing.Groups[GroupAll]; !ok {
		t.Error("listing must include the implicit all group")
	}
}

func TestFindHost(t *testing.T) {
	t.Parallel()

	res := queryResolved(t)

	info, err := res.FindHost("web1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{GroupAll, "prod", "web"}; !reflect.DeepEqual(info.Groups, want) {
		t.Errorf("groups = %v, want %v", info.Groups, want)
	}

	_, err = res.FindHost("missing")
	var notFound *HostNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *HostNotFoundError, got %v", err)
	}
	if notFound.Host != "missing" {
		t.Errorf("error host = %q", notFound.Host)
	}
}

func TestFindHostVarsAreACopy(t *testing.T) {
	t.Parallel()

	res := resolveTree(t, map[string]string{
		"hosts.ini":          "[web]\nweb1\n",
		"group_vars/web.yml": "nested:\n  key: original\n",
	}, "hosts.ini")

	first, err := res.FindHost("web1")
	if err != nil {
		t.Fatal(err)
	}
	first.Vars["nested"].(map[string]any)["key"] = "mutated"

	second, err := res.FindHost("web1")
	if err != nil {
		t.Fatal(err)
	}
	if got := second.Vars["nested"].(map[string]any)["key"]; got != "original" {
		t.Errorf("snapshot leaked caller mutation: %v", got)
	}
}

func TestGroupNotFound(t *testing.T) {
	t.Parallel()

	_, err := queryResolved(t).Group("missing")
	var notFound *GroupNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *GroupNotFoundError, got %v", err)
	}
}

func TestGraphRendering(t *testing.T) {
	t.Parallel()

	got := queryResolved(t).Graph()
	want := `@all:
  |--@ungrouped:
  |--@prod:
  |  |--@web:
  |  |  |--web1
  |  |  |--web2
  |  |--@db:
  |  |  |--db1
`
	if got != want {
		t.Errorf("graph rendering mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGraphExpandsSharedGroupOnce(t *testing.T) {
	t.Parallel()

	// shared is reachable through both a and b; it must be expanded under a
	// (first encounter) and only named under b.
	res := resolveTree(t, map[string]string{"hosts.ini": `
[shared]
host1

[a:children]
shared

[b:children]
shared
`}, "hosts.ini")

	got := res.Graph()
	want := `@all:
  |--@ungrouped:
  |--@a:
  |  |--@shared:
  |  |  |--host1
  |--@b:
  |  |--@shared:
`
	if got != want {
		t.Errorf("graph rendering mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	left := resolveTree(t, map[string]string{"hosts.ini": `
[web]
web1 port=80
old1
`}, "hosts.ini")
	right := resolveTree(t, map[string]string{"hosts.ini": `
[web]
web1 port=8080 extra=yes

[db]
new1
`}, "hosts.ini")

	report := Diff(left, right)

	if want := []string{"new1"}; !reflect.DeepEqual(report.AddedHosts, want) {
		t.Errorf("added hosts = %v, want %v", report.AddedHosts, want)
	}
	if want := []string{"old1"}; !reflect.DeepEqual(report.RemovedHosts, want) {
		t.Errorf("removed hosts = %v, want %v", report.RemovedHosts, want)
	}

	vc, ok := report.VariableChanges["web1"]
	if !ok {
		t.Fatal("expected variable changes for web1")
	}
	if want := []string{"extra"}; !reflect.DeepEqual(vc.Added, want) {
		t.Errorf("added vars = %v, want %v", vc.Added, want)
	}
	change, ok := vc.Changed["port"]
	if !ok {
		t.Fatal("expected a port change")
	}
	if change.Before != 80 || change.After != 8080 {
		t.Errorf("port change = %+v, want 80 -> 8080", change)
	}

	if len(report.GroupMembershipChanges) != 0 {
		t.Errorf("unexpected membership changes: %v", report.GroupMembershipChanges)
	}
}

func TestDiffSymmetry(t *testing.T) {
	t.Parallel()

	left := resolveTree(t, map[string]string{"hosts.ini": `
[web]
web1 port=80
old1
`}, "hosts.ini")
	right := resolveTree(t, map[string]string{"hosts.ini": `
[prod:children]
web

[web]
web1 port=8080
new1
`}, "hosts.ini")

	forward := Diff(left, right)
	backward := Diff(right, left)

	if !reflect.DeepEqual(forward.AddedHosts, backward.RemovedHosts) ||
		!reflect.DeepEqual(forward.RemovedHosts, backward.AddedHosts) {
		t.Errorf("host sets must swap: forward %+v backward %+v", forward, backward)
	}

	fm := forward.GroupMembershipChanges["web1"]
	bm := backward.GroupMembershipChanges["web1"]
	if !reflect.DeepEqual(fm.Added, bm.Removed) || !reflect.DeepEqual(fm.Removed, bm.Added) {
		t.Errorf("membership changes must swap: forward %+v backward %+v", fm, bm)
	}

	fc := forward.VariableChanges["web1"].Changed["port"]
	bc := backward.VariableChanges["web1"].Changed["port"]
	if fc.Before != bc.After || fc.After != bc.Before {
		t.Errorf("value changes must invert: forward %+v backward %+v", fc, bc)
	}
}

func TestDiffIdenticalInventories(t *testing.T) {
	t.Parallel()

	files := map[string]string{"hosts.ini": queryFixture}
	report := Diff(resolveTree(t, files, "hosts.ini"), resolveTree(t, files, "hosts.ini"))

	if len(report.AddedHosts) != 0 || len(report.RemovedHosts) != 0 ||
		len(report.GroupMembershipChanges) != 0 || len(report.VariableChanges) != 0 {
		t.Errorf("identical inventories must diff empty, got %+v", report)
	}
}
