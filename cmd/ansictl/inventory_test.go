// SPDX-License-Identifier: MPL-2.0

package main

import (
	"reflect"
	"testing"
)

func TestSplitCommaPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "hosts.ini", want: []string{"hosts.ini"}},
		{in: "a, b ,c", want: []string{"a", "b", "c"}},
		{in: " , ,", want: nil},
		{in: "", want: nil},
	}

	for _, tt := range tests {
		if got := splitCommaPaths(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommaPaths(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
