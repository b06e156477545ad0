package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectBugLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"worktrack"},
			want: []string{"worktrack"},
		},
		{
			name: "direct bug id first token",
			in:   []string{"worktrack", "bug-abc123"},
			want: []string{"worktrack", "bugs", "show", "bug-abc123"},
		},
		{
			name: "direct bug id after value flag",
			in:   []string{"worktrack", "--profile", "work", "bug-abc123"},
			want: []string{"worktrack", "--profile", "work", "bugs", "show", "bug-abc123"},
		},
		{
			name: "direct bug id after equals flag",
			in:   []string{"worktrack", "--profile=work", "bug-abc123"},
			want: []string{"worktrack", "--profile=work", "bugs", "show", "bug-abc123"},
		},
		{
			name: "direct bug id after bool flag",
			in:   []string{"worktrack", "--offline", "bug-abc123"},
			want: []string{"worktrack", "--offline", "bugs", "show", "bug-abc123"},
		},
		{
			name: "direct bug id after double dash",
			in:   []string{"worktrack", "--profile", "work", "--", "bug-abc123"},
			want: []string{"worktrack", "--profile", "work", "--", "bugs", "show", "bug-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"worktrack", "bugs", "show", "bug-abc123"},
			want: []string{"worktrack", "bugs", "show", "bug-abc123"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"worktrack", "wat"},
			want: []string{"worktrack", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectBugLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectBugLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
