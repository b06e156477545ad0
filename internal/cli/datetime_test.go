package cli

import "testing"

func TestNormalizeDateFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "2026-03-15", want: "2026-03-15"},
		{in: "  2026-03-15  ", want: "2026-03-15"},
		{in: "2026-03-15 09:30", want: "2026-03-15"},
		{in: "2026-03-15T09:30:00", want: "2026-03-15"},
		{in: "2026-03-15T09:30:00Z", want: "2026-03-15"},
		{in: "2026-13-40", wantErr: true},
		{in: "march 15", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeDateFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeDateFlag(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeDateFlag(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeDateFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
