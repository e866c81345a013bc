package pipeline

import "testing"

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Info
	}{
		{
			name: "plain fields",
			in:   "Summary: add print statement\nImpact: minor\nType: feat\nScope: x\nContinuation: no",
			want: Info{Summary: "add print statement", Impact: "minor", Type: "feat", Scope: "x"},
		},
		{
			name: "markdown bullets",
			in:   "- **Summary:** rework parser\n- **Impact:** Significant\n- **Type:** refactor\n- **Scope:** none\n- **Continuation:** Yes, continues parser work",
			want: Info{Summary: "rework parser", Impact: "significant", Type: "refactor", Continuation: true},
		},
		{
			name: "aliases",
			in:   "Change summary: fix crash\nImpact level: high\nCommit type: bugfix (crash on nil)\nScope: <api>",
			want: Info{Summary: "fix crash", Impact: "significant", Type: "fix", Scope: "api"},
		},
		{
			name: "unknown values",
			in:   "Type: perf\nImpact: enormous\nnoise without colon",
			want: Info{},
		},
		{
			name: "empty",
			in:   "",
			want: Info{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInfo(tt.in); got != tt.want {
				t.Errorf("ParseInfo() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoHeader(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Type: "feat", Scope: "x", Summary: "add print"}, "feat(x): add print"},
		{Info{Type: "docs", Summary: "update readme"}, "docs: update readme"},
		{Info{Summary: "no type"}, ""},
	}
	for _, tt := range tests {
		if got := tt.info.Header(); got != tt.want {
			t.Errorf("Header() = %q; want %q", got, tt.want)
		}
	}
}
