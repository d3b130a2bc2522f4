package chanid

import "testing"

func TestResolveLabelExplicit(t *testing.T) {
	got := ResolveLabel("examples/basic.rs:42", "hello-there")
	if got != "hello-there" {
		t.Fatalf("expected explicit label to pass through verbatim, got %q", got)
	}
}

func TestResolveLabelDerived(t *testing.T) {
	cases := map[string]string{
		"examples/basic.rs:42":          "examples/basic.rs:42",
		"/home/user/src/worker.go:25":   "src/worker.go:25",
		"a/b/c/worker.go:100":           "c/worker.go:100",
		"worker.go:7":                   "worker.go:7",
		"onlypath_no_colon":             "onlypath_no_colon",
	}
	for id, want := range cases {
		if got := ResolveLabel(id, ""); got != want {
			t.Errorf("ResolveLabel(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestResolveLabelIdempotent(t *testing.T) {
	// P5: applying §4.A twice (once with explicit label, once reading the
	// resolved string back as if it were itself a label) yields the same
	// string.
	derived := ResolveLabel("a/b/worker.go:10", "")
	again := ResolveLabel("a/b/worker.go:10", derived)
	if derived != again {
		t.Fatalf("label resolution not idempotent: %q vs %q", derived, again)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{1024 * 1024 * 1024 * 1024, "1.0 TB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
