package console

import (
	"testing"

	"github.com/chanconsole/chanconsole/internal/stats"
)

func TestDiffEmitsOneLinePerChangedField(t *testing.T) {
	prev := []stats.Serializable{{ID: "a", Label: "a", SentCount: 1, ReceivedCount: 1, State: "active"}}
	cur := []stats.Serializable{{ID: "a", Label: "a", SentCount: 3, ReceivedCount: 1, State: "full"}}

	lines := Diff(prev, cur)
	if len(lines) != 2 {
		t.Fatalf("want 2 lines (sent, state), got %d: %+v", len(lines), lines)
	}
}

func TestDiffMarksNewChannelAsCreated(t *testing.T) {
	cur := []stats.Serializable{{ID: "b", Label: "b", State: "active"}}
	lines := Diff(nil, cur)
	if len(lines) != 1 || lines[0].Text != "created" {
		t.Fatalf("want single 'created' line, got %+v", lines)
	}
}

func TestDiffNoChangeYieldsNoLines(t *testing.T) {
	rec := []stats.Serializable{{ID: "a", Label: "a", SentCount: 1, ReceivedCount: 1, State: "active"}}
	if lines := Diff(rec, rec); len(lines) != 0 {
		t.Fatalf("want no lines for unchanged snapshot, got %+v", lines)
	}
}
