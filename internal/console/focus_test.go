package console

import "testing"

func TestFocusTransitionSequenceOIH(t *testing.T) {
	// S6: starting at Channels, "o i h" visits Logs, Inspect, then back to
	// Logs (Inspect's "h" closes to Logs, not Channels).
	f := Channels
	f = Transition(f, 'o')
	if f != Logs {
		t.Fatalf("after 'o': want Logs, got %v", f)
	}
	f = Transition(f, 'i')
	if f != Inspect {
		t.Fatalf("after 'i': want Inspect, got %v", f)
	}
	f = Transition(f, 'h')
	if f != Logs {
		t.Fatalf("after 'h': want Logs, got %v", f)
	}
}

func TestChannelsIgnoresInspectAndClose(t *testing.T) {
	if got := Transition(Channels, 'i'); got != Channels {
		t.Fatalf("Channels + 'i' should be ignored, got %v", got)
	}
	if got := Transition(Channels, 'h'); got != Channels {
		t.Fatalf("Channels + 'h' should be ignored, got %v", got)
	}
}

func TestLogsToggleBackToChannels(t *testing.T) {
	if got := Transition(Logs, 'o'); got != Channels {
		t.Fatalf("Logs + 'o' should return to Channels, got %v", got)
	}
}
