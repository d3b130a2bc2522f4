package console

import (
	"fmt"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// LogLine is one synthesized entry in the logs panel.
type LogLine struct {
	Label string
	Text  string
}

// Diff compares two consecutive polls and synthesizes one log line per
// changed field per channel, the minimal rule spec.md's logs panel
// describes: "sent +N", "received +N", "state -> X". A channel absent
// from prev yields a single "created" line instead.
func Diff(prev, cur []stats.Serializable) []LogLine {
	prevByID := make(map[string]stats.Serializable, len(prev))
	for _, r := range prev {
		prevByID[r.ID] = r
	}

	var lines []LogLine
	for _, r := range cur {
		old, existed := prevByID[r.ID]
		if !existed {
			lines = append(lines, LogLine{Label: r.Label, Text: "created"})
			continue
		}
		if r.SentCount > old.SentCount {
			lines = append(lines, LogLine{
				Label: r.Label,
				Text:  fmt.Sprintf("sent +%d", r.SentCount-old.SentCount),
			})
		}
		if r.ReceivedCount > old.ReceivedCount {
			lines = append(lines, LogLine{
				Label: r.Label,
				Text:  fmt.Sprintf("received +%d", r.ReceivedCount-old.ReceivedCount),
			})
		}
		if r.State != old.State {
			lines = append(lines, LogLine{
				Label: r.Label,
				Text:  fmt.Sprintf("state -> %s", r.State),
			})
		}
	}
	return lines
}
