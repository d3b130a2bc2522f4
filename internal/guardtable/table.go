// Package guardtable renders a ChannelsGuard's Table format: a
// fixed-column, width-aligned summary of every instrumented channel.
// column widths for the two label-driven columns in this fixed layout
// follow the teacher repo's cli/table flexible-width idea (widen to fit
// the longest value) but, since this table's column set never varies,
// the width/pad machinery is folded directly into the renderer
// instead of keeping a second general-purpose Table abstraction beside
// it.
package guardtable

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/chanconsole/chanconsole/internal/chanid"
	"github.com/chanconsole/chanconsole/internal/stats"
)

// column is the fixed §4.F column set: Channel | Type | State | Sent |
// Mem | Received | Queued | Mem.
type column struct {
	header    string
	width     int
	flexible  bool
	leftAlign bool
}

var columns = []column{
	{header: "CHANNEL", flexible: true, leftAlign: true},
	{header: "TYPE", flexible: true, leftAlign: true},
	{header: "STATE", width: len("notified"), leftAlign: true},
	{header: "SENT", width: 8},
	{header: "MEM", width: 10},
	{header: "RECEIVED", width: 8},
	{header: "QUEUED", width: 8},
	{header: "MEM", width: 10},
}

const columnSpacing = "  "

// stateColumnIndex is where the row cells place the State column, used
// to colorize only that cell when rendering.
const stateColumnIndex = 2

// Render writes records as an aligned table to w: a header row followed
// by one row per record, columns padded to the widest value in each
// flexible column and the State cell colorized by lifecycle state.
func Render(w io.Writer, records []stats.Record) {
	rows := toCells(records)
	widths := columnWidths(rows)

	renderRow(w, headerCells(), widths, false)
	for _, row := range rows {
		renderRow(w, row, widths, true)
	}
}

func toCells(records []stats.Record) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Label,
			r.Kind.String(),
			r.State.String(),
			fmt.Sprintf("%d", r.SentCount),
			chanid.FormatBytes(r.TotalBytes()),
			fmt.Sprintf("%d", r.ReceivedCount),
			fmt.Sprintf("%d", r.Queued()),
			chanid.FormatBytes(r.QueuedBytes()),
		}
	}
	return rows
}

func headerCells() []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = col.header
	}
	return cells
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(columns))
	for c, col := range columns {
		width := col.width
		if col.flexible {
			for _, row := range rows {
				if len(row[c]) > width {
					width = len(row[c])
				}
			}
		}
		widths[c] = width
	}
	return widths
}

func renderRow(w io.Writer, row []string, widths []int, colorize bool) {
	for c, col := range columns {
		value := row[c]
		if len(value) > widths[c] {
			value = value[:widths[c]]
		}
		padding := strings.Repeat(" ", widths[c]-len(row[c]))
		display := value
		if colorize && c == stateColumnIndex {
			display = colorizeState(value)
		}
		if col.leftAlign {
			fmt.Fprintf(w, "%s%s%s", display, padding, columnSpacing)
		} else {
			fmt.Fprintf(w, "%s%s%s", padding, display, columnSpacing)
		}
	}
	fmt.Fprint(w, "\n")
}

// colorizeState marks Active green and Full yellow, the same two-tone
// attention colors the teacher's cli/cmd/root.go uses for its own
// ok/warn status symbols; Closed and Notified (both terminal, neither
// more urgent than the other) render in dim gray instead of a third
// accent color.
func colorizeState(s string) string {
	switch s {
	case stats.Active.String():
		return color.GreenString(s)
	case stats.Full.String():
		return color.YellowString(s)
	case stats.Closed.String(), stats.Notified.String():
		return color.New(color.FgHiBlack).Sprint(s)
	default:
		return s
	}
}
