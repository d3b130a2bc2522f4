package console

import (
	"fmt"
	"strconv"

	runewidth "github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"

	"github.com/chanconsole/chanconsole/internal/chanid"
	"github.com/chanconsole/chanconsole/internal/stats"
)

var columnNames = []string{"Label", "Type", "State", "Sent", "Received", "Queued"}
var columnWidths = []int{28, 14, 10, 8, 10, 8}

const headerHeight = 2
const listTop = headerHeight + 1

// ViewModel is the full state the renderer needs for one frame: current
// focus, the latest snapshot, pause flag, and the two selection indices
// (channel list, log scroll). The renderer is a pure function of these
// fields, per spec.md §4.G's rendering contract.
type ViewModel struct {
	Focus          Focus
	Records        []stats.Serializable
	Fresh          bool
	Paused         bool
	Selected       int
	LogScroll      int
	Logs           []LogLine
	InspectDetails []string
}

// Render draws one full-screen frame. No partial-update protocol is
// assumed; every call clears and redraws the whole screen, matching the
// teacher top command's render loop.
func Render(vm ViewModel) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	renderStatusLine(vm)
	renderHeaders()
	renderChannelList(vm)

	switch vm.Focus {
	case Logs:
		renderLogsPanel(vm)
	case Inspect:
		renderInspectPanel(vm)
	}

	renderBottomBar(vm.Focus)
	termbox.Flush()
}

func renderStatusLine(vm ViewModel) {
	status := "live"
	if vm.Paused {
		status = "paused"
	}
	if !vm.Fresh {
		status = "stale - metrics endpoint unreachable"
	}
	tbprintBold(0, 0, fmt.Sprintf("chanconsole [%s] focus=%s", status, vm.Focus))
}

func renderHeaders() {
	x := 0
	for i, name := range columnNames {
		width := columnWidths[i]
		padded := fmt.Sprintf("%-"+strconv.Itoa(width)+"s ", name)
		tbprintBold(x, headerHeight, padded)
		x += width + 1
	}
}

func renderChannelList(vm ViewModel) {
	for i, r := range vm.Records {
		y := listTop + i
		fg := termbox.ColorDefault
		if vm.Focus == Channels && i == vm.Selected {
			fg = termbox.ColorCyan
		}
		x := 0
		cells := []string{r.Label, r.ChannelType, r.State,
			strconv.FormatUint(r.SentCount, 10),
			strconv.FormatUint(r.ReceivedCount, 10),
			strconv.FormatUint(r.Queued, 10)}
		for c, val := range cells {
			width := columnWidths[c]
			tbprintColor(x, y, fmt.Sprintf("%-"+strconv.Itoa(width)+"s ", val), fg)
			x += width + 1
		}
	}
}

func renderLogsPanel(vm ViewModel) {
	top := listTop + len(vm.Records) + 2
	tbprintBold(0, top-1, "-- logs --")
	for i, line := range vm.Logs {
		y := top + i - vm.LogScroll
		if y < top {
			continue
		}
		fg := termbox.ColorDefault
		if vm.Focus == Logs && i == vm.Selected {
			fg = termbox.ColorCyan
		}
		tbprintColor(0, y, fmt.Sprintf("%s: %s", line.Label, line.Text), fg)
	}
}

func renderInspectPanel(vm ViewModel) {
	top := listTop + len(vm.Records) + 2
	tbprintBold(0, top-1, "-- inspect --")
	for i, line := range vm.InspectDetails {
		tbprint(0, top+i, line)
	}
}

func renderBottomBar(focus Focus) {
	_, height := termbox.Size()
	y := height - 1

	base := "Quit <q> | Navigate <up/down/jk> | Toggle Logs <o> | Pause <p>"
	switch focus {
	case Logs:
		base += " | Inspect <i>"
	case Inspect:
		base += " | Close <i/o/h>"
	}
	tbprint(0, y, base)
}

func tbprint(x, y int, msg string) {
	tbprintColor(x, y, msg, termbox.ColorDefault)
}

func tbprintBold(x, y int, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, termbox.AttrBold, termbox.ColorDefault)
		x += runewidth.RuneWidth(c)
	}
}

func tbprintColor(x, y int, msg string, fg termbox.Attribute) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(c)
	}
}

// DescribeRecord renders InspectDetails for the currently-selected
// record's full detail, including the human-readable byte counts the
// table and guard renderers also use.
func DescribeRecord(r stats.Serializable) []string {
	return []string{
		fmt.Sprintf("id:        %s", r.ID),
		fmt.Sprintf("label:     %s", r.Label),
		fmt.Sprintf("type:      %s (%s)", r.TypeName, chanid.FormatBytes(r.TypeSize)),
		fmt.Sprintf("channel:   %s", r.ChannelType),
		fmt.Sprintf("state:     %s", r.State),
		fmt.Sprintf("sent:      %d (%s)", r.SentCount, chanid.FormatBytes(r.TotalBytes)),
		fmt.Sprintf("received:  %d", r.ReceivedCount),
		fmt.Sprintf("queued:    %d (%s)", r.Queued, chanid.FormatBytes(r.QueuedBytes)),
	}
}
