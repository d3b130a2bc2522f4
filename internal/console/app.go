// Package console implements the TUI client described in spec.md §4.G: a
// poll loop against the metrics HTTP endpoint, a channel-list/logs/inspect
// view model, and a keypress-driven focus state machine, rendered with
// nsf/termbox-go the same way the teacher repo's own top command renders
// its live traffic view.
package console

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	termbox "github.com/nsf/termbox-go"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// App owns the running console's mutable view state and drives the
// render loop until the user quits.
type App struct {
	poller *Poller

	focus     Focus
	paused    bool
	selected  int
	logScroll int
	records   []stats.Serializable
	fresh     bool
	logs      []LogLine
}

// NewApp returns an App polling baseURL at the given interval. stream
// controls whether the poller attempts the /metrics/stream push upgrade
// before falling back to plain polling.
func NewApp(baseURL string, interval time.Duration, stream bool) *App {
	return &App{
		poller: NewPoller(baseURL, interval, stream),
		focus:  Channels,
	}
}

// Run initializes termbox, shows a connecting spinner until the first
// snapshot arrives, then drives the keypress/poll event loop until the
// user quits.
func (a *App) Run() error {
	if err := a.waitForFirstSnapshot(); err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	done := make(chan struct{})
	updates := make(chan struct{}, 1)

	go a.poller.Run(done, func(prev, cur []stats.Serializable) {
		a.logs = append(a.logs, Diff(prev, cur)...)
		a.records = cur
		a.fresh = true
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	keyEvents := make(chan termbox.Event)
	go func() {
		for {
			keyEvents <- termbox.PollEvent()
		}
	}()

	a.render()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-keyEvents:
			focus, action, delta := HandleKey(a.focus, ev)
			switch action {
			case ActionQuit:
				close(done)
				return nil
			case ActionTogglePause:
				a.paused = !a.paused
				a.poller.SetPaused(a.paused)
			}
			a.focus = focus
			a.applyDelta(delta)
			a.render()
		case <-updates:
			a.render()
		case <-ticker.C:
			if recs, fresh := a.poller.Snapshot(); fresh {
				a.records, a.fresh = recs, fresh
			} else {
				a.fresh = false
			}
			a.render()
		}
	}
}

// waitForFirstSnapshot shows a connecting spinner (the teacher's own
// briandowns/spinner dependency, otherwise unused in this domain) while
// polling once per interval until a snapshot is available.
func (a *App) waitForFirstSnapshot() error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " connecting to chanconsole metrics endpoint..."
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if recs, err := a.poller.fetch(); err == nil {
			a.poller.cache.SetDefault(snapshotCacheKey, recs)
			a.records, a.fresh = recs, true
			return nil
		}
		time.Sleep(a.poller.interval)
	}
	return fmt.Errorf("chanconsole console: no response from metrics endpoint within 10s")
}

func (a *App) applyDelta(delta NavDelta) {
	if delta == 0 {
		return
	}
	switch a.focus {
	case Channels:
		a.selected = clamp(a.selected+int(delta), 0, len(a.records)-1)
	case Logs:
		a.logScroll = clamp(a.logScroll+int(delta), 0, len(a.logs))
	case Inspect:
		// Inspect detail is a fixed-length field list; no scrolling needed
		// at current detail sizes.
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a *App) render() {
	vm := ViewModel{
		Focus:     a.focus,
		Records:   a.records,
		Fresh:     a.fresh,
		Paused:    a.paused,
		Selected:  a.selected,
		LogScroll: a.logScroll,
		Logs:      a.logs,
	}
	if a.focus == Inspect && a.selected < len(a.records) {
		vm.InspectDetails = DescribeRecord(a.records[a.selected])
	}
	Render(vm)
}
