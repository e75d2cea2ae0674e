// Package dashboard implements the interactive terminal view for `licwatch
// watch`: a live license usage table that re-polls the checker on an
// interval.
package dashboard

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/licwatch/licwatch-cli/internal/license"
)

// Dashboard is an interactive license usage view built on tview.
type Dashboard struct {
	app       *tview.Application
	title     string
	interval  time.Duration
	refreshFn func() []license.UsageRecord

	mainFlex  *tview.Flex
	table     *tview.Table
	statusBar *tview.TextView
	stopChan  chan struct{}

	// mu guards the fields below, which cross between the ticker
	// goroutine, the input handler, and the draw callbacks.
	mu          sync.Mutex
	records     []license.UsageRecord
	lastUpdate  time.Time
	autoRefresh bool
}

// New creates a dashboard that polls through refreshFn every interval while
// auto-refresh is on.
func New(title string, interval time.Duration, refreshFn func() []license.UsageRecord) *Dashboard {
	return &Dashboard{
		title:       title,
		interval:    interval,
		refreshFn:   refreshFn,
		autoRefresh: true,
		stopChan:    make(chan struct{}),
	}
}

// Run starts the dashboard and blocks until the user quits.
func (d *Dashboard) Run() error {
	d.app = tview.NewApplication()
	d.buildUI()

	// First poll happens synchronously so the table is never empty on
	// first paint.
	d.setRecords(d.refreshFn())
	d.updateUI()

	go d.autoRefreshLoop()

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			d.stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				d.stop()
				return nil
			case 'r', 'R':
				go d.refresh()
				return nil
			case 'a', 'A':
				d.toggleAutoRefresh()
				d.updateStatusBar()
				return nil
			}
		}
		return event
	})

	return d.app.Run()
}

func (d *Dashboard) stop() {
	close(d.stopChan)
	d.app.Stop()
}

func (d *Dashboard) buildUI() {
	header := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	header.SetText(fmt.Sprintf("\n[::b]📋 %s[::-]", tview.Escape(d.title)))

	d.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(false, false)
	d.table.SetBorder(true).SetTitle(" Licenses ")

	d.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	d.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(d.table, 0, 1, false).
		AddItem(d.statusBar, 1, 0, false)

	d.app.SetRoot(d.mainFlex, true)
}

func (d *Dashboard) updateUI() {
	d.updateTable()
	d.updateStatusBar()
}

func (d *Dashboard) updateTable() {
	records, _, _ := d.snapshot()
	d.table.Clear()

	if len(records) == 0 {
		d.table.SetCell(0, 0, tview.NewTableCell(" [gray]No features configured[-]").SetSelectable(false))
		return
	}

	headers := []string{"FEATURE", "USED", "UNUSED", "TOTAL", "STATUS"}
	for i, h := range headers {
		cell := tview.NewTableCell(" [yellow::b]" + h + "[-:-:-]").
			SetSelectable(false).
			SetAlign(tview.AlignLeft)
		d.table.SetCell(0, i, cell)
	}

	for i, r := range records {
		row := i + 1

		d.table.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(r.Feature)).SetSelectable(false))
		d.table.SetCell(row, 1, tview.NewTableCell(countCell(r.Used)).SetSelectable(false))
		d.table.SetCell(row, 2, tview.NewTableCell(countCell(r.Unused)).SetSelectable(false))
		d.table.SetCell(row, 3, tview.NewTableCell(countCell(r.Total)).SetSelectable(false))

		var statusCell string
		switch r.Status() {
		case license.StatusOK:
			statusCell = "[green]● OK[-]"
		case license.StatusFullyUsed:
			statusCell = "[red]✗ Fully used[-]"
		case license.StatusOverReported:
			statusCell = "[yellow]▲ Over-reported[-]"
		default:
			statusCell = "[yellow]? Unknown parse[-]"
		}
		d.table.SetCell(row, 4, tview.NewTableCell(statusCell).SetSelectable(false))
	}
}

func countCell(v *int) string {
	if v == nil {
		return "[gray]?[-]"
	}
	return strconv.Itoa(*v)
}

func (d *Dashboard) updateStatusBar() {
	records, last, auto := d.snapshot()

	autoStr := "[red]off[-]"
	if auto {
		autoStr = "[green]on[-]"
	}

	lastUpdate := "never"
	if !last.IsZero() {
		lastUpdate = last.Format("15:04:05")
	}

	unknown := 0
	for _, r := range records {
		if r.HasUnknown() {
			unknown++
		}
	}
	warn := ""
	if unknown > 0 {
		warn = fmt.Sprintf("  [yellow]%d unparsed[-]", unknown)
	}

	d.statusBar.SetText(fmt.Sprintf(
		" [yellow][r][-]efresh  [yellow][a][-]uto-refresh: %s  [yellow][q][-]uit  |  Last poll: [gray]%s[-]%s",
		autoStr, lastUpdate, warn,
	))
}

func (d *Dashboard) refresh() {
	if d.refreshFn == nil {
		return
	}

	d.setRecords(d.refreshFn())

	d.app.QueueUpdateDraw(func() {
		d.updateUI()
	})
}

func (d *Dashboard) autoRefreshLoop() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			if d.autoRefreshEnabled() {
				d.refresh()
			}
		}
	}
}

func (d *Dashboard) setRecords(records []license.UsageRecord) {
	d.mu.Lock()
	d.records = records
	d.lastUpdate = time.Now()
	d.mu.Unlock()
}

func (d *Dashboard) snapshot() ([]license.UsageRecord, time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.records, d.lastUpdate, d.autoRefresh
}

func (d *Dashboard) toggleAutoRefresh() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.autoRefresh = !d.autoRefresh
	return d.autoRefresh
}

func (d *Dashboard) autoRefreshEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autoRefresh
}
