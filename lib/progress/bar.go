// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/mktorrent/lib/clock"
)

// RefreshInterval is the minimum time between redraws.
const RefreshInterval = 100 * time.Millisecond

// defaultWidth is the number of cells in the bar itself.
const defaultWidth = 30

// Config configures a Bar.
type Config struct {
	// Output receives the rendered line. Required.
	Output io.Writer

	// Total is the number of bytes expected. A zero total renders as
	// complete.
	Total int64

	// Label is printed before the bar.
	Label string

	// Width is the bar length in cells. Defaults to 30.
	Width int

	// Clock throttles redraws. Defaults to clock.Real().
	Clock clock.Clock
}

// Bar is a thread-safe byte counter rendered as a terminal line.
type Bar struct {
	output io.Writer
	total  int64
	label  string
	width  int
	clock  clock.Clock

	filledStyle lipgloss.Style
	emptyStyle  lipgloss.Style
	labelStyle  lipgloss.Style

	done atomic.Int64

	// mu serializes drawing and guards the fields below.
	mu       sync.Mutex
	lastDraw time.Time
	drawn    bool
	finished bool
}

// New returns a Bar. Nothing is drawn until the first Add.
func New(config Config) *Bar {
	if config.Width <= 0 {
		config.Width = defaultWidth
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Bar{
		output:      config.Output,
		total:       config.Total,
		label:       config.Label,
		width:       config.Width,
		clock:       config.Clock,
		filledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		emptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		labelStyle:  lipgloss.NewStyle().Bold(true),
	}
}

// Add counts n more bytes and redraws if RefreshInterval has passed
// since the last redraw.
func (b *Bar) Add(n int64) {
	if b == nil {
		return
	}
	b.done.Add(n)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return
	}
	now := b.clock.Now()
	if b.drawn && now.Sub(b.lastDraw) < RefreshInterval {
		return
	}
	b.draw(now)
}

// Done returns the number of bytes counted so far.
func (b *Bar) Done() int64 {
	if b == nil {
		return 0
	}
	return b.done.Load()
}

// Finish draws the final state and ends the line. Later calls to Add
// still count bytes but draw nothing.
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return
	}
	b.draw(b.clock.Now())
	fmt.Fprintln(b.output)
	b.finished = true
}

// draw writes the current line. Caller holds mu.
func (b *Bar) draw(now time.Time) {
	fmt.Fprint(b.output, "\r"+b.Render())
	b.lastDraw = now
	b.drawn = true
}

// Render returns the current line without a carriage return, e.g.
//
//	hashing ████████░░░░░░░ 12 MB / 24 MB  50%
func (b *Bar) Render() string {
	done := b.done.Load()
	fraction := 1.0
	if b.total > 0 {
		fraction = min(float64(done)/float64(b.total), 1)
	}
	filled := int(fraction * float64(b.width))

	var line strings.Builder
	if b.label != "" {
		line.WriteString(b.labelStyle.Render(b.label))
		line.WriteByte(' ')
	}
	line.WriteString(b.filledStyle.Render(strings.Repeat("█", filled)))
	line.WriteString(b.emptyStyle.Render(strings.Repeat("░", b.width-filled)))
	fmt.Fprintf(&line, " %s / %s %3d%%",
		humanize.Bytes(uint64(max(done, 0))),
		humanize.Bytes(uint64(max(b.total, 0))),
		int(fraction*100))
	return line.String()
}
