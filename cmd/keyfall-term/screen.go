package main

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/keyfall/game"
)

const frameInterval = 16 * time.Millisecond

var (
	glyphStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	fadeStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	focusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true).Underline(true)
	hudStyle   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

type termGame struct {
	screen        tcell.Screen
	world         *game.World
	width, height int
	best          int
}

func newTermGame(screen tcell.Screen, world *game.World, best int) *termGame {
	g := &termGame{screen: screen, world: world, best: best}
	g.width, g.height = screen.Size()
	return g
}

// letterFor extracts a playable letter from a key event.
func letterFor(ev *tcell.EventKey) (rune, bool) {
	if ev.Key() != tcell.KeyRune || ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
		return 0, false
	}
	r := unicode.ToLower(ev.Rune())
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return r, true
}

// cellFor maps a percent position onto the playfield, which is every row
// below the HUD line.
func cellFor(x, y float32, width, height int) (int, int) {
	col := int(x / 100 * float32(width))
	row := 1 + int(y/100*float32(height-1))
	return clamp(col, 0, width-1), clamp(row, 1, max(height-1, 1))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// handle applies one terminal event and reports whether the game should
// keep running.
func (g *termGame) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if r, ok := letterFor(ev); ok {
			g.world.Press(r)
		}
	case *tcell.EventResize:
		g.width, g.height = g.screen.Size()
		g.screen.Sync()
	}
	return true
}

func (g *termGame) draw() {
	g.screen.Clear()

	for _, target := range g.world.Targets() {
		col, row := cellFor(target.X, target.Y, g.width, g.height)
		style := glyphStyle
		switch {
		case target.Focused:
			style = focusStyle
		case target.Age > 0.66:
			style = fadeStyle
		}
		g.screen.SetContent(col, row, target.Letter, nil, style)
	}

	session := g.world.Session()
	hud := fmt.Sprintf("hits %d  misses %d  expired %d  best %d  [esc quits]",
		session.Hits, session.Misses, session.Expired, max(g.best, session.Hits))
	for i, r := range hud {
		if i >= g.width {
			break
		}
		g.screen.SetContent(i, 0, r, nil, hudStyle)
	}

	g.screen.Show()
}

func (g *termGame) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !g.handle(ev) {
				return
			}
		case now := <-ticker.C:
			g.world.Step(now.Sub(last))
			last = now
			g.draw()
		}
	}
}
