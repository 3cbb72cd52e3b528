package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/keyfall/ecs/debugui"
	debugui_ebiten "github.com/plus3/keyfall/ecs/debugui/ebiten"
	"github.com/plus3/keyfall/game"
)

const hudFontSize = 24

var (
	backgroundColor = color.RGBA{0x16, 0x18, 0x1d, 0xff}
	glyphColor      = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	focusColor      = color.RGBA{0xff, 0xd1, 0x66, 0xff}
	hudColor        = color.RGBA{0x9a, 0xa3, 0xb5, 0xff}
)

// Game implements ebiten.Game on top of a game.World.
type Game struct {
	world  *game.World
	width  int
	height int
	glyph  *text.GoTextFace
	hud    *text.GoTextFace
	best   int

	imgui *debugui_ebiten.ImguiBackend
	keys  []ebiten.Key
	typed []rune
}

func newGame(world *game.World, config game.Config, source *text.GoTextFaceSource, best int) *Game {
	return &Game{
		world:  world,
		width:  config.Window.Width,
		height: config.Window.Height,
		glyph:  &text.GoTextFace{Source: source, Size: config.FontSize},
		hud:    &text.GoTextFace{Source: source, Size: hudFontSize},
		best:   best,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if !g.keyboardCaptured() {
		g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
		g.typed = appendLetters(g.typed[:0], g.keys)
		g.world.Press(g.typed...)
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	if g.imgui != nil {
		g.imgui.Update(func() { g.world.Step(dt) })
	} else {
		g.world.Step(dt)
	}
	return nil
}

func (g *Game) keyboardCaptured() bool {
	var state *debugui.ImguiInputState
	return g.world.Storage.ReadSingleton(&state) && state.WantCaptureKeyboard
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, target := range g.world.Targets() {
		x := float64(target.X) / 100 * float64(g.width)
		y := float64(target.Y) / 100 * float64(g.height)

		clr := glyphColor
		if target.Focused {
			clr = focusColor
			w := float32(g.glyph.Size * 0.6)
			vector.DrawFilledRect(screen, float32(x)-w/2, float32(y+g.glyph.Size*0.55), w, 4, focusColor, false)
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(clr)
		op.ColorScale.ScaleAlpha(float32(1 - 0.6*target.Age))
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, string(target.Letter), g.glyph, op)
	}

	session := g.world.Session()
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 8)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, fmt.Sprintf("hits %d   misses %d   expired %d   best %d",
		session.Hits, session.Misses, session.Expired, max(g.best, session.Hits)), g.hud, op)

	if g.imgui != nil {
		g.imgui.DrawOver(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(g.width, g.height)
	}
	return g.width, g.height
}
