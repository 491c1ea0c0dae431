//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"mad-cpm/internal/core"
	"mad-cpm/internal/render"
	"mad-cpm/internal/ui"
	"mad-cpm/pkg/cpm"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type cellEditor interface {
	AddCell(kind int) (cpm.CellID, error)
	AddCellAt(kind, x, y int) (cpm.CellID, error)
	RemoveCells(kind int) int
}

var kindKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
}

// Game adapts a core.Sim to ebiten.Game.
type Game struct {
	sim     core.Sim
	painter *render.Painter
	palette []color.RGBA
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.Pacer
	log     *slog.Logger

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	kind     int
}

// New builds a Game for sim.
func New(sim core.Sim, cfg *Config, log *slog.Logger) *Game {
	size := sim.Size()
	g := &Game{
		sim:      sim,
		painter:  render.NewPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, cfg.Scale),
		pacer:    core.NewPacer(cfg.TPS),
		log:      log,
		scale:    max(cfg.Scale, 1),
		hudWidth: cfg.HUDWidth,
		seed:     cfg.Seed,
		kind:     1,
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	} else {
		g.palette = []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}}
	}
	if cfg.HUDWidth > 0 {
		g.hud = ui.NewHUD(sim, cfg.HUDWidth)
	}
	return g
}

// Reset reseeds the sim. A zero seed uses the config file's seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	if err := g.sim.Reset(seed); err != nil {
		g.log.Error("reset failed", "seed", seed, "err", err)
	}
	g.tickOnce = false
}

// Update handles input and advances the sim at the configured rate.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.handleEdits()

	g.overlay.Update()
	if g.hud != nil {
		g.hud.Update(g.fieldWidth())
	}

	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for n := g.pacer.Due(); n > 0; n-- {
			g.sim.Step()
		}
	}
	return nil
}

func (g *Game) handleEdits() {
	ed, ok := g.sim.(cellEditor)
	if !ok {
		return
	}
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for i, key := range kindKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		kind := i + 1
		if shift {
			g.kind = kind
			continue
		}
		if _, err := ed.AddCell(kind); err != nil {
			g.log.Warn("add cell", "kind", kind, "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		n := ed.RemoveCells(-1)
		g.log.Info("removed cells", "count", n)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx >= g.fieldWidth() {
			return
		}
		x, y := mx/g.scale, my/g.scale
		if _, err := ed.AddCellAt(g.kind, x, y); err != nil {
			g.log.Warn("seed cell", "kind", g.kind, "x", x, "y", y, "err", err)
		}
	}
}

func (g *Game) fieldWidth() int { return g.sim.Size().W * g.scale }

// Draw renders the field, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	if g.hud != nil {
		g.hud.Draw(screen, g.fieldWidth(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
