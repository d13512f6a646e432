// Package ui is the ebiten client for a local session.
package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/ThroneStar/internal/common"
	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/states"
	"github.com/mitchelldurbincs/ThroneStar/internal/ui/input"
	"github.com/mitchelldurbincs/ThroneStar/internal/ui/renderer"
)

// UIGame drives a session from ebiten's update loop and draws it.
type UIGame struct {
	session       *session.Session
	cfg           config.Config
	logger        zerolog.Logger
	boardRenderer *renderer.EnhancedBoardRenderer
	inputHandler  *input.Handler
	defaultFont   font.Face
	human         *humanHUD
}

// NewUIGame wraps a started session.
func NewUIGame(s *session.Session, cfg config.Config, logger zerolog.Logger) *UIGame {
	g := &UIGame{
		session:     s,
		cfg:         cfg,
		logger:      logger.With().Str("component", "UIGame").Logger(),
		defaultFont: basicfont.Face7x13,
	}
	g.boardRenderer = renderer.NewEnhancedBoardRenderer(cfg.UI.StarRadius, g.defaultFont, session.CombatSettings(cfg).TravelDelay)
	g.boardRenderer.SetColors(common.RGB(cfg.Colors.Neutral), common.RGB(cfg.Colors.Lanes))
	g.boardRenderer.SetShowIDs(cfg.Development.ShowIDs)
	g.inputHandler = input.NewHandler(cfg.UI.StarRadius)
	if s.FSM() != nil {
		g.human = newHumanHUD(g.defaultFont)
	}
	return g
}

// Tick is the simulated time per ebiten update.
func Tick() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// Update proceeds the game state.
func (g *UIGame) Update() error {
	g.handleKeys()

	if g.human != nil {
		g.inputHandler.Update(g.session.World(), g.session)
	}
	g.session.Update(Tick())

	if g.human != nil {
		g.human.update(g.session)
	}
	g.boardRenderer.SetSelection(g.session.Selected())
	g.boardRenderer.SetHover(g.inputHandler.Hovered())
	return nil
}

func (g *UIGame) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if err := g.session.TogglePause(); err != nil {
			g.logger.Debug().Err(err).Msg("Pause toggle ignored")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.session.Phase().IsTerminal() {
		if err := g.session.Restart(); err != nil {
			g.logger.Error().Err(err).Msg("Restart failed")
			return
		}
		if g.session.FSM() != nil {
			g.human = newHumanHUD(g.defaultFont)
		}
	}
}

// Draw renders the game screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.RGB(g.cfg.Colors.Background))

	eng := g.session.Engine()
	fb := g.session.Feedback()
	g.boardRenderer.Draw(screen, g.session.World(), eng.Now(), renderer.Overlay{
		Flights:   fb.Flights(),
		Particles: fb.Particles(),
		Battles:   eng.ActiveBattles(),
	})

	g.drawStatus(screen)
	if g.human != nil {
		g.human.draw(screen, g.session)
	}
}

func (g *UIGame) drawStatus(screen *ebiten.Image) {
	phase := g.session.Phase()
	status := fmt.Sprintf("%s  %.1fs", phase, g.session.Elapsed().Seconds())
	ebitenutil.DebugPrintAt(screen, status, 5, 5)

	for i, p := range g.session.World().Players() {
		state := "alive"
		if p.Eliminated {
			state = "fallen"
		}
		line := fmt.Sprintf("%s: %d stars, %d ships in flight, %s",
			p.Name, p.TerritoryCount(), g.session.Engine().CommittedArmies(p.ID), state)
		ebitenutil.DebugPrintAt(screen, line, 5, 25+i*16)
	}

	switch phase {
	case states.PhasePaused:
		ebitenutil.DebugPrintAt(screen, "Paused: space to resume", g.cfg.UI.Window.Width/2-70, g.cfg.UI.Window.Height/2)
	case states.PhaseEnded:
		banner := "Draw"
		if p, ok := g.session.World().Player(g.session.Winner()); ok {
			banner = "Victory for " + p.Name
		}
		ebitenutil.DebugPrintAt(screen, banner+": R to play again", g.cfg.UI.Window.Width/2-90, g.cfg.UI.Window.Height/2)
	}
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.cfg.UI.Window.Width, g.cfg.UI.Window.Height
}

var _ ebiten.Game = (*UIGame)(nil)
