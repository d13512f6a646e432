package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

// GalaxyConfig holds configuration for galaxy generation
type GalaxyConfig struct {
	Width            float64
	Height           float64
	Stars            int
	PlayerCount      int
	NeighborRadius   float64
	MinStarSpacing   float64
	HomeArmies       int
	NeutralMinArmies int
	NeutralMaxArmies int
}

// DefaultGalaxyConfig returns a sensible default configuration
func DefaultGalaxyConfig(stars, players int) GalaxyConfig {
	return GalaxyConfig{
		Width:            1000,
		Height:           700,
		Stars:            stars,
		PlayerCount:      players,
		NeighborRadius:   220,
		MinStarSpacing:   60,
		HomeArmies:       20,
		NeutralMinArmies: 2,
		NeutralMaxArmies: 8,
	}
}

// Generator handles galaxy generation with deterministic RNG
type Generator struct {
	config GalaxyConfig
	rng    *rand.Rand
}

// NewGenerator creates a new galaxy generator
func NewGenerator(config GalaxyConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// Generate builds a connected galaxy and gives each player one home throne
// star. players must have IDs unique within the slice.
func (g *Generator) Generate(players []*core.Player) (*core.World, error) {
	if len(players) != g.config.PlayerCount {
		return nil, fmt.Errorf("generator configured for %d players, got %d", g.config.PlayerCount, len(players))
	}
	if g.config.Stars < g.config.PlayerCount {
		return nil, fmt.Errorf("need at least %d stars for %d players", g.config.PlayerCount, g.config.Stars)
	}

	w := core.NewWorld()
	for _, p := range players {
		w.AddPlayer(p)
	}

	stars := g.placeStars()
	homes := g.placeThrones(stars)

	for i, pos := range stars {
		t := &core.Territory{ID: i, OwnerID: core.NeutralID, X: pos.X, Y: pos.Y}
		if pid, ok := homes[i]; ok {
			t.OwnerID = players[pid].ID
			t.ArmySize = g.config.HomeArmies
			t.IsThroneStar = true
		} else {
			t.ArmySize = g.neutralArmies()
		}
		if err := w.AddTerritory(t); err != nil {
			return nil, err
		}
	}

	for _, link := range g.lanes(stars) {
		if err := w.Connect(link[0], link[1]); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Position is a star's map coordinate
type Position struct {
	X, Y float64
}

func (p Position) dist2(o Position) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

func (g *Generator) placeStars() []Position {
	stars := make([]Position, 0, g.config.Stars)
	minSpacing2 := g.config.MinStarSpacing * g.config.MinStarSpacing

	// Use a maximum attempt counter to avoid infinite loops
	maxAttempts := g.config.Stars * 50
	for attempts := 0; len(stars) < g.config.Stars && attempts < maxAttempts; attempts++ {
		candidate := g.randomPosition()
		valid := true
		for _, s := range stars {
			if s.dist2(candidate) < minSpacing2 {
				valid = false
				break
			}
		}
		if valid {
			stars = append(stars, candidate)
		}
	}

	// Fallback: crowded galaxies drop the spacing rule
	for len(stars) < g.config.Stars {
		stars = append(stars, g.randomPosition())
	}
	return stars
}

func (g *Generator) randomPosition() Position {
	return Position{
		X: g.rng.Float64() * g.config.Width,
		Y: g.rng.Float64() * g.config.Height,
	}
}

// placeThrones spreads home stars by picking a random first one, then
// repeatedly the star farthest from every home placed so far.
func (g *Generator) placeThrones(stars []Position) map[int]int {
	homes := make(map[int]int, g.config.PlayerCount)
	if g.config.PlayerCount == 0 {
		return homes
	}

	chosen := []int{g.rng.Intn(len(stars))}
	homes[chosen[0]] = 0

	for pid := 1; pid < g.config.PlayerCount; pid++ {
		best, bestDist := -1, -1.0
		for i, s := range stars {
			if _, taken := homes[i]; taken {
				continue
			}
			nearest := math.Inf(1)
			for _, c := range chosen {
				nearest = math.Min(nearest, s.dist2(stars[c]))
			}
			if nearest > bestDist {
				best, bestDist = i, nearest
			}
		}
		chosen = append(chosen, best)
		homes[best] = pid
	}
	return homes
}

func (g *Generator) neutralArmies() int {
	span := g.config.NeutralMaxArmies - g.config.NeutralMinArmies
	if span <= 0 {
		return g.config.NeutralMinArmies
	}
	return g.config.NeutralMinArmies + g.rng.Intn(span+1)
}

// lanes links every pair within the neighbor radius, then bridges any
// disconnected clusters through their closest pair of stars.
func (g *Generator) lanes(stars []Position) [][2]int {
	var links [][2]int
	r2 := g.config.NeighborRadius * g.config.NeighborRadius

	uf := newUnionFind(len(stars))
	for i := range stars {
		for j := i + 1; j < len(stars); j++ {
			if stars[i].dist2(stars[j]) <= r2 {
				links = append(links, [2]int{i, j})
				uf.union(i, j)
			}
		}
	}

	for uf.sets > 1 {
		bi, bj, best := -1, -1, math.Inf(1)
		root := uf.find(0)
		for i := range stars {
			if uf.find(i) != root {
				continue
			}
			for j := range stars {
				if uf.find(j) == root {
					continue
				}
				if d := stars[i].dist2(stars[j]); d < best {
					bi, bj, best = i, j, d
				}
			}
		}
		links = append(links, [2]int{bi, bj})
		uf.union(bi, bj)
	}
	return links
}

type unionFind struct {
	parent []int
	sets   int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), sets: n}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
		uf.sets--
	}
}
