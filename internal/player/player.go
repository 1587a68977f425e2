package player

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("player not found")

// Profile is what survives between sessions: the chip balance and running
// totals. Individual rounds are not kept.
type Profile struct {
	ID      string
	Name    string
	Chips   float64
	Wins    int
	Losses  int
	Pushes  int
	Games   int
	LastBet float64
}

type Stats struct {
	ID      string
	Name    string
	Chips   float64
	Wins    int
	Games   int
	WinRate float64
}

type Repository interface {
	GetOrCreate(ctx context.Context, id, name string, startChips, defaultBet float64) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	GetTopByChips(ctx context.Context, limit int) ([]Stats, error)
}

// Record books a settled round with the given net result.
func (p *Profile) Record(net float64) {
	switch {
	case net > 0:
		p.Wins++
	case net < 0:
		p.Losses++
	default:
		p.Pushes++
	}
	p.Games++
}

func (p *Profile) CanAfford(amount float64) bool {
	return p.Chips >= amount
}

func (p *Profile) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games) * 100
}

func (p *Profile) Stats() Stats {
	return Stats{
		ID:      p.ID,
		Name:    p.Name,
		Chips:   p.Chips,
		Wins:    p.Wins,
		Games:   p.Games,
		WinRate: p.WinRate(),
	}
}
