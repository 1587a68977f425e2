// Package gametest provides rigged shoes and scripted players for tests.
package gametest

import (
	"fmt"
	"sync"

	"tablejack/internal/game"
)

// C is shorthand for a card.
func C(rank game.Rank, suit game.Suit) game.Card {
	return game.NewCard(suit, rank)
}

// Stacked returns a shuffle that puts top, in order, at the head of the
// deck. The remaining cards keep whatever order they had. Cards in top must
// be distinct.
func Stacked(top ...game.Card) game.ShuffleFunc {
	return func(cards []game.Card) {
		for i, want := range top {
			for j := i; j < len(cards); j++ {
				if cards[j] == want {
					cards[i], cards[j] = cards[j], cards[i]
					break
				}
			}
		}
	}
}

// StackedDeck is a deck whose every shuffle deals top first.
func StackedDeck(top ...game.Card) *game.Deck {
	d := game.NewDeckWithShuffle(Stacked(top...))
	d.Shuffle()
	return d
}

// Script answers decisions from a fixed list and records what it was
// offered.
type Script struct {
	mu      sync.Mutex
	choices []game.Choice
	Offered [][]game.Choice
}

func NewScript(choices ...game.Choice) *Script {
	return &Script{choices: choices}
}

func (s *Script) Choose(p *game.Participant, allowed []game.Choice) (game.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Offered = append(s.Offered, allowed)
	if len(s.choices) == 0 {
		return 0, fmt.Errorf("script exhausted asking %s", p.Name())
	}
	c := s.choices[0]
	s.choices = s.choices[1:]
	return c, nil
}

// Remaining reports how many scripted choices were not used.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.choices)
}
