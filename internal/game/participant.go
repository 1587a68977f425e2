package game

import (
	"fmt"
	"strings"
)

// Participant is a banker or player seated at the table. The chip balance
// outlives rounds; the hand is rebuilt every round.
type Participant struct {
	name  string
	chips float64
	hand  []Card
	score Score
}

func NewParticipant(name string, chips float64) *Participant {
	return &Participant{
		name:  name,
		chips: chips,
		hand:  make([]Card, 0, 10),
	}
}

func (p *Participant) Name() string {
	return p.name
}

func (p *Participant) Chips() float64 {
	return p.chips
}

// Hand returns a copy of the cards held.
func (p *Participant) Hand() []Card {
	hand := make([]Card, len(p.hand))
	copy(hand, p.hand)
	return hand
}

func (p *Participant) Score() Score {
	return p.score
}

// ReceiveCard adds a card and rescores the hand.
func (p *Participant) ReceiveCard(card Card) {
	p.hand = append(p.hand, card)
	p.score = CalculateScore(p.hand)
}

// Draw deals the next card from d into the hand.
func (p *Participant) Draw(d *Deck) (Card, error) {
	card, err := d.Deal()
	if err != nil {
		return Card{}, fmt.Errorf("%s draw: %w", p.name, err)
	}
	p.ReceiveCard(card)
	return card, nil
}

func (p *Participant) ClearHand() {
	p.hand = p.hand[:0]
	p.score = Bust
}

func (p *Participant) AdjustChips(delta float64) {
	p.chips += delta
}

func (p *Participant) String() string {
	cards := make([]string, len(p.hand))
	for i, c := range p.hand {
		cards[i] = c.String()
	}
	return fmt.Sprintf("%s [%s] (%s) chips=%.2f", p.name, strings.Join(cards, " "), p.score, p.chips)
}
