package game

import "strconv"

type Suit int

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
)

var suitSymbols = [...]string{"♠", "♥", "♣", "♦"}

func (s Suit) String() string {
	if s < Spades || s > Diamonds {
		return "?"
	}
	return suitSymbols[s]
}

// Rank is the face of a card, 1 (ace) through 13 (king).
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return strconv.Itoa(int(r))
}

// Name returns the long display name of the rank.
func (r Rank) Name() string {
	switch r {
	case Ace:
		return "Ace"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	}
	return strconv.Itoa(int(r))
}

// points is the base blackjack value, ace counted as 1.
func (r Rank) points() int {
	if r >= 10 {
		return 10
	}
	return int(r)
}

type Card struct {
	Suit Suit
	Rank Rank
}

func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}
