package game

import (
	"math/rand"
	"time"
)

const DeckSize = 52

// ShuffleFunc reorders cards in place.
type ShuffleFunc func(cards []Card)

// Deck is a single 52-card shoe. Cards before next have been dealt and are
// not dealt again until Shuffle.
type Deck struct {
	cards   []Card
	next    int
	shuffle ShuffleFunc
}

// NewDeck returns an ordered deck shuffled by a seeded source on every
// Shuffle. A zero seed is replaced by the current time.
func NewDeck(seed int64) *Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	return NewDeckWithShuffle(func(cards []Card) {
		rnd.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	})
}

func NewDeckWithShuffle(fn ShuffleFunc) *Deck {
	d := &Deck{
		cards:   make([]Card, 0, DeckSize),
		shuffle: fn,
	}

	for s := Spades; s <= Diamonds; s++ {
		for r := Ace; r <= King; r++ {
			d.cards = append(d.cards, NewCard(s, r))
		}
	}

	return d
}

// Shuffle returns every card to the deck and reorders it.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.shuffle != nil {
		d.shuffle(d.cards)
	}
}

func (d *Deck) Deal() (Card, error) {
	if !d.HasNext() {
		return Card{}, ErrDeckExhausted
	}

	card := d.cards[d.next]
	d.next++
	return card, nil
}

func (d *Deck) HasNext() bool {
	return d.next < len(d.cards)
}

func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
