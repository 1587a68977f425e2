package game

import (
	"fmt"
	"slices"
	"strings"
)

type Choice int

const (
	Hit Choice = iota + 1
	Stand
	Double
)

func (c Choice) String() string {
	switch c {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	}
	return fmt.Sprintf("choice(%d)", int(c))
}

// ParseChoice accepts the menu number, the full name or its first letter.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "h", "hit":
		return Hit, nil
	case "2", "s", "stand":
		return Stand, nil
	case "3", "d", "double":
		return Double, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

type Outcome int

const (
	Busted Outcome = iota
	Stood
	Doubled
)

func (o Outcome) String() string {
	switch o {
	case Busted:
		return "busted"
	case Stood:
		return "stood"
	case Doubled:
		return "doubled"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Code is the numeric outcome used by the console summary: 0 bust, 2 stand,
// 3 double.
func (o Outcome) Code() int {
	switch o {
	case Stood:
		return 2
	case Doubled:
		return 3
	}
	return 0
}

// ChoiceProvider supplies the player's decision. allowed is never empty.
type ChoiceProvider interface {
	Choose(p *Participant, allowed []Choice) (Choice, error)
}

type ChoiceFunc func(p *Participant, allowed []Choice) (Choice, error)

func (f ChoiceFunc) Choose(p *Participant, allowed []Choice) (Choice, error) {
	return f(p, allowed)
}

type turnState int

const (
	awaitingFirst turnState = iota
	awaitingNext
	turnDone
)

var (
	firstChoices = []Choice{Hit, Stand, Double}
	nextChoices  = []Choice{Hit, Stand}
)

// PlayerTurn walks one player through hit, stand and double. Double is only
// offered on the first decision and ends the turn after one card.
type PlayerTurn struct {
	player  *Participant
	deck    *Deck
	state   turnState
	outcome Outcome
}

func NewPlayerTurn(p *Participant, d *Deck) *PlayerTurn {
	t := &PlayerTurn{player: p, deck: d}

	score := p.Score()
	switch {
	case score.IsBust():
		t.finish(Busted)
	case score >= 21:
		t.finish(Stood)
	default:
		t.state = awaitingFirst
	}
	return t
}

func (t *PlayerTurn) Player() *Participant {
	return t.player
}

func (t *PlayerTurn) Done() bool {
	return t.state == turnDone
}

// Outcome is meaningful once Done reports true.
func (t *PlayerTurn) Outcome() Outcome {
	return t.outcome
}

func (t *PlayerTurn) Allowed() []Choice {
	switch t.state {
	case awaitingFirst:
		return slices.Clone(firstChoices)
	case awaitingNext:
		return slices.Clone(nextChoices)
	}
	return nil
}

func (t *PlayerTurn) CanDouble() bool {
	return t.state == awaitingFirst
}

// Apply advances the turn. A choice outside Allowed is a caller bug and
// leaves the turn untouched.
func (t *PlayerTurn) Apply(c Choice) error {
	if t.state == turnDone {
		return fmt.Errorf("%w: %s after the turn ended", ErrInvalidTransition, c)
	}
	if !slices.Contains(t.Allowed(), c) {
		return fmt.Errorf("%w: %s not allowed now", ErrInvalidTransition, c)
	}

	switch c {
	case Stand:
		t.finish(Stood)

	case Hit:
		if _, err := t.player.Draw(t.deck); err != nil {
			return err
		}
		if t.player.Score().IsBust() {
			t.finish(Busted)
			return nil
		}
		t.state = awaitingNext

	case Double:
		if _, err := t.player.Draw(t.deck); err != nil {
			return err
		}
		if t.player.Score().IsBust() {
			t.finish(Busted)
			return nil
		}
		t.finish(Doubled)
	}
	return nil
}

func (t *PlayerTurn) finish(o Outcome) {
	t.state = turnDone
	t.outcome = o
}

// PlayPlayerTurn runs a player's turn to completion, asking cp at every
// decision point.
func PlayPlayerTurn(p *Participant, d *Deck, cp ChoiceProvider) (Outcome, error) {
	t := NewPlayerTurn(p, d)
	for !t.Done() {
		c, err := cp.Choose(p, t.Allowed())
		if err != nil {
			return Busted, fmt.Errorf("choose: %w", err)
		}
		if err := t.Apply(c); err != nil {
			return Busted, err
		}
	}
	return t.Outcome(), nil
}

// BankerStandsOn is the total at which the banker stops drawing.
const BankerStandsOn = 17

// PlayBankerTurn draws for the banker until 17 or more, or bust.
func PlayBankerTurn(banker *Participant, d *Deck) (Outcome, error) {
	for banker.Score() < BankerStandsOn && !banker.Score().IsBust() {
		if _, err := banker.Draw(d); err != nil {
			return Busted, err
		}
	}

	if banker.Score().IsBust() {
		return Busted, nil
	}
	return Stood, nil
}
