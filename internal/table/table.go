package table

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"tablejack/internal/game"
)

var (
	ErrRoundInProgress   = errors.New("round in progress")
	ErrWrongPhase        = errors.New("not allowed in this phase")
	ErrBetsPending       = errors.New("bets pending")
	ErrNoSuchSeat        = errors.New("no such seat")
	ErrInsufficientChips = errors.New("insufficient chips")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBetting
	PhasePlaying
	PhaseSettled
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBetting:
		return "betting"
	case PhasePlaying:
		return "playing"
	case PhaseSettled:
		return "settled"
	case PhaseAborted:
		return "aborted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Options struct {
	MinBet float64
	// MaxBet of zero means no table limit.
	MaxBet float64
	Rules  game.Rules
}

type Seat struct {
	Player *game.Participant
	// Bet is the stake for the current round, doubled on a double down.
	Bet     float64
	Outcome game.Outcome
	placed  bool
}

type SeatResult struct {
	Name    string
	Hand    []game.Card
	Score   game.Score
	Outcome game.Outcome
	Bet     float64
	Net     float64
	Chips   float64
}

type Result struct {
	RoundID   string
	Round     int
	Banker    SeatResult
	BankerNet float64
	Seats     []SeatResult
}

// Table runs rounds for one banker and a fixed roster of players. It is not
// safe for concurrent use.
type Table struct {
	ID     string
	banker *game.Participant
	seats  []*Seat
	deck   *game.Deck
	opts   Options
	log    *log.Logger

	phase   Phase
	round   int
	roundID string
	current int
	turn    *game.PlayerTurn
	result  *Result
}

func New(banker *game.Participant, players []*game.Participant, deck *game.Deck, opts Options, logger *log.Logger) *Table {
	if opts.Rules == (game.Rules{}) {
		opts.Rules = game.DefaultRules()
	}
	if logger == nil {
		logger = log.Default()
	}

	id := uuid.NewString()
	t := &Table{
		ID:      id,
		banker:  banker,
		seats:   make([]*Seat, 0, len(players)),
		deck:    deck,
		opts:    opts,
		log:     logger.With("table", id[:8]),
		current: -1,
	}
	for _, p := range players {
		t.seats = append(t.seats, &Seat{Player: p})
	}
	return t
}

func (t *Table) Banker() *game.Participant { return t.banker }
func (t *Table) Phase() Phase              { return t.phase }
func (t *Table) Round() int                { return t.round }
func (t *Table) RoundID() string           { return t.roundID }

// Result is the last settled round, nil until one settles.
func (t *Table) Result() *Result { return t.result }

func (t *Table) Seats() []*Seat {
	return append([]*Seat(nil), t.seats...)
}

// Current returns the seat waiting for a decision.
func (t *Table) Current() (int, *Seat, bool) {
	if t.phase != PhasePlaying || t.turn == nil {
		return -1, nil, false
	}
	return t.current, t.seats[t.current], true
}

func (t *Table) Allowed() []game.Choice {
	if t.turn == nil {
		return nil
	}
	return t.turn.Allowed()
}

func (t *Table) CanDouble() bool {
	return t.turn != nil && t.turn.CanDouble()
}

// StartRound shuffles the deck, clears every hand and opens betting.
func (t *Table) StartRound() error {
	if t.phase == PhasePlaying {
		return ErrRoundInProgress
	}

	t.deck.Shuffle()
	t.banker.ClearHand()
	for _, s := range t.seats {
		s.Player.ClearHand()
		s.Bet = 0
		s.Outcome = game.Busted
		s.placed = false
	}

	t.round++
	t.roundID = uuid.NewString()
	t.phase = PhaseBetting
	t.current = -1
	t.turn = nil
	t.result = nil

	t.log.Info("round started", "round", t.round, "id", t.roundID, "seats", len(t.seats))
	return nil
}

func (t *Table) PlaceBet(seat int, amount float64) error {
	if t.phase != PhaseBetting {
		return fmt.Errorf("place bet while %s: %w", t.phase, ErrWrongPhase)
	}
	s, err := t.seat(seat)
	if err != nil {
		return err
	}
	if err := t.validateBet(s.Player, amount); err != nil {
		return err
	}

	s.Bet = amount
	s.placed = true
	t.log.Debug("bet placed", "round", t.round, "seat", s.Player.Name(), "bet", amount)
	return nil
}

func (t *Table) validateBet(p *game.Participant, amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return fmt.Errorf("%w: %v is not a positive amount", game.ErrInvalidBet, amount)
	case amount < t.opts.MinBet:
		return fmt.Errorf("%w: minimum is %.2f", game.ErrInvalidBet, t.opts.MinBet)
	case t.opts.MaxBet > 0 && amount > t.opts.MaxBet:
		return fmt.Errorf("%w: maximum is %.2f", game.ErrInvalidBet, t.opts.MaxBet)
	case amount > p.Chips():
		return fmt.Errorf("%w: %s has %.2f", ErrInsufficientChips, p.Name(), p.Chips())
	}
	return nil
}

// Deal gives the banker and then every player two cards and moves to the
// first seat that has a decision to make.
func (t *Table) Deal() error {
	if t.phase != PhaseBetting {
		return fmt.Errorf("deal while %s: %w", t.phase, ErrWrongPhase)
	}
	for _, s := range t.seats {
		if !s.placed {
			return fmt.Errorf("%w: %s", ErrBetsPending, s.Player.Name())
		}
	}

	t.phase = PhasePlaying
	if err := t.dealTwo(t.banker); err != nil {
		return t.abort(err)
	}
	for _, s := range t.seats {
		if err := t.dealTwo(s.Player); err != nil {
			return t.abort(err)
		}
	}

	return t.advance()
}

func (t *Table) dealTwo(p *game.Participant) error {
	for i := 0; i < 2; i++ {
		if _, err := p.Draw(t.deck); err != nil {
			return err
		}
	}
	return nil
}

// Act applies the current seat's choice.
func (t *Table) Act(c game.Choice) error {
	if t.phase != PhasePlaying || t.turn == nil {
		return fmt.Errorf("%s while %s: %w", c, t.phase, ErrWrongPhase)
	}

	if err := t.turn.Apply(c); err != nil {
		if errors.Is(err, game.ErrDeckExhausted) {
			return t.abort(err)
		}
		return err
	}

	s := t.seats[t.current]
	t.log.Debug("action", "round", t.round, "seat", s.Player.Name(), "choice", c, "score", s.Player.Score())
	if !t.turn.Done() {
		return nil
	}

	t.record(s, t.turn.Outcome())
	return t.advance()
}

func (t *Table) advance() error {
	for t.current+1 < len(t.seats) {
		t.current++
		s := t.seats[t.current]
		t.turn = game.NewPlayerTurn(s.Player, t.deck)
		if !t.turn.Done() {
			return nil
		}
		t.record(s, t.turn.Outcome())
	}

	t.turn = nil
	return t.finish()
}

func (t *Table) record(s *Seat, o game.Outcome) {
	s.Outcome = o
	if o == game.Doubled {
		s.Bet *= 2
	}
	t.log.Info("turn over", "round", t.round, "seat", s.Player.Name(), "outcome", o, "score", s.Player.Score())
}

func (t *Table) finish() error {
	bankerOutcome, err := game.PlayBankerTurn(t.banker, t.deck)
	if err != nil {
		return t.abort(err)
	}

	players := make([]*game.Participant, len(t.seats))
	stakes := make([]float64, len(t.seats))
	for i, s := range t.seats {
		players[i] = s.Player
		stakes[i] = s.Bet
	}

	bankerNet, err := t.opts.Rules.Settle(t.banker, players, stakes)
	if err != nil {
		return t.abort(err)
	}

	res := &Result{
		RoundID:   t.roundID,
		Round:     t.round,
		Banker:    resultOf(t.banker, bankerOutcome, 0, bankerNet),
		BankerNet: bankerNet,
		Seats:     make([]SeatResult, len(t.seats)),
	}
	for i, s := range t.seats {
		res.Seats[i] = resultOf(s.Player, s.Outcome, s.Bet, stakes[i])
	}

	t.result = res
	t.phase = PhaseSettled
	t.log.Info("round settled", "round", t.round, "banker", t.banker.Score(), "banker_net", bankerNet)
	return nil
}

func resultOf(p *game.Participant, o game.Outcome, bet, net float64) SeatResult {
	return SeatResult{
		Name:    p.Name(),
		Hand:    p.Hand(),
		Score:   p.Score(),
		Outcome: o,
		Bet:     bet,
		Net:     net,
		Chips:   p.Chips(),
	}
}

// abort drops the round without moving any chips.
func (t *Table) abort(err error) error {
	t.phase = PhaseAborted
	t.turn = nil
	t.log.Error("round aborted", "round", t.round, "err", err)
	return fmt.Errorf("round %d aborted: %w", t.round, err)
}

func (t *Table) seat(i int) (*Seat, error) {
	if i < 0 || i >= len(t.seats) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSeat, i)
	}
	return t.seats[i], nil
}

// Play deals and drives every decision through cp until the round settles.
func (t *Table) Play(cp game.ChoiceProvider) (*Result, error) {
	if err := t.Deal(); err != nil {
		return nil, err
	}

	for t.phase == PhasePlaying {
		_, s, _ := t.Current()
		c, err := cp.Choose(s.Player, t.Allowed())
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", s.Player.Name(), err)
		}
		if err := t.Act(c); err != nil {
			return nil, err
		}
	}
	return t.result, nil
}

// PlayRound runs a whole round with one bet per seat.
func (t *Table) PlayRound(bets []float64, cp game.ChoiceProvider) (*Result, error) {
	if len(bets) != len(t.seats) {
		return nil, fmt.Errorf("%w: %d seats, %d bets", game.ErrBetMismatch, len(t.seats), len(bets))
	}
	if err := t.StartRound(); err != nil {
		return nil, err
	}
	for i, b := range bets {
		if err := t.PlaceBet(i, b); err != nil {
			return nil, err
		}
	}
	return t.Play(cp)
}
