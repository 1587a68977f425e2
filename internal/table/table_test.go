package table

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablejack/internal/game"
	"tablejack/internal/game/gametest"
)

var c = gametest.C

func newTestTable(opts Options, top []game.Card, names ...string) *Table {
	players := make([]*game.Participant, len(names))
	for i, n := range names {
		players[i] = game.NewParticipant(n, 100)
	}
	banker := game.NewParticipant("house", 1000)
	return New(banker, players, gametest.StackedDeck(top...), opts, log.New(io.Discard))
}

func TestPlayRound_MixedTable(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(8, game.Spades), // banker 18
		c(10, game.Hearts), c(game.King, game.Hearts), // a 20
		c(game.Ace, game.Clubs), c(game.King, game.Clubs), // b natural
		c(10, game.Diamonds), c(2, game.Diamonds), // c 12
		c(game.King, game.Diamonds), // c hits and busts
	}, "a", "b", "c")

	script := gametest.NewScript(game.Stand, game.Hit)
	res, err := tbl.PlayRound([]float64{10, 10, 10}, script)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, PhaseSettled, tbl.Phase())
	assert.Equal(t, 1, res.Round)
	assert.Equal(t, tbl.RoundID(), res.RoundID)

	assert.Equal(t, game.Score(18), res.Banker.Score)
	assert.Equal(t, game.Stood, res.Banker.Outcome)
	assert.Equal(t, -15.0, res.BankerNet)
	assert.Equal(t, 985.0, tbl.Banker().Chips())

	require.Len(t, res.Seats, 3)
	a, b, cc := res.Seats[0], res.Seats[1], res.Seats[2]

	assert.Equal(t, game.Stood, a.Outcome)
	assert.Equal(t, 10.0, a.Net)
	assert.Equal(t, 110.0, a.Chips)

	assert.Equal(t, game.Blackjack, b.Score)
	assert.Equal(t, game.Stood, b.Outcome)
	assert.Equal(t, 15.0, b.Net)
	assert.Equal(t, 115.0, b.Chips)

	assert.Equal(t, game.Busted, cc.Outcome)
	assert.Equal(t, game.Bust, cc.Score)
	assert.Equal(t, -10.0, cc.Net)
	assert.Equal(t, 90.0, cc.Chips)
	assert.Len(t, cc.Hand, 3)

	assert.Equal(t, [][]game.Choice{
		{game.Hit, game.Stand, game.Double},
		{game.Hit, game.Stand, game.Double},
	}, script.Offered)
}

func TestPlayRound_DoubleDoublesStake(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(7, game.Spades),
		c(5, game.Hearts), c(6, game.Hearts),
		c(9, game.Clubs),
	}, "a")

	res, err := tbl.PlayRound([]float64{10}, gametest.NewScript(game.Double))
	require.NoError(t, err)

	seat := res.Seats[0]
	assert.Equal(t, game.Doubled, seat.Outcome)
	assert.Equal(t, 20.0, seat.Bet)
	assert.Equal(t, 20.0, seat.Net)
	assert.Equal(t, 120.0, seat.Chips)
	assert.Equal(t, 980.0, tbl.Banker().Chips())
}

func TestPlayRound_BankerDrawsAndBusts(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(6, game.Spades),
		c(10, game.Hearts), c(9, game.Hearts),
		c(game.King, game.Clubs),
	}, "a")

	res, err := tbl.PlayRound([]float64{25}, gametest.NewScript(game.Stand))
	require.NoError(t, err)

	assert.Equal(t, game.Busted, res.Banker.Outcome)
	assert.Len(t, res.Banker.Hand, 3)
	assert.Equal(t, 25.0, res.Seats[0].Net)
	assert.Equal(t, -25.0, res.BankerNet)
}

func TestPlayRound_BankerNatural(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(game.Ace, game.Spades), c(game.King, game.Spades),
		c(10, game.Hearts), c(8, game.Hearts),
	}, "a")

	res, err := tbl.PlayRound([]float64{10}, gametest.NewScript(game.Stand))
	require.NoError(t, err)

	assert.Equal(t, -15.0, res.Seats[0].Net)
	assert.Equal(t, 85.0, res.Seats[0].Chips)
	assert.Equal(t, 15.0, res.BankerNet)
}

func TestPlayRound_Ties(t *testing.T) {
	top := []game.Card{
		c(10, game.Spades), c(8, game.Spades),
		c(10, game.Hearts), c(8, game.Hearts),
	}

	tbl := newTestTable(Options{}, top, "a")
	res, err := tbl.PlayRound([]float64{10}, gametest.NewScript(game.Stand))
	require.NoError(t, err)
	assert.Equal(t, -10.0, res.Seats[0].Net)

	tbl = newTestTable(Options{Rules: game.Rules{BlackjackPays: 1.5, TiesPush: true}}, top, "a")
	res, err = tbl.PlayRound([]float64{10}, gametest.NewScript(game.Stand))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Seats[0].Net)
	assert.Equal(t, 100.0, res.Seats[0].Chips)
}

func TestDeal_AllNaturalsSettleImmediately(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(8, game.Spades),
		c(game.Ace, game.Hearts), c(game.King, game.Hearts),
	}, "a")

	require.NoError(t, tbl.StartRound())
	require.NoError(t, tbl.PlaceBet(0, 10))
	require.NoError(t, tbl.Deal())

	assert.Equal(t, PhaseSettled, tbl.Phase())
	_, _, ok := tbl.Current()
	assert.False(t, ok)
	require.NotNil(t, tbl.Result())
	assert.Equal(t, 15.0, tbl.Result().Seats[0].Net)
}

func TestStepwise(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(7, game.Spades),
		c(2, game.Hearts), c(3, game.Hearts),
		c(4, game.Clubs), c(10, game.Clubs),
	}, "a")

	assert.ErrorIs(t, tbl.PlaceBet(0, 10), ErrWrongPhase)
	require.NoError(t, tbl.StartRound())
	assert.ErrorIs(t, tbl.Deal(), ErrBetsPending)
	assert.ErrorIs(t, tbl.Act(game.Hit), ErrWrongPhase)

	require.NoError(t, tbl.PlaceBet(0, 10))
	require.NoError(t, tbl.Deal())
	assert.ErrorIs(t, tbl.StartRound(), ErrRoundInProgress)

	idx, seat, ok := tbl.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "a", seat.Player.Name())
	assert.True(t, tbl.CanDouble())

	require.NoError(t, tbl.Act(game.Hit))
	assert.False(t, tbl.CanDouble())
	assert.Equal(t, []game.Choice{game.Hit, game.Stand}, tbl.Allowed())
	assert.ErrorIs(t, tbl.Act(game.Double), game.ErrInvalidTransition)

	require.NoError(t, tbl.Act(game.Hit))
	assert.Equal(t, game.Score(19), seat.Player.Score())
	require.NoError(t, tbl.Act(game.Stand))

	assert.Equal(t, PhaseSettled, tbl.Phase())
	assert.Equal(t, 10.0, tbl.Result().Seats[0].Net)
	assert.Nil(t, tbl.Allowed())
}

func TestPlaceBet_Validation(t *testing.T) {
	tbl := newTestTable(Options{MinBet: 5, MaxBet: 50}, nil, "a")
	require.NoError(t, tbl.StartRound())

	assert.ErrorIs(t, tbl.PlaceBet(0, 0), game.ErrInvalidBet)
	assert.ErrorIs(t, tbl.PlaceBet(0, -3), game.ErrInvalidBet)
	assert.ErrorIs(t, tbl.PlaceBet(0, 4), game.ErrInvalidBet)
	assert.ErrorIs(t, tbl.PlaceBet(0, 60), game.ErrInvalidBet)
	assert.ErrorIs(t, tbl.PlaceBet(3, 10), ErrNoSuchSeat)
	assert.NoError(t, tbl.PlaceBet(0, 50))

	tbl = newTestTable(Options{}, nil, "a")
	require.NoError(t, tbl.StartRound())
	assert.ErrorIs(t, tbl.PlaceBet(0, 150), ErrInsufficientChips)
}

func TestPlayRound_BetMismatch(t *testing.T) {
	tbl := newTestTable(Options{}, nil, "a", "b")
	_, err := tbl.PlayRound([]float64{10}, gametest.NewScript())
	assert.ErrorIs(t, err, game.ErrBetMismatch)
}

func TestRoundsCarryChips(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(8, game.Spades),
		c(10, game.Hearts), c(game.King, game.Hearts),
	}, "a")

	for round := 1; round <= 3; round++ {
		res, err := tbl.PlayRound([]float64{10}, gametest.NewScript(game.Stand))
		require.NoError(t, err)
		assert.Equal(t, round, res.Round)
		assert.Equal(t, 100.0+10*float64(round), res.Seats[0].Chips)
		assert.Len(t, res.Seats[0].Hand, 2)
		assert.Len(t, res.Banker.Hand, 2)
	}
	assert.Equal(t, 970.0, tbl.Banker().Chips())
}

func TestAbortOnDeckExhausted(t *testing.T) {
	tbl := newTestTable(Options{}, []game.Card{
		c(10, game.Spades), c(8, game.Spades),
		c(10, game.Hearts), c(2, game.Hearts),
	}, "a")

	require.NoError(t, tbl.StartRound())
	require.NoError(t, tbl.PlaceBet(0, 10))
	require.NoError(t, tbl.Deal())

	for tbl.deck.HasNext() {
		_, err := tbl.deck.Deal()
		require.NoError(t, err)
	}

	err := tbl.Act(game.Hit)
	assert.ErrorIs(t, err, game.ErrDeckExhausted)
	assert.Equal(t, PhaseAborted, tbl.Phase())
	assert.Nil(t, tbl.Result())
	assert.Equal(t, 100.0, tbl.Seats()[0].Player.Chips())
	assert.Equal(t, 1000.0, tbl.Banker().Chips())

	assert.NoError(t, tbl.StartRound())
	assert.Equal(t, game.DeckSize, tbl.deck.Remaining())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "betting", PhaseBetting.String())
	assert.Equal(t, "aborted", PhaseAborted.String())
}
