package game

import "fmt"

// Rules holds the payout settings of a table.
type Rules struct {
	// BlackjackPays is the multiplier paid to a winning natural, and taken
	// from a player beaten by the banker's natural.
	BlackjackPays float64
	// TiesPush returns the stake on equal non-bust scores. When false a tie
	// goes to the banker.
	TiesPush bool
}

func DefaultRules() Rules {
	return Rules{BlackjackPays: 1.5}
}

// Multiplier returns the signed share of the bet the player wins.
func (r Rules) Multiplier(player, banker Score) float64 {
	switch {
	case player > banker && player.IsBlackjack():
		return r.BlackjackPays
	case player > banker:
		return 1
	case banker > player && banker.IsBlackjack():
		return -r.BlackjackPays
	case r.TiesPush && player == banker && !player.IsBust():
		return 0
	default:
		return -1
	}
}

// Settle scores every player against the banker. Each bet is replaced in
// place by the player's signed result and credited to their chips; the
// banker takes the opposite of the sum, which is also returned.
func (r Rules) Settle(banker *Participant, players []*Participant, bets []float64) (float64, error) {
	if len(players) != len(bets) {
		return 0, fmt.Errorf("%w: %d players, %d bets", ErrBetMismatch, len(players), len(bets))
	}

	bankerNet := 0.0
	for i, p := range players {
		bets[i] *= r.Multiplier(p.Score(), banker.Score())
		p.AdjustChips(bets[i])
		bankerNet -= bets[i]
	}
	banker.AdjustChips(bankerNet)

	return bankerNet, nil
}

func Settle(banker *Participant, players []*Participant, bets []float64) (float64, error) {
	return DefaultRules().Settle(banker, players, bets)
}
