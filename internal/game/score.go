package game

import "strconv"

// Score is the value of a hand. Zero means bust and 22 a natural blackjack,
// so a natural compares above any other total.
type Score int

const (
	Bust      Score = 0
	Blackjack Score = 22
)

func (s Score) IsBust() bool {
	return s == Bust
}

func (s Score) IsBlackjack() bool {
	return s == Blackjack
}

// Points is the hand total shown to players: a natural counts as 21.
func (s Score) Points() int {
	if s == Blackjack {
		return 21
	}
	return int(s)
}

func (s Score) String() string {
	switch s {
	case Bust:
		return "bust"
	case Blackjack:
		return "blackjack"
	}
	return strconv.Itoa(int(s))
}

// CalculateScore values a hand. Only one ace is ever promoted to 11 and
// demoted back, which is all a hand can use without busting.
func CalculateScore(hand []Card) Score {
	total := 0
	hasAce := false

	for _, card := range hand {
		total += card.Rank.points()
		if card.Rank == Ace {
			hasAce = true
		}
	}

	if hasAce {
		total += 10
		if total == 21 && len(hand) == 2 {
			return Blackjack
		}
		if total > 21 {
			total -= 10
		}
	}

	if total > 21 {
		return Bust
	}
	return Score(total)
}

func IsBlackjack(hand []Card) bool {
	return CalculateScore(hand).IsBlackjack()
}

func IsBust(hand []Card) bool {
	return CalculateScore(hand).IsBust()
}
