// Package console drives a table from the terminal with pterm prompts.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"

	"tablejack/internal/game"
	"tablejack/internal/table"
)

// MaxSeats is how many players one terminal table takes.
const MaxSeats = 7

// Prompter asks the people at the keyboard for names, bets and decisions.
// The three prompt functions default to pterm's interactive widgets and can
// be swapped out in tests.
type Prompter struct {
	Select  func(text string, options []string) (string, error)
	Input   func(text, def string) (string, error)
	Confirm func(text string, def bool) (bool, error)

	log *log.Logger
}

func NewPrompter(logger *log.Logger) *Prompter {
	if logger == nil {
		logger = log.Default()
	}
	return &Prompter{
		Select: func(text string, options []string) (string, error) {
			return pterm.DefaultInteractiveSelect.
				WithDefaultText(text).
				WithOptions(options).
				Show()
		},
		Input: func(text, def string) (string, error) {
			return pterm.DefaultInteractiveTextInput.
				WithDefaultText(text).
				WithDefaultValue(def).
				Show()
		},
		Confirm: func(text string, def bool) (bool, error) {
			return pterm.DefaultInteractiveConfirm.
				WithDefaultText(text).
				WithDefaultValue(def).
				Show()
		},
		log: logger,
	}
}

// Choose offers only the allowed choices, so the answer is always legal.
func (p *Prompter) Choose(pl *game.Participant, allowed []game.Choice) (game.Choice, error) {
	pterm.Info.Printfln("%s: %s", pl.Name(), FormatHand(pl.Hand(), pl.Score()))

	options := make([]string, len(allowed))
	for i, c := range allowed {
		options[i] = ChoiceLabel(c)
	}

	sel, err := p.Select(fmt.Sprintf("%s, your move", pl.Name()), options)
	if err != nil {
		return 0, err
	}
	return ParseLabel(sel)
}

func (p *Prompter) AskName(text, def string) (string, error) {
	for {
		s, err := p.Input(text, def)
		if err != nil {
			return "", err
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
		pterm.Warning.Println("Name cannot be empty")
	}
}

// AskAmount keeps asking until the answer is a positive number.
func (p *Prompter) AskAmount(text string, def float64) (float64, error) {
	for {
		s, err := p.Input(text, FormatChips(def))
		if err != nil {
			return 0, err
		}
		v, err := ParseAmount(s)
		if err == nil {
			return v, nil
		}
		pterm.Warning.Println(err)
	}
}

func (p *Prompter) AskSeats() (int, error) {
	for {
		s, err := p.Input(fmt.Sprintf("Players at the table (1-%d)", MaxSeats), "1")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil && n >= 1 && n <= MaxSeats {
			return n, nil
		}
		pterm.Warning.Printfln("Enter a number between 1 and %d", MaxSeats)
	}
}

// AskBets collects a bet for every seat, asking again whenever the table
// turns one down for being out of limits or unaffordable.
func (p *Prompter) AskBets(t *table.Table, defaults []float64) error {
	for i, s := range t.Seats() {
		def := 0.0
		if i < len(defaults) {
			def = defaults[i]
		}
		for {
			amount, err := p.AskAmount(
				fmt.Sprintf("%s bets (chips %s)", s.Player.Name(), FormatChips(s.Player.Chips())), def)
			if err != nil {
				return err
			}

			err = t.PlaceBet(i, amount)
			if err == nil {
				break
			}
			if errors.Is(err, game.ErrInvalidBet) || errors.Is(err, table.ErrInsufficientChips) {
				p.log.Debug("bet rejected", "seat", s.Player.Name(), "bet", amount, "err", err)
				pterm.Warning.Println(err)
				continue
			}
			return err
		}
	}
	return nil
}

func (p *Prompter) AskContinue() (bool, error) {
	return p.Confirm("Play another round?", true)
}

// ShowDeal prints the opening hands with the banker's second card hidden.
func (p *Prompter) ShowDeal(t *table.Table) {
	pterm.DefaultSection.Printfln("Round %d", t.Round())

	banker := t.Banker()
	pterm.Info.Printfln("%s: %s", banker.Name(), FormatHidden(banker.Hand()))
	for _, s := range t.Seats() {
		pterm.Info.Printfln("%s: %s  bet %s", s.Player.Name(), FormatHand(s.Player.Hand(), s.Player.Score()), FormatChips(s.Bet))
	}
}

func (p *Prompter) ShowResult(res *table.Result) error {
	pterm.DefaultSection.Printfln("Round %d settled", res.Round)
	if err := pterm.DefaultTable.WithHasHeader().WithData(ResultTable(res)).Render(); err != nil {
		return err
	}

	if res.BankerNet >= 0 {
		pterm.Success.Printfln("%s nets %s", res.Banker.Name, FormatNet(res.BankerNet))
	} else {
		pterm.Error.Printfln("%s nets %s", res.Banker.Name, FormatNet(res.BankerNet))
	}
	return nil
}

func ChoiceLabel(c game.Choice) string {
	switch c {
	case game.Hit:
		return "Hit"
	case game.Stand:
		return "Stand"
	case game.Double:
		return "Double down"
	}
	return c.String()
}

func ParseLabel(s string) (game.Choice, error) {
	if s == "Double down" {
		return game.Double, nil
	}
	return game.ParseChoice(s)
}

func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%q is not a positive amount", s)
	}
	return v, nil
}

func FormatCards(hand []game.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func FormatHand(hand []game.Card, s game.Score) string {
	return fmt.Sprintf("%s (%s)", FormatCards(hand), s)
}

// FormatHidden shows the first card only.
func FormatHidden(hand []game.Card) string {
	if len(hand) == 0 {
		return "[]"
	}
	return fmt.Sprintf("[%s ?]", hand[0])
}

func FormatChips(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatNet(v float64) string {
	if v > 0 {
		return "+" + FormatChips(v)
	}
	return FormatChips(v)
}

// ResultTable lays a settled round out as rows for pterm, banker last.
func ResultTable(res *table.Result) pterm.TableData {
	data := pterm.TableData{{"Seat", "Hand", "Score", "Outcome", "Bet", "Net", "Chips"}}
	for _, s := range res.Seats {
		data = append(data, resultRow(s, FormatChips(s.Bet)))
	}
	return append(data, resultRow(res.Banker, "-"))
}

func resultRow(s table.SeatResult, bet string) []string {
	return []string{
		s.Name,
		FormatCards(s.Hand),
		s.Score.String(),
		s.Outcome.String(),
		bet,
		FormatNet(s.Net),
		FormatChips(s.Chips),
	}
}
