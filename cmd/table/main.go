package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"

	"tablejack/internal/config"
	"tablejack/internal/console"
	"tablejack/internal/game"
	"tablejack/internal/logger"
	"tablejack/internal/player"
	"tablejack/internal/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	l := logger.New(cfg.LogLevel, os.Stderr)

	if err := run(context.Background(), cfg, l); err != nil {
		l.Fatal("table stopped", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config, l *log.Logger) error {
	repo, closer, err := player.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	l.Info("store ready", "driver", cfg.StoreDriver)

	pterm.DefaultHeader.WithFullWidth().Println("tablejack")
	p := console.NewPrompter(l)

	bankerName, err := p.AskName("Banker name", "House")
	if err != nil {
		return err
	}
	bankerChips, err := p.AskAmount("Banker chips", cfg.HouseChips)
	if err != nil {
		return err
	}

	seats, err := p.AskSeats()
	if err != nil {
		return err
	}

	profiles := make([]*player.Profile, seats)
	players := make([]*game.Participant, seats)
	for i := 0; i < seats; i++ {
		name, err := p.AskName(fmt.Sprintf("Player %d name", i+1), "")
		if err != nil {
			return err
		}
		prof, err := repo.GetOrCreate(ctx, "console:"+strings.ToLower(name), name, cfg.StartChips, cfg.DefaultBet)
		if err != nil {
			return err
		}
		profiles[i] = prof
		players[i] = game.NewParticipant(prof.Name, prof.Chips)
		pterm.Info.Printfln("%s sits down with %s chips", prof.Name, console.FormatChips(prof.Chips))
	}

	tbl := table.New(
		game.NewParticipant(bankerName, bankerChips),
		players,
		game.NewDeck(cfg.DeckSeed),
		table.Options{
			MinBet: cfg.MinBet,
			MaxBet: cfg.MaxBet,
			Rules:  game.Rules{BlackjackPays: cfg.BlackjackPays, TiesPush: cfg.TiesPush},
		},
		l,
	)

	for {
		if name, broke := brokePlayer(tbl, cfg.MinBet); broke {
			pterm.Warning.Printfln("%s cannot cover the minimum bet, the table closes", name)
			return nil
		}

		if err := playRound(ctx, tbl, p, repo, profiles); err != nil {
			if !errors.Is(err, game.ErrDeckExhausted) {
				return err
			}
			pterm.Error.Println("The shoe ran out, the round is void")
		}

		again, err := p.AskContinue()
		if err != nil {
			return err
		}
		if !again {
			break
		}
	}

	pterm.Println("Thank you for playing...")
	return nil
}

func playRound(ctx context.Context, tbl *table.Table, p *console.Prompter, repo player.Repository, profiles []*player.Profile) error {
	if err := tbl.StartRound(); err != nil {
		return err
	}

	defaults := make([]float64, len(profiles))
	for i, prof := range profiles {
		defaults[i] = prof.LastBet
	}
	if err := p.AskBets(tbl, defaults); err != nil {
		return err
	}

	stakes := make([]float64, len(profiles))
	for i, s := range tbl.Seats() {
		stakes[i] = s.Bet
	}

	if err := tbl.Deal(); err != nil {
		return err
	}
	p.ShowDeal(tbl)

	for tbl.Phase() == table.PhasePlaying {
		_, s, _ := tbl.Current()
		c, err := p.Choose(s.Player, tbl.Allowed())
		if err != nil {
			return err
		}
		if err := tbl.Act(c); err != nil {
			return err
		}
	}

	res := tbl.Result()
	if err := p.ShowResult(res); err != nil {
		return err
	}

	for i, sr := range res.Seats {
		prof := profiles[i]
		prof.Chips = sr.Chips
		prof.LastBet = stakes[i]
		prof.Record(sr.Net)
		if err := repo.Save(ctx, prof); err != nil {
			return fmt.Errorf("save %s: %w", prof.Name, err)
		}
	}
	return nil
}

func brokePlayer(tbl *table.Table, minBet float64) (string, bool) {
	for _, s := range tbl.Seats() {
		if s.Player.Chips() < minBet {
			return s.Player.Name(), true
		}
	}
	return "", false
}
