package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(ctx context.Context, id, name string, startChips, defaultBet float64) (*Profile, error) {
	p := &Profile{ID: id}

	err := r.db.QueryRowContext(ctx, `
		SELECT name, chips, wins, losses, pushes, games, last_bet
		FROM players WHERE id = ?
	`, id).Scan(
		&p.Name, &p.Chips, &p.Wins, &p.Losses,
		&p.Pushes, &p.Games, &p.LastBet,
	)

	if errors.Is(err, sql.ErrNoRows) {
		p.Name = name
		p.Chips = startChips
		p.LastBet = defaultBet

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO players (id, name, chips, last_bet)
			VALUES (?, ?, ?, ?)
		`, id, p.Name, p.Chips, p.LastBet)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return p, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p *Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE players SET
			name = ?, chips = ?, wins = ?, losses = ?, pushes = ?,
			games = ?, last_bet = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Chips, p.Wins, p.Losses, p.Pushes,
		p.Games, p.LastBet, p.ID)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetTopByChips(ctx context.Context, limit int) ([]Stats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, chips, wins, games
		FROM players
		WHERE games > 0
		ORDER BY chips DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.ID, &s.Name, &s.Chips, &s.Wins, &s.Games); err != nil {
			return nil, err
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
