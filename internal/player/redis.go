package player

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// key layout:
//
//	hash: tj:player:{id}     -> profile fields
//	zset: tj:leaderboard     -> id scored by chips, only players with games > 0
const leaderboardKey = "tj:leaderboard"

func profileKey(id string) string {
	return fmt.Sprintf("tj:player:%s", id)
}

type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) GetOrCreate(ctx context.Context, id, name string, startChips, defaultBet float64) (*Profile, error) {
	vals, err := r.rdb.HGetAll(ctx, profileKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if len(vals) == 0 {
		p := &Profile{ID: id, Name: name, Chips: startChips, LastBet: defaultBet}
		if err := r.write(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return p, nil
	}

	return decodeProfile(id, vals)
}

func (r *RedisRepository) Save(ctx context.Context, p *Profile) error {
	n, err := r.rdb.Exists(ctx, profileKey(p.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save %s: %w", p.ID, ErrNotFound)
	}

	if err := r.write(ctx, p); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (r *RedisRepository) write(ctx context.Context, p *Profile) error {
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, profileKey(p.ID), map[string]any{
		"name":     p.Name,
		"chips":    p.Chips,
		"wins":     p.Wins,
		"losses":   p.Losses,
		"pushes":   p.Pushes,
		"games":    p.Games,
		"last_bet": p.LastBet,
	})
	if p.Games > 0 {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: p.Chips, Member: p.ID})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisRepository) GetTopByChips(ctx context.Context, limit int) ([]Stats, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := r.rdb.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, profileKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	stats := make([]Stats, 0, len(ids))
	for i, cmd := range cmds {
		p, err := decodeProfile(ids[i], cmd.Val())
		if err != nil {
			return nil, err
		}
		stats = append(stats, p.Stats())
	}
	return stats, nil
}

func decodeProfile(id string, vals map[string]string) (*Profile, error) {
	p := &Profile{ID: id, Name: vals["name"]}

	floats := map[string]*float64{"chips": &p.Chips, "last_bet": &p.LastBet}
	for field, dst := range floats {
		v, err := strconv.ParseFloat(vals[field], 64)
		if err != nil {
			return nil, fmt.Errorf("player %s field %s: %w", id, field, err)
		}
		*dst = v
	}

	ints := map[string]*int{"wins": &p.Wins, "losses": &p.Losses, "pushes": &p.Pushes, "games": &p.Games}
	for field, dst := range ints {
		v, err := strconv.Atoi(vals[field])
		if err != nil {
			return nil, fmt.Errorf("player %s field %s: %w", id, field, err)
		}
		*dst = v
	}

	return p, nil
}
