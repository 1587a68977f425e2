package player

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository keeps profiles for the lifetime of the process.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]Profile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]Profile)}
}

func (m *MemoryRepository) GetOrCreate(ctx context.Context, id, name string, startChips, defaultBet float64) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		p = Profile{ID: id, Name: name, Chips: startChips, LastBet: defaultBet}
		m.profiles[id] = p
	}
	return &p, nil
}

func (m *MemoryRepository) Save(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.ID]; !ok {
		return fmt.Errorf("save %s: %w", p.ID, ErrNotFound)
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *MemoryRepository) GetTopByChips(ctx context.Context, limit int) ([]Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make([]Stats, 0, len(m.profiles))
	for _, p := range m.profiles {
		if p.Games > 0 {
			stats = append(stats, p.Stats())
		}
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Chips == stats[j].Chips {
			return stats[i].ID < stats[j].ID
		}
		return stats[i].Chips > stats[j].Chips
	})

	if limit >= 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}
