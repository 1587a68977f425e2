package table

import "sync"

// Manager keeps one table per chat.
type Manager struct {
	mu     sync.RWMutex
	tables map[int64]*Table
	locks  map[int64]*sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		tables: make(map[int64]*Table),
		locks:  make(map[int64]*sync.Mutex),
	}
}

func (m *Manager) Get(chatID int64) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[chatID]
}

func (m *Manager) Set(chatID int64, t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[chatID] = t
}

func (m *Manager) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, chatID)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// Lock serializes work on one chat's table. Call the returned func to
// release it.
func (m *Manager) Lock(chatID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[chatID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
