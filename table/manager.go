package table

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/models"
	"github.com/James-Trimble/PlayPalace11/users"
)

// Manager owns every live table. All game mutation runs on the
// scheduler goroutine; the mutex only guards the table map for
// read-side queries from other goroutines (admin RPC, metrics).
type Manager struct {
	registry *game.Registry
	catalog  *locale.Catalog
	store    Store

	mu     sync.RWMutex
	tables map[string]*Table
}

// NewManager creates a manager backed by the given registry and store.
func NewManager(registry *game.Registry, catalog *locale.Catalog, store Store) *Manager {
	return &Manager{
		registry: registry,
		catalog:  catalog,
		store:    store,
		tables:   make(map[string]*Table),
	}
}

// Create opens a new table of the given game type with hostName seated
// as host.
func (m *Manager) Create(gameType, hostName string, hostUser users.User) (*Table, error) {
	g, err := m.registry.New(gameType, m.catalog)
	if err != nil {
		return nil, err
	}

	t := &Table{
		ID:        uuid.New().String(),
		GameType:  gameType,
		CreatedAt: time.Now(),
		Game:      g,
		manager:   m,
		members:   make(map[string]users.User),
	}
	g.Base().SetTable(t)
	g.Base().InitializeLobby(hostName, hostUser)
	if l, ok := g.(interface{ SetupLobby() }); ok {
		// Games with pre-game options hang them off the host here.
		l.SetupLobby()
	}
	t.members[hostName] = hostUser

	m.add(t)
	logger.Log.Infof("Table %s created: %s hosted by %s", t.ID, gameType, hostName)
	return t, nil
}

// Join seats username at an existing table. Fails once the game has
// started or the table is full.
func (m *Manager) Join(tableID, username string, u users.User) (*Table, error) {
	t, ok := m.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("table %s not found", tableID)
	}
	if !t.IsJoinable() {
		return nil, fmt.Errorf("table %s is not joinable", tableID)
	}
	t.Game.Base().JoinLobby(username, u)
	t.Attach(username, u)
	return t, nil
}

// Spectate adds username as a spectator: present, addressed by
// broadcasts, never part of the turn order.
func (m *Manager) Spectate(tableID, username string, u users.User) (*Table, error) {
	t, ok := m.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("table %s not found", tableID)
	}
	t.Game.Base().SpectateLobby(username, u)
	t.Attach(username, u)
	return t, nil
}

// add registers a table in the live set. Used on creation and by the
// restore paths.
func (m *Manager) add(t *Table) {
	m.mu.Lock()
	m.tables[t.ID] = t
	m.mu.Unlock()
}

// Get looks a table up by ID.
func (m *Manager) Get(id string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	return t, ok
}

// FindUserTable returns the table username is currently at, or nil. A
// user is at most at one table.
func (m *Manager) FindUserTable(username string) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tables {
		if t.HasMember(username) {
			return t
		}
	}
	return nil
}

// WaitingTables lists joinable tables, oldest first, optionally limited
// to one game type (empty matches all). Started tables are delisted even
// before any seat fills.
func (m *Manager) WaitingTables(gameType string) []*Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Table
	for _, t := range m.tables {
		if !t.IsJoinable() {
			continue
		}
		if gameType != "" && t.GameType != gameType {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// All returns a snapshot of every table.
func (m *Manager) All() []*Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		out = append(out, t)
	}
	return out
}

// Count returns the number of live tables.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// Destroy removes a table and tells each attached human once that the
// table is gone.
func (m *Manager) Destroy(t *Table) {
	m.mu.Lock()
	if _, ok := m.tables[t.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.tables, t.ID)
	m.mu.Unlock()

	for _, u := range t.Members() {
		if u == nil || u.IsBot() {
			continue
		}
		u.Queue(users.Message{"type": "table_closed", "table_id": t.ID})
	}
	logger.Log.Infof("Table %s destroyed", t.ID)
}

// OnTick drives every table one tick. A panicking game is logged and
// skipped; it must never take the scheduler down with it.
func (m *Manager) OnTick() {
	for _, t := range m.All() {
		m.tickTable(t)
	}
}

func (m *Manager) tickTable(t *Table) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("Table %s tick panicked: %v", t.ID, r)
		}
	}()
	t.Game.OnTick()
}

// saveForUser persists the table as username's saved game and closes it.
func (m *Manager) saveForUser(t *Table, username string) {
	blob, err := t.Game.MarshalState()
	if err != nil {
		logger.Log.Errorf("Table %s save failed: %v", t.ID, err)
		return
	}

	var humans []string
	for _, p := range t.Game.Base().Players {
		if !p.IsBot {
			humans = append(humans, p.Name)
		}
	}

	rec := models.SavedTableRecord{
		SaveID:      uuid.New().String(),
		Username:    username,
		GameType:    t.GameType,
		GameName:    t.Game.Descriptor().Name,
		GameState:   string(blob),
		PlayerNames: humans,
		SavedAt:     time.Now(),
	}
	if err := m.store.SaveUserTable(rec); err != nil {
		logger.Log.Errorf("Table %s save failed: %v", t.ID, err)
		return
	}

	t.Game.Base().Broadcast("table-saved", nil)
	logger.Log.Infof("Table %s saved by %s", t.ID, username)
	m.Destroy(t)
}

// RestoreSaved rehydrates a saved table. Every human seat must have an
// online user in the given map; the restored table joins the live set
// and the saved record is deleted.
func (m *Manager) RestoreSaved(saveID string, online map[string]users.User) (*Table, error) {
	rec, err := m.store.GetSavedTable(saveID)
	if err != nil {
		return nil, err
	}

	for _, name := range rec.PlayerNames {
		if online[name] == nil {
			return nil, fmt.Errorf("cannot restore: %s is offline", name)
		}
	}

	g, err := m.registry.Restore(rec.GameType, rec.GameState, m.catalog)
	if err != nil {
		return nil, err
	}

	t := &Table{
		ID:        uuid.New().String(),
		GameType:  rec.GameType,
		CreatedAt: time.Now(),
		Game:      g,
		manager:   m,
		members:   make(map[string]users.User),
	}
	g.Base().SetTable(t)
	for _, name := range rec.PlayerNames {
		t.Attach(name, online[name])
	}
	m.add(t)

	if err := m.store.DeleteSavedTable(saveID); err != nil {
		logger.Log.Errorf("Delete saved table %s failed: %v", saveID, err)
	}

	g.Base().Broadcast("table-restored", nil)
	g.Base().RebuildAllMenus()
	logger.Log.Infof("Table %s restored from save %s", t.ID, saveID)
	return t, nil
}

// SaveAll flushes every live table to storage. Called at shutdown;
// per-table errors are logged and do not stop the sweep.
func (m *Manager) SaveAll() {
	for _, t := range m.All() {
		blob, err := t.Game.MarshalState()
		if err != nil {
			logger.Log.Errorf("Table %s serialize failed: %v", t.ID, err)
			continue
		}
		rec := models.TableRecord{
			TableID:   t.ID,
			GameType:  t.GameType,
			GameState: string(blob),
			CreatedAt: t.CreatedAt,
		}
		if err := m.store.SaveTable(rec); err != nil {
			logger.Log.Errorf("Table %s save failed: %v", t.ID, err)
		}
	}
}

// LoadAll restores every stored table, then deletes the stored set so a
// later crash cannot double-restore stale state. Corrupt records are
// logged and skipped. Restored tables start with no attached users;
// players reattach as they log in.
func (m *Manager) LoadAll() int {
	recs, err := m.store.LoadAllTables()
	if err != nil {
		logger.Log.Errorf("Load tables failed: %v", err)
		return 0
	}

	loaded := 0
	for _, rec := range recs {
		g, err := m.registry.Restore(rec.GameType, rec.GameState, m.catalog)
		if err != nil {
			logger.Log.Errorf("Table %s restore failed: %v", rec.TableID, err)
			continue
		}
		t := &Table{
			ID:        rec.TableID,
			GameType:  rec.GameType,
			CreatedAt: rec.CreatedAt,
			Game:      g,
			manager:   m,
			members:   make(map[string]users.User),
		}
		g.Base().SetTable(t)
		m.add(t)
		loaded++
	}

	if err := m.store.DeleteAllTables(); err != nil {
		logger.Log.Errorf("Clear stored tables failed: %v", err)
	}
	return loaded
}
