package server

import (
	"strings"

	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/users"
)

// Server-level menu. Selection IDs are prefixed so one handler can route
// them: "cat:" category, "game:" create table, "table:" join,
// "spectate:" spectate, "save:" restore, "loc:" locale.
const serverMenuID = "server_menu"

func (s *GameServer) label(u *users.NetworkUser, key string) string {
	return s.catalog.Get(u.Locale(), key, nil)
}

func (s *GameServer) gameLabel(u *users.NetworkUser, desc game.Descriptor) string {
	label := s.catalog.Get(u.Locale(), desc.NameKey, nil)
	if label == desc.NameKey {
		label = desc.Name
	}
	return label
}

func (s *GameServer) showMainMenu(u *users.NetworkUser) {
	users.ShowMenu(u, serverMenuID, []users.MenuItem{
		{ID: "play", Text: s.label(u, "menu-play")},
		{ID: "join", Text: s.label(u, "menu-join-table")},
		{ID: "saved", Text: s.label(u, "menu-saved-tables")},
		{ID: "who", Text: s.label(u, "menu-whos-online")},
		{ID: "options", Text: s.label(u, "menu-options")},
	})
}

// handleServerMenu routes a selection from a user who is not seated at
// any table. Unknown selections fall back to the main menu so a stale
// client menu can never strand anyone.
func (s *GameServer) handleServerMenu(u *users.NetworkUser, selectionID string) {
	switch {
	case selectionID == "play":
		s.showCategoryMenu(u)
	case selectionID == "join":
		s.showJoinMenu(u)
	case selectionID == "saved":
		s.showSavedMenu(u)
	case selectionID == "who":
		s.speakOnline(u)
	case selectionID == "options":
		s.showOptionsMenu(u)
	case selectionID == "opt_locale":
		s.showLocaleMenu(u)
	case selectionID == "opt_turn_sound":
		s.toggleTurnSound(u)
	case strings.HasPrefix(selectionID, "cat:"):
		s.showGamesMenu(u, strings.TrimPrefix(selectionID, "cat:"))
	case strings.HasPrefix(selectionID, "game:"):
		s.createTable(u, strings.TrimPrefix(selectionID, "game:"))
	case strings.HasPrefix(selectionID, "table:"):
		s.joinTable(u, strings.TrimPrefix(selectionID, "table:"))
	case strings.HasPrefix(selectionID, "spectate:"):
		s.spectateTable(u, strings.TrimPrefix(selectionID, "spectate:"))
	case strings.HasPrefix(selectionID, "save:"):
		s.restoreSaved(u, strings.TrimPrefix(selectionID, "save:"))
	case strings.HasPrefix(selectionID, "delsave:"):
		s.deleteSaved(u, strings.TrimPrefix(selectionID, "delsave:"))
	case strings.HasPrefix(selectionID, "loc:"):
		s.handleSetLocale(u, strings.TrimPrefix(selectionID, "loc:"))
		s.showMainMenu(u)
	default:
		s.showMainMenu(u)
	}
}

func (s *GameServer) showCategoryMenu(u *users.NetworkUser) {
	categories, _ := s.registry.ByCategory()
	items := make([]users.MenuItem, 0, len(categories)+1)
	for _, c := range categories {
		items = append(items, users.MenuItem{ID: "cat:" + c, Text: s.label(u, c)})
	}
	items = append(items, users.MenuItem{ID: "main", Text: s.label(u, "menu-back")})
	users.ShowMenu(u, serverMenuID, items)
}

func (s *GameServer) showGamesMenu(u *users.NetworkUser, category string) {
	_, grouped := s.registry.ByCategory()
	descs := grouped[category]
	items := make([]users.MenuItem, 0, len(descs)+1)
	for _, desc := range descs {
		items = append(items, users.MenuItem{ID: "game:" + desc.Type, Text: s.gameLabel(u, desc)})
	}
	items = append(items, users.MenuItem{ID: "play", Text: s.label(u, "menu-back")})
	users.ShowMenu(u, serverMenuID, items)
}

func (s *GameServer) createTable(u *users.NetworkUser, gameType string) {
	t, err := s.tables.Create(gameType, u.Username(), u)
	if err != nil {
		logger.Log.Errorf("Create table for %s failed: %v", u.Username(), err)
		users.SpeakL(u, s.catalog, "create-table-failed", nil)
		s.showMainMenu(u)
		return
	}
	users.SpeakL(u, s.catalog, "table-created", map[string]any{
		"game": s.gameLabel(u, t.Game.Descriptor()),
	})
}

// showJoinMenu lists open tables to sit at and started ones to watch.
func (s *GameServer) showJoinMenu(u *users.NetworkUser) {
	var items []users.MenuItem
	for _, t := range s.tables.WaitingTables("") {
		items = append(items, users.MenuItem{
			ID: "table:" + t.ID,
			Text: s.catalog.Get(u.Locale(), "table-entry", map[string]any{
				"game":    s.gameLabel(u, t.Game.Descriptor()),
				"host":    t.Game.Base().Host,
				"players": len(t.Game.Base().ActivePlayers()),
			}),
		})
	}
	for _, t := range s.tables.All() {
		if t.Game.Base().Status != game.StatusPlaying {
			continue
		}
		items = append(items, users.MenuItem{
			ID: "spectate:" + t.ID,
			Text: s.catalog.Get(u.Locale(), "spectate-entry", map[string]any{
				"game": s.gameLabel(u, t.Game.Descriptor()),
				"host": t.Game.Base().Host,
			}),
		})
	}
	if len(items) == 0 {
		users.SpeakL(u, s.catalog, "no-tables", nil)
		s.showMainMenu(u)
		return
	}
	items = append(items, users.MenuItem{ID: "main", Text: s.label(u, "menu-back")})
	users.ShowMenu(u, serverMenuID, items)
}

func (s *GameServer) joinTable(u *users.NetworkUser, tableID string) {
	if _, err := s.tables.Join(tableID, u.Username(), u); err != nil {
		users.SpeakL(u, s.catalog, "join-failed", nil)
		s.showMainMenu(u)
	}
}

func (s *GameServer) spectateTable(u *users.NetworkUser, tableID string) {
	if _, err := s.tables.Spectate(tableID, u.Username(), u); err != nil {
		users.SpeakL(u, s.catalog, "join-failed", nil)
		s.showMainMenu(u)
	}
}

func (s *GameServer) showSavedMenu(u *users.NetworkUser) {
	recs, err := s.store.GetUserSavedTables(u.Username())
	if err != nil {
		logger.Log.Errorf("List saved tables for %s failed: %v", u.Username(), err)
		recs = nil
	}
	if len(recs) == 0 {
		users.SpeakL(u, s.catalog, "no-saved-tables", nil)
		s.showMainMenu(u)
		return
	}
	items := make([]users.MenuItem, 0, 2*len(recs)+1)
	for _, rec := range recs {
		entry := s.catalog.Get(u.Locale(), "saved-entry", map[string]any{
			"game":    rec.GameName,
			"players": s.catalog.FormatListAnd(u.Locale(), rec.PlayerNames),
		})
		items = append(items,
			users.MenuItem{ID: "save:" + rec.SaveID, Text: entry},
			users.MenuItem{
				ID:   "delsave:" + rec.SaveID,
				Text: s.catalog.Get(u.Locale(), "saved-entry-delete", map[string]any{"entry": entry}),
			})
	}
	items = append(items, users.MenuItem{ID: "main", Text: s.label(u, "menu-back")})
	users.ShowMenu(u, serverMenuID, items)
}

func (s *GameServer) restoreSaved(u *users.NetworkUser, saveID string) {
	online := make(map[string]users.User, len(s.online))
	for name, ou := range s.online {
		// Only users not already seated elsewhere can be pulled in.
		if s.tables.FindUserTable(name) == nil {
			online[name] = ou
		}
	}
	if _, err := s.tables.RestoreSaved(saveID, online); err != nil {
		logger.Log.Warnf("Restore save %s for %s failed: %v", saveID, u.Username(), err)
		users.SpeakL(u, s.catalog, "restore-failed", nil)
		s.showMainMenu(u)
	}
}

func (s *GameServer) deleteSaved(u *users.NetworkUser, saveID string) {
	if err := s.store.DeleteSavedTable(saveID); err != nil {
		logger.Log.Warnf("Delete save %s for %s failed: %v", saveID, u.Username(), err)
	} else {
		users.SpeakL(u, s.catalog, "save-deleted", nil)
	}
	s.showSavedMenu(u)
}

func (s *GameServer) speakOnline(u *users.NetworkUser) {
	names := s.sessions.OnlineUsernames()
	users.SpeakL(u, s.catalog, "whos-online", map[string]any{
		"count":   len(names),
		"players": s.catalog.FormatListAnd(u.Locale(), names),
	})
	s.showMainMenu(u)
}

func (s *GameServer) showOptionsMenu(u *users.NetworkUser) {
	soundKey := "turn-sound-off"
	if !u.Preferences.PlayTurnSound {
		soundKey = "turn-sound-on"
	}
	users.ShowMenu(u, serverMenuID, []users.MenuItem{
		{ID: "opt_locale", Text: s.label(u, "menu-language")},
		{ID: "opt_turn_sound", Text: s.label(u, soundKey)},
		{ID: "main", Text: s.label(u, "menu-back")},
	})
}

func (s *GameServer) showLocaleMenu(u *users.NetworkUser) {
	locs := s.catalog.Locales()
	if len(locs) == 0 {
		s.showOptionsMenu(u)
		return
	}
	items := make([]users.MenuItem, 0, len(locs)+1)
	for _, loc := range locs {
		items = append(items, users.MenuItem{ID: "loc:" + loc, Text: s.label(u, "locale-"+loc)})
	}
	items = append(items, users.MenuItem{ID: "options", Text: s.label(u, "menu-back")})
	users.ShowMenu(u, serverMenuID, items)
}

func (s *GameServer) toggleTurnSound(u *users.NetworkUser) {
	value := "on"
	if u.Preferences.PlayTurnSound {
		value = "off"
	}
	s.handleSetPreference(u, "play_turn_sound", value)
	s.showOptionsMenu(u)
}
