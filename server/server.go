// Package server ties the platform together: websocket transport in,
// scheduler-serialized game state in the middle, queued messages flushed
// back out once per tick.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/James-Trimble/PlayPalace11/broadcast"
	"github.com/James-Trimble/PlayPalace11/config"
	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/monitor"
	"github.com/James-Trimble/PlayPalace11/network"
	"github.com/James-Trimble/PlayPalace11/persistence"
	adminrpc "github.com/James-Trimble/PlayPalace11/rpc"
	"github.com/James-Trimble/PlayPalace11/scheduler"
	"github.com/James-Trimble/PlayPalace11/services"
	"github.com/James-Trimble/PlayPalace11/session"
	"github.com/James-Trimble/PlayPalace11/table"
	"github.com/James-Trimble/PlayPalace11/users"
)

const heartbeatInterval = 30 * time.Second

// GameServer owns every subsystem. All game and user-map mutation runs
// on the scheduler goroutine; reader goroutines only parse messages and
// dispatch closures.
type GameServer struct {
	cfg      *config.Config
	upgrader websocket.Upgrader

	registry *game.Registry
	catalog  *locale.Catalog
	store    persistence.Store

	sessions *session.Manager
	tables   *table.Manager
	userSvc  *services.UserService
	flusher  *broadcast.Flusher
	sched    *scheduler.Scheduler
	mon      *monitor.Monitor
	rpcSrv   *adminrpc.Server

	// online is keyed by username and touched only on the scheduler
	// goroutine.
	online map[string]*users.NetworkUser

	startTime time.Time
	httpSrv   *http.Server
}

// NewGameServer wires the subsystems. Start launches them.
func NewGameServer(cfg *config.Config, registry *game.Registry, catalog *locale.Catalog, store persistence.Store) (*GameServer, error) {
	s := &GameServer{
		cfg:      cfg,
		registry: registry,
		catalog:  catalog,
		store:    store,
		sessions: session.NewManager(),
		userSvc:  services.NewUserService(store),
		online:   make(map[string]*users.NetworkUser),
		mon:      monitor.NewMonitor("playpalace"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.tables = table.NewManager(registry, catalog, store)
	s.flusher = broadcast.NewFlusher(s.sessions)
	s.sched = scheduler.New(cfg.Game.TickInterval, s.tick)

	rpcSrv, err := adminrpc.NewServer(cfg.Server.AdminAddress)
	if err != nil {
		return nil, err
	}
	s.rpcSrv = rpcSrv
	if err := rpcSrv.Register(adminrpc.NewAdminService(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// Start restores persisted tables and brings every listener up. Blocks
// serving websocket traffic until Shutdown.
func (s *GameServer) Start() error {
	s.startTime = time.Now()

	loaded := s.tables.LoadAll()
	if loaded > 0 {
		logger.Log.Infof("Restored %d table(s) from storage", loaded)
	}

	s.mon.StartServer(s.cfg.Server.MetricsAddress)
	go s.rpcSrv.Start()
	s.sched.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpSrv = &http.Server{Addr: s.cfg.Server.ListenAddress, Handler: mux}

	logger.Log.Infof("Game server listening on %s", s.cfg.Server.ListenAddress)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting traffic, flushes every live table to storage,
// and halts the scheduler. Safe to call once.
func (s *GameServer) Shutdown() {
	logger.Log.Info("Shutting down...")
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	s.rpcSrv.Stop()

	s.sched.Call(func() {
		s.tables.SaveAll()
	})
	s.sched.Stop()

	if err := s.store.Close(); err != nil {
		logger.Log.Errorf("Store close failed: %v", err)
	}
	logger.Log.Info("Shutdown complete.")
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("Upgrade failed: %v", err)
		return
	}
	go s.handleConnection(network.NewWSConnection(conn))
}

// handleConnection is the per-connection reader goroutine. It parses
// messages and hands them to the scheduler; it never mutates game state
// itself.
func (s *GameServer) handleConnection(conn network.Connection) {
	sess := session.NewSession(uuid.New().String(), conn)
	s.sessions.Add(sess)
	conn.SetHeartbeat(heartbeatInterval)
	logger.Log.Infof("Connection from %s, session %s", conn.RemoteAddr(), sess.ID)

	defer func() {
		s.sessions.Remove(sess.ID)
		conn.Close()
		if name := sess.Username(); name != "" {
			s.sched.Dispatch(func() { s.handleDisconnect(name) })
		}
		logger.Log.Infof("Connection closed, session %s", sess.ID)
	}()

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sess.Touch()

		if !sess.IsAuthenticated() {
			if msg.Type != network.MsgAuthorize {
				sess.Send(users.Message{"type": "error", "error": "not_authorized"})
				return
			}
			if !s.handleAuthorize(sess, msg) {
				return
			}
			continue
		}
		s.handleMessage(sess, msg)
	}
}

// handleAuthorize verifies credentials on the reader goroutine (bcrypt
// is too slow for the tick loop) and dispatches the login itself.
// Returns false when the connection should drop.
func (s *GameServer) handleAuthorize(sess *session.Session, msg *network.ClientMessage) bool {
	rec, created, err := s.userSvc.Authenticate(msg.Username, msg.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			sess.Send(users.Message{"type": "error", "error": "bad_credentials"})
			return false
		}
		logger.Log.Errorf("Authenticate %s failed: %v", msg.Username, err)
		sess.Send(users.Message{"type": "error", "error": "internal"})
		return false
	}

	sess.Authenticate(rec.Username)
	if old := s.sessions.Bind(rec.Username, sess); old != nil && old != sess {
		// One session per account; the newer login wins.
		old.Send(users.Message{"type": "kicked", "reason": "logged_in_elsewhere"})
		old.Close()
	}

	sess.Send(users.Message{
		"type":     "authorized",
		"username": rec.Username,
		"created":  created,
	})

	s.sched.Dispatch(func() { s.completeLogin(rec.Username, rec.Locale, rec.Preferences) })
	logger.Log.Infof("%s logged in (new account: %v)", rec.Username, created)
	return true
}

// completeLogin runs on the scheduler goroutine: it materializes the
// user and either reseats them at their table or shows the main menu.
func (s *GameServer) completeLogin(username, loc, prefsBlob string) {
	u := users.NewNetworkUser(username, loc, s.catalog, users.ParsePreferences(prefsBlob))
	if _, ok := s.online[username]; !ok {
		// A relogin replaces the entry; the user is only counted once.
		s.mon.IncOnlinePlayers()
	}
	s.online[username] = u

	if t := s.tables.FindUserTable(username); t != nil {
		t.Attach(username, u)
		users.SpeakL(u, s.catalog, "rejoined-table", map[string]any{"game": t.Game.Descriptor().Name})
		if p := t.Game.Base().PlayerByName(username); p != nil {
			t.Game.Base().RebuildPlayerMenu(p)
		}
		return
	}
	users.SpeakL(u, s.catalog, "welcome", map[string]any{"player": username})
	s.showMainMenu(u)
}

// handleDisconnect runs on the scheduler goroutine after the reader
// exits. A kicked session must not tear down the account's newer login.
func (s *GameServer) handleDisconnect(username string) {
	if s.sessions.GetByUsername(username) != nil {
		return
	}
	if _, ok := s.online[username]; !ok {
		return
	}
	delete(s.online, username)
	s.mon.DecOnlinePlayers()

	// Seat and membership stay so a reconnect lands back at the table;
	// only the user binding goes, which stops messages queuing to a dead
	// object. Games substitute or wait per their own leave policy only
	// when the player explicitly leaves, not on a network drop.
	if t := s.tables.FindUserTable(username); t != nil {
		base := t.Game.Base()
		if p := base.PlayerByName(username); p != nil {
			base.DetachUser(p.ID)
		}
	}
	logger.Log.Infof("%s went offline", username)
}

func (s *GameServer) handleMessage(sess *session.Session, msg *network.ClientMessage) {
	username := sess.Username()

	switch msg.Type {
	case network.MsgPing:
		sess.Send(users.Message{"type": "pong"})
		return
	case network.MsgAuthorize:
		// Already authenticated; ignore.
		return
	}

	s.mon.IncEventsProcessed()
	m := *msg
	s.sched.Dispatch(func() { s.handleEvent(username, &m) })
}

// handleEvent runs on the scheduler goroutine and routes one client
// message either into the user's game or into the server menus.
func (s *GameServer) handleEvent(username string, msg *network.ClientMessage) {
	u, ok := s.online[username]
	if !ok {
		return
	}
	t := s.tables.FindUserTable(username)

	switch msg.Type {
	case network.MsgMenu:
		if t != nil {
			s.forwardToGame(t, username, game.Event{
				Type:        game.EventMenu,
				MenuID:      msg.MenuID,
				SelectionID: msg.SelectionID,
			})
			return
		}
		s.handleServerMenu(u, msg.SelectionID)

	case network.MsgKeybind:
		if t != nil {
			s.forwardToGame(t, username, game.Event{Type: game.EventKeybind, Key: msg.Key})
		}

	case network.MsgEditbox:
		if t != nil {
			s.forwardToGame(t, username, game.Event{
				Type:  game.EventEditbox,
				ID:    msg.ID,
				Value: msg.Value,
			})
		}

	case network.MsgChat:
		s.handleChat(username, t, msg.Text)

	case network.MsgSetLocale:
		s.handleSetLocale(u, msg.Locale)

	case network.MsgSetPreference:
		s.handleSetPreference(u, msg.Name, msg.Value)

	default:
		logger.Log.Debugf("Unknown message type %q from %s", msg.Type, username)
	}
}

// forwardToGame delivers an event to the player's seat. If the event
// made them leave the table, they land back on the main menu.
func (s *GameServer) forwardToGame(t *table.Table, username string, ev game.Event) {
	p := t.Game.Base().PlayerByName(username)
	if p == nil {
		return
	}
	t.Game.Base().HandleEvent(p, ev)

	if s.tables.FindUserTable(username) == nil {
		if u, ok := s.online[username]; ok {
			s.showMainMenu(u)
		}
	}
}

// handleChat relays text to the sender's table, or to everyone in the
// lobby when they are not seated.
func (s *GameServer) handleChat(username string, t *table.Table, text string) {
	if text == "" {
		return
	}
	msg := users.Message{"type": "chat", "from": username, "text": text}
	if t != nil {
		for _, member := range t.Members() {
			member.Queue(msg)
		}
		return
	}
	for name, u := range s.online {
		if s.tables.FindUserTable(name) == nil {
			u.Queue(msg)
		}
	}
}

func (s *GameServer) handleSetLocale(u *users.NetworkUser, loc string) {
	if loc == "" {
		return
	}
	u.SetLocale(loc)
	if err := s.userSvc.SetLocale(u.Username(), loc); err != nil {
		logger.Log.Errorf("Persist locale for %s failed: %v", u.Username(), err)
	}
	users.SpeakL(u, s.catalog, "locale-changed", nil)
}

func (s *GameServer) handleSetPreference(u *users.NetworkUser, name, value string) {
	switch name {
	case "play_turn_sound":
		u.Preferences.PlayTurnSound = value == "on"
	case "clear_kept_on_roll":
		u.Preferences.ClearKeptOnRoll = value == "on"
	case "dice_keeping_style":
		u.Preferences.DiceKeepingStyle = value
	default:
		return
	}
	if err := s.userSvc.SetPreferences(u.Username(), u.Preferences); err != nil {
		logger.Log.Errorf("Persist preferences for %s failed: %v", u.Username(), err)
	}
	users.SpeakL(u, s.catalog, "preference-saved", nil)
}

// tick advances every table and flushes queued messages to live
// sessions. Runs on the scheduler goroutine at the configured interval.
func (s *GameServer) tick() {
	start := time.Now()

	s.tables.OnTick()
	for name, u := range s.online {
		s.flusher.FlushUser(name, u)
	}

	s.mon.SetActiveTables(s.tables.Count())
	s.mon.ObserveTickDuration(time.Since(start))
}

// OnlineUsernames implements rpc.StatusProvider.
func (s *GameServer) OnlineUsernames() []string {
	return s.sessions.OnlineUsernames()
}

// TableSummaries implements rpc.StatusProvider. Snapshots on the
// scheduler goroutine so the admin view is always consistent.
func (s *GameServer) TableSummaries() []adminrpc.TableSummary {
	var out []adminrpc.TableSummary
	s.sched.Call(func() {
		for _, t := range s.tables.All() {
			base := t.Game.Base()
			names := make([]string, 0, len(base.Players))
			for _, p := range base.Players {
				names = append(names, p.Name)
			}
			out = append(out, adminrpc.TableSummary{
				TableID:  t.ID,
				GameType: t.GameType,
				Status:   base.Status,
				Players:  names,
			})
		}
	})
	return out
}

// UptimeSeconds implements rpc.StatusProvider.
func (s *GameServer) UptimeSeconds() float64 {
	return time.Since(s.startTime).Seconds()
}
