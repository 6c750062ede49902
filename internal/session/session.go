package session

import (
	"context"
	"encoding/json"
	"time"

	"party_trials/internal/domain"
	"party_trials/internal/game"
	"party_trials/internal/logger"
	"party_trials/internal/metrics"
)

// HistoryStore persists finished tournaments. Persistence is optional and
// always happens off the command loop; session state itself is never stored.
type HistoryStore interface {
	SaveTournament(ctx context.Context, rec *domain.TournamentRecord) error
}

// Config carries the session tunables.
type Config struct {
	PuzzleDuration time.Duration
	TieBreak       game.TieBreak
	InboxSize      int
}

func (c Config) withDefaults() Config {
	if c.PuzzleDuration <= 0 {
		c.PuzzleDuration = game.DefaultPuzzleDuration
	}
	if c.TieBreak == nil {
		c.TieBreak = game.TieBreakJoinOrder
	}
	if c.InboxSize <= 0 {
		c.InboxSize = 128
	}
	return c
}

// Session is one isolated tournament instance: a single-goroutine actor that
// owns the player registry and the active minigame engine. All mutation goes
// through the inbox; different sessions share nothing and run in parallel.
type Session struct {
	ID string

	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc

	cfg     Config
	reg     *game.Registry
	phase   game.Phase
	round   int
	hostID  string
	engine  game.Engine
	version int

	clients map[string]chan []byte
	timers  map[*timer]struct{}

	history  HistoryStore
	recorded bool
}

// New starts a session actor. history may be nil.
func New(parent context.Context, id string, cfg Config, history HistoryStore) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:      id,
		inbox:   make(chan Msg, cfg.withDefaults().InboxSize),
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg.withDefaults(),
		reg:     game.NewRegistry(),
		phase:   game.PhaseLobby,
		clients: make(map[string]chan []byte),
		timers:  make(map[*timer]struct{}),
		history: history,
	}
	go s.loop()
	return s
}

// Inbox exposes the command queue to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.dispose()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Leave:
				s.handleLeave(msg.PlayerID)
			case ClientCmd:
				s.handleClientCmd(msg)
			case timerFired:
				s.handleTimerFired(msg.t)
			case GetState:
				msg.Reply <- s.snapshot()
			case Shutdown:
				s.dispose()
				return
			}
		}
	}
}

func (s *Session) dispose() {
	if s.engine != nil {
		s.engine.Stop()
		s.engine = nil
	}
	for t := range s.timers {
		s.cancelTimer(t)
	}
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
	logger.Info("session disposed", "room", s.ID)
}

// ---- lifecycle ----

func (s *Session) handleJoin(msg Join) {
	if _, ok := s.clients[msg.PlayerID]; ok {
		return // already joined
	}
	p := s.reg.Add(msg.PlayerID, msg.Name, msg.Color)
	s.clients[msg.PlayerID] = msg.Outbox

	logger.Info("player joined", "room", s.ID, "player", p.ID, "name", p.Name)
	s.Broadcast(game.MsgPlayerJoined, map[string]any{"player": p})

	if s.hostID == "" {
		s.assignHost(p.ID)
	}
	if s.engine != nil {
		s.engine.HandlePlayerJoin(p.ID)
	}
	s.publishState()
}

func (s *Session) handleLeave(playerID string) {
	if s.reg.Get(playerID) == nil {
		return
	}
	// let the active engine resolve any in-flight match or finish slot first
	if s.engine != nil {
		s.engine.HandlePlayerLeave(playerID)
	}
	s.reg.Remove(playerID)
	if ch, ok := s.clients[playerID]; ok {
		close(ch)
		delete(s.clients, playerID)
	}

	logger.Info("player left", "room", s.ID, "player", playerID)
	s.Broadcast(game.MsgPlayerLeft, map[string]any{"playerId": playerID})

	if playerID == s.hostID {
		s.hostID = ""
		if next := s.reg.First(); next != nil {
			s.assignHost(next.ID)
		}
	}
	s.publishState()
}

func (s *Session) assignHost(playerID string) {
	s.hostID = playerID
	logger.Info("host assigned", "room", s.ID, "host", playerID)
	s.Broadcast(game.MsgHostAssigned, map[string]any{"hostId": playerID})
}

// ---- command routing ----

func (s *Session) handleClientCmd(msg ClientCmd) {
	metrics.CommandsTotal.WithLabelValues(msg.Event).Inc()

	if s.reg.Get(msg.PlayerID) == nil {
		// raced with a disconnect; drop silently
		return
	}

	switch msg.Event {
	case game.MsgChangeGame:
		if !s.handleChangeGame(msg) {
			return // rejected or invalid: no state change, no version bump
		}
	case game.MsgEndRound:
		if !s.requireHost(msg.PlayerID, msg.Event) {
			return
		}
		s.routeToEngine(msg.PlayerID, game.EndRound{})
	case game.MsgRLGLMove:
		s.routeToEngine(msg.PlayerID, game.MoveForward{})
	case game.MsgMove:
		var p movePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad move payload", "room", s.ID, "player", msg.PlayerID, "error", err)
			return
		}
		s.routeToEngine(msg.PlayerID, game.PlaceMark{Index: p.Index})
	case game.MsgResetGame:
		s.routeToEngine(msg.PlayerID, game.ResetBoard{})
	case game.MsgRPSMove:
		var p rpsMovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad rps payload", "room", s.ID, "player", msg.PlayerID, "error", err)
			return
		}
		s.routeToEngine(msg.PlayerID, game.Throw{Move: p.Move})
	case game.MsgCompletePuzzle:
		var p completePuzzlePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad puzzle payload", "room", s.ID, "player", msg.PlayerID, "error", err)
			return
		}
		s.routeToEngine(msg.PlayerID, game.CompletePuzzle{ElapsedMs: p.ElapsedTimeMs})
	case game.MsgRequestPoints:
		s.SendTo(msg.PlayerID, game.MsgPointsUpdate,
			game.PointsPayload{Points: game.PointsSnapshot(s.reg)})
		return // read-only, no state bump
	default:
		logger.Warn("unknown event", "room", s.ID, "player", msg.PlayerID, "event", msg.Event)
		return
	}
	s.publishState()
}

// requireHost rejects host-only commands from anyone else. Rejection is
// logged and notified, never fatal.
func (s *Session) requireHost(playerID, event string) bool {
	if playerID == s.hostID {
		return true
	}
	logger.Warn("non-host command rejected", "room", s.ID, "player", playerID, "event", event)
	s.SendTo(playerID, game.MsgError, map[string]any{
		"message": "only the host can do that",
		"event":   event,
	})
	return false
}

func (s *Session) routeToEngine(playerID string, cmd game.Command) {
	if s.engine == nil {
		logger.Debug("command with no active engine", "room", s.ID, "player", playerID)
		return
	}
	if err := s.engine.HandleCommand(playerID, cmd); err != nil {
		// illegal or stale move: state untouched, session carries on
		logger.Debug("command ignored", "room", s.ID, "player", playerID, "error", err)
	}
}

// ---- phase machine ----

func (s *Session) handleChangeGame(msg ClientCmd) bool {
	if !s.requireHost(msg.PlayerID, msg.Event) {
		return false
	}
	var p changeGamePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		// the original client sent the phase as a bare string
		var bare string
		if err2 := json.Unmarshal(msg.Payload, &bare); err2 != nil {
			logger.Warn("bad change_game payload", "room", s.ID, "error", err)
			return false
		}
		p.Phase = bare
	}

	target := game.Phase(p.Phase)
	if !target.Valid() {
		logger.Warn("invalid phase requested", "room", s.ID, "phase", p.Phase)
		s.SendTo(msg.PlayerID, game.MsgError, map[string]any{"message": "unknown game: " + p.Phase})
		return false
	}
	s.transition(target)
	return true
}

// transition moves the session to a new phase: the outgoing engine's timers
// are cancelled before anything else so a stale timer can never mutate the
// next phase, then transient player state resets and the incoming engine
// starts.
func (s *Session) transition(target game.Phase) {
	if s.engine != nil {
		s.engine.Stop()
		s.engine = nil
	}
	s.reg.ResetTransient()

	s.phase = target
	if r := target.RLGLRound(); r > 0 {
		s.round = r
	}

	logger.Info("game changed", "room", s.ID, "phase", target)
	s.Broadcast(game.MsgGameChanged, map[string]any{"phase": target})

	env := game.Env{
		Registry:  s.reg,
		Broadcast: s,
		Scheduler: s,
		TieBreak:  s.cfg.TieBreak,
	}

	switch {
	case target.RLGLRound() > 0:
		s.engine = game.NewRedLightGreenLight(env, target)
	case target == game.PhaseTicTacToe:
		s.engine = game.NewTicTacToe(env)
	case target == game.PhaseRPS:
		s.engine = game.NewRockPaperScissors(env)
	case target == game.PhaseFinalPuzzle:
		s.engine = game.NewSlidingPuzzle(env, s.cfg.PuzzleDuration)
	case target == game.PhaseGameWinner, target == game.PhaseTournamentOver:
		s.announceWinner()
	}

	if s.engine != nil {
		s.engine.Start()
	}
}

// announceWinner ranks everyone by total points and broadcasts the
// tournament result, persisting it off-loop when a store is configured.
func (s *Session) announceWinner() {
	winner := game.Winner(s.reg, s.cfg.TieBreak)
	if winner == nil {
		return
	}
	s.Broadcast(game.MsgGameOver, map[string]any{
		"winnerName":  winner.Name,
		"totalPoints": winner.Points,
	})
	logger.Info("tournament over", "room", s.ID, "winner", winner.Name, "points", winner.Points)

	if s.history == nil || s.recorded {
		return
	}
	s.recorded = true
	rec := &domain.TournamentRecord{
		RoomID:      s.ID,
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		TotalPoints: winner.Points,
		Players:     s.reg.Len(),
		Standings:   game.Standings(s.reg, s.cfg.TieBreak),
	}
	store := s.history
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.SaveTournament(ctx, rec); err != nil {
			logger.Error("tournament history save failed", "room", rec.RoomID, "error", err)
		}
	}()
}

// ---- state replication ----

func (s *Session) snapshot() Snapshot {
	players := make([]game.Player, 0, s.reg.Len())
	for _, p := range s.reg.All() {
		players = append(players, *p)
	}
	snap := Snapshot{
		Version:   s.version,
		RoomID:    s.ID,
		Phase:     s.phase,
		Round:     s.round,
		HostID:    s.hostID,
		Players:   players,
		Standings: game.Standings(s.reg, s.cfg.TieBreak),
	}
	if rlgl, ok := s.engine.(*game.RedLightGreenLight); ok {
		snap.Light = rlgl.CurrentLight()
	}
	return snap
}

// publishState bumps the version and pushes a full snapshot to every client.
// A full snapshot after each command keeps replication trivially correct;
// diffing can come later if frame size ever matters.
func (s *Session) publishState() {
	s.version++
	s.Broadcast("state_sync", s.snapshot())
}

// ---- game.Broadcaster ----

// Broadcast sends an event to every connected client, dropping frames for
// clients whose outbox is full rather than blocking the command loop.
func (s *Session) Broadcast(event string, payload any) {
	data, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		logger.Error("broadcast marshal failed", "event", event, "error", err)
		return
	}
	for id, ch := range s.clients {
		select {
		case ch <- data:
		default:
			logger.Warn("outbox full, dropping frame", "room", s.ID, "player", id, "event", event)
		}
	}
}

// SendTo sends an event to a single client; unknown ids are a no-op.
func (s *Session) SendTo(playerID, event string, payload any) {
	ch, ok := s.clients[playerID]
	if !ok {
		return
	}
	data, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		logger.Error("send marshal failed", "event", event, "error", err)
		return
	}
	select {
	case ch <- data:
	default:
		logger.Warn("outbox full, dropping frame", "room", s.ID, "player", playerID, "event", event)
	}
}

// ---- game.Scheduler ----

type timer struct {
	fn      func()
	oneShot bool
	stop    chan struct{}
	stopped bool
}

// Every schedules fn on a fixed period. The callback is delivered through
// the inbox, so it runs inside the command loop like any player action.
func (s *Session) Every(d time.Duration, fn func()) game.CancelFunc {
	t := &timer{fn: fn, stop: make(chan struct{})}
	s.timers[t] = struct{}{}

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				select {
				case s.inbox <- timerFired{t: t}:
				case <-t.stop:
					return
				case <-s.ctx.Done():
					return
				}
			}
		}
	}()

	return func() { s.cancelTimer(t) }
}

// After schedules fn once after d.
func (s *Session) After(d time.Duration, fn func()) game.CancelFunc {
	t := &timer{fn: fn, oneShot: true, stop: make(chan struct{})}
	s.timers[t] = struct{}{}

	go func() {
		tm := time.NewTimer(d)
		defer tm.Stop()
		select {
		case <-t.stop:
		case <-s.ctx.Done():
		case <-tm.C:
			select {
			case s.inbox <- timerFired{t: t}:
			case <-t.stop:
			case <-s.ctx.Done():
			}
		}
	}()

	return func() { s.cancelTimer(t) }
}

// cancelTimer is only ever called from inside the loop (engine.Stop and
// dispose run there), so the active set needs no lock.
func (s *Session) cancelTimer(t *timer) {
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
	delete(s.timers, t)
}

// handleTimerFired runs a due callback unless its timer was cancelled after
// the firing was queued. This is the guard that makes phase transitions
// deterministic: a cancelled light toggle can be in the inbox and still
// never touch the next phase's state.
func (s *Session) handleTimerFired(t *timer) {
	if _, active := s.timers[t]; !active {
		return
	}
	if t.oneShot {
		s.cancelTimer(t)
	}
	t.fn()
	s.publishState()
}
