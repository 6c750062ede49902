package game

// Event names on the wire. Inbound names are consumed by the session
// coordinator, outbound names are produced by it and the engines.
const (
	// client -> server
	MsgJoinLobby      = "join_lobby"
	MsgLeaveLobby     = "leave_lobby"
	MsgChangeGame     = "change_game"
	MsgEndRound       = "end_round"
	MsgRLGLMove       = "rlgl_move"
	MsgMove           = "move"
	MsgResetGame      = "reset_game"
	MsgRPSMove        = "rps_move"
	MsgCompletePuzzle = "complete_puzzle"
	MsgRequestPoints  = "request_points"

	// server -> client
	MsgPlayerJoined     = "player_joined"
	MsgPlayerLeft       = "player_left"
	MsgHostAssigned     = "host_assigned"
	MsgGameChanged      = "game_changed"
	MsgLightUpdate      = "light_update"
	MsgPlayerUpdate     = "player_update"
	MsgPlayerFinished   = "player_finished"
	MsgRoundOver        = "round_over"
	MsgGameOver         = "game_over"
	MsgTicTacToeStarted = "tic_tac_toe_started"
	MsgMoveMade         = "move_made"
	MsgGameCompleted    = "game_completed"
	MsgRPSStarted       = "rps_started"
	MsgRPSCompleted     = "rps_completed"
	MsgRPSDraw          = "rps_draw"
	MsgRPSRestart       = "rps_restart"
	MsgWaitingForMatch  = "waiting_for_match"
	MsgPuzzleComplete   = "puzzle_complete"
	MsgPointsUpdate     = "points_update"
	MsgError            = "error"
)

// Broadcaster delivers named events to one client or to all clients of the
// session, in the order sent. Delivery is fire-and-forget: the caller never
// blocks on it. The transport layer implements this.
type Broadcaster interface {
	Broadcast(event string, payload any)
	SendTo(playerID string, event string, payload any)
}

// PointsPayload is the body of a points_update event.
type PointsPayload struct {
	Points map[string]int `json:"points"`
}
