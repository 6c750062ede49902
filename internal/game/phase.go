package game

// Phase identifies which screen/minigame a session is currently on. The set
// is closed: change_game requests naming anything else are rejected.
type Phase string

const (
	PhaseLobby          Phase = "lobby"
	PhaseRLGLRound1     Phase = "rlgl_round1"
	PhaseRLGLRound2     Phase = "rlgl_round2"
	PhaseRLGLRound3     Phase = "rlgl_round3"
	PhaseTicTacToe      Phase = "tic_tac_toe"
	PhaseRPS            Phase = "rps"
	PhaseFinalPuzzle    Phase = "final_puzzle"
	PhaseRoundWinner    Phase = "round_winner"
	PhaseGameWinner     Phase = "game_winner"
	PhaseTournamentOver Phase = "tournament_over"
)

// Valid reports whether p names a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseRLGLRound1, PhaseRLGLRound2, PhaseRLGLRound3,
		PhaseTicTacToe, PhaseRPS, PhaseFinalPuzzle,
		PhaseRoundWinner, PhaseGameWinner, PhaseTournamentOver:
		return true
	}
	return false
}

// RLGLRound returns the round number (1..3) for the RLGL phases, 0 otherwise.
func (p Phase) RLGLRound() int {
	switch p {
	case PhaseRLGLRound1:
		return 1
	case PhaseRLGLRound2:
		return 2
	case PhaseRLGLRound3:
		return 3
	}
	return 0
}
