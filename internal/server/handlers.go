package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
	"github.com/majkelowskiii/jack-of-all-trades/internal/holdem"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeBlackjackError maps engine errors onto HTTP statuses: an
// unconfigured session conflicts, a rejected action is a bad request.
func (s *Server) writeBlackjackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, blackjack.ErrMissingConfiguration):
		s.writeError(w, http.StatusConflict, err)
	case blackjack.IsInvalidAction(err):
		s.writeError(w, http.StatusBadRequest, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

// publishBlackjack broadcasts the post-action snapshot to websocket
// subscribers and returns it for the HTTP response.
func (s *Server) publishBlackjack() any {
	snap := s.blackjack.Snapshot()
	if msg, err := json.Marshal(map[string]any{"game": "blackjack", "state": snap}); err == nil {
		s.broadcast(msg)
	}
	return snap
}

func (s *Server) publishPoker() *holdem.Snapshot {
	snap := s.holdem.Snapshot()
	if msg, err := json.Marshal(map[string]any{"game": "poker", "state": snap}); err == nil {
		s.broadcast(msg)
	}
	return snap
}

// -- blackjack ----------------------------------------------------------

func (s *Server) handleBlackjackTable(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.blackjack.Snapshot())
}

type blackjackConfigRequest struct {
	Bankroll         *int     `json:"bankroll"`
	ShoeDecks        *int     `json:"shoe_decks"`
	MinBet           *int     `json:"min_bet"`
	MaxBet           *int     `json:"max_bet"`
	DealerHitsSoft17 *bool    `json:"dealer_hits_soft17"`
	CutCardRatio     *float64 `json:"cut_card_ratio"`
}

func (s *Server) handleBlackjackConfig(w http.ResponseWriter, r *http.Request) {
	var req blackjackConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	// unset fields fall back to the configured session defaults
	cfg := s.cfg.BlackjackConfig()
	if req.Bankroll != nil {
		cfg.Bankroll = *req.Bankroll
	}
	if req.ShoeDecks != nil {
		cfg.ShoeDecks = *req.ShoeDecks
	}
	if req.MinBet != nil {
		cfg.MinBet = *req.MinBet
	}
	if req.MaxBet != nil {
		cfg.MaxBet = *req.MaxBet
	}
	if req.DealerHitsSoft17 != nil {
		cfg.DealerHitsSoft17 = *req.DealerHitsSoft17
	}
	if req.CutCardRatio != nil {
		cfg.CutCardRatio = *req.CutCardRatio
	}

	if err := s.blackjack.Configure(cfg); err != nil {
		s.writeBlackjackError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.publishBlackjack())
}

type actionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (s *Server) handleBlackjackAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Action == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("Action is required."))
		return
	}

	op, err := blackjack.ParseOp(req.Action)
	if err != nil {
		s.writeBlackjackError(w, err)
		return
	}
	if err := s.blackjack.Apply(blackjack.Action{Op: op, Amount: req.Amount}); err != nil {
		s.writeBlackjackError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.publishBlackjack())
}

func (s *Server) handleBlackjackNextHand(w http.ResponseWriter, r *http.Request) {
	if err := s.blackjack.StartNextHand(); err != nil {
		s.writeBlackjackError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.publishBlackjack())
}

// -- poker --------------------------------------------------------------

func (s *Server) writePokerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, holdem.ErrHandComplete):
		s.writeError(w, http.StatusConflict, err)
	case holdem.IsInvalidAction(err):
		s.writeError(w, http.StatusBadRequest, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handlePokerTable(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.holdem.Snapshot())
}

func (s *Server) handlePokerAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Action == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("Action field is required"))
		return
	}

	op, err := holdem.ParseOp(req.Action)
	if err != nil {
		s.writePokerError(w, err)
		return
	}
	if err := s.holdem.Apply(holdem.Action{Op: op, Amount: req.Amount}); err != nil {
		s.writePokerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.publishPoker())
}

func (s *Server) handlePokerNextHand(w http.ResponseWriter, r *http.Request) {
	s.holdem.NextHand()
	s.writeJSON(w, http.StatusOK, s.publishPoker())
}
