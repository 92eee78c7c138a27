package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(DefaultServerConfig(), log.New(io.Discard), randutil.New(42))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func postJSON(t *testing.T, url string, payload any) (int, map[string]any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestBlackjackTableUnconfigured(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := getJSON(t, ts.URL+"/api/v1/blackjack/table")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "awaiting_configuration", body["phase"])
	assert.Equal(t, true, body["requires_configuration"])
}

func TestBlackjackActionBeforeConfig(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/table/action",
		map[string]any{"action": "hit"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "configure")
}

func TestBlackjackConfigure(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/config",
		map[string]any{"bankroll": 500, "shoe_decks": 2})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "awaiting_bet", body["phase"])

	player := body["player"].(map[string]any)
	assert.EqualValues(t, 500, player["bankroll"])
	shoe := body["shoe"].(map[string]any)
	assert.EqualValues(t, 2, shoe["decks"])
	// min bet falls back to the session default
	limits := player["bet_limits"].(map[string]any)
	assert.EqualValues(t, 10, limits["min"])
}

func TestBlackjackConfigureInvalid(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/config",
		map[string]any{"bankroll": -50})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestBlackjackFullHandOverHTTP(t *testing.T) {
	_, ts := newTestServer(t)

	status, _ := postJSON(t, ts.URL+"/api/v1/blackjack/config",
		map[string]any{"bankroll": 1000, "shoe_decks": 4})
	require.Equal(t, http.StatusCreated, status)

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/table/action",
		map[string]any{"action": "place_bet", "amount": 100})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "initial_deal", body["phase"])
	assert.EqualValues(t, 4, body["pending_initial_deal"])

	for i := 0; i < 4; i++ {
		status, body = postJSON(t, ts.URL+"/api/v1/blackjack/table/action",
			map[string]any{"action": "deal"})
		require.Equal(t, http.StatusOK, status)
	}
	assert.EqualValues(t, 0, body["pending_initial_deal"])

	// next-hand is rejected while the hand is being played
	if body["phase"] == "player_action" {
		status, errBody := postJSON(t, ts.URL+"/api/v1/blackjack/table/next-hand", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, errBody["error"])
	}
}

func TestBlackjackUnknownAction(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/v1/blackjack/config", map[string]any{"bankroll": 1000})

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/table/action",
		map[string]any{"action": "teleport"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Unsupported action")
}

func TestBlackjackActionMissing(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postJSON(t, ts.URL+"/api/v1/blackjack/table/action", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestPokerTableAndActions(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := getJSON(t, ts.URL+"/api/v1/poker/table")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Table1", body["name"])
	players := body["players"].([]any)
	assert.Len(t, players, 8)
	assert.EqualValues(t, 150, body["pot"])

	// fold around to the big blind
	for i := 0; i < 7; i++ {
		status, body = postJSON(t, ts.URL+"/api/v1/poker/table/action",
			map[string]any{"action": "fold"})
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, true, body["hand_complete"])

	// further actions conflict until the next hand starts
	status, body = postJSON(t, ts.URL+"/api/v1/poker/table/action",
		map[string]any{"action": "fold"})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, body["error"])

	status, body = postJSON(t, ts.URL+"/api/v1/poker/table/next-hand", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["hand_number"])
	assert.Equal(t, false, body["hand_complete"])
}

func TestPokerInvalidRaise(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postJSON(t, ts.URL+"/api/v1/poker/table/action",
		map[string]any{"action": "raise", "amount": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebsocketReceivesSnapshots(t *testing.T) {
	s, ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.run(ctx)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the hub a moment to register the subscriber
	time.Sleep(50 * time.Millisecond)

	status, _ := postJSON(t, ts.URL+"/api/v1/blackjack/config",
		map[string]any{"bankroll": 1000})
	require.Equal(t, http.StatusCreated, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update map[string]any
	require.NoError(t, json.Unmarshal(msg, &update))
	assert.Equal(t, "blackjack", update["game"])
	state := update["state"].(map[string]any)
	assert.Equal(t, "awaiting_bet", state["phase"])
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Server.Address)
		assert.Equal(t, 8080, cfg.Server.Port)
		require.NotNil(t, cfg.Session)
		assert.Equal(t, 1000, cfg.Session.Bankroll)
	})

	t.Run("parses file and fills gaps", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trainer.hcl")
		content := `
server {
  address = "0.0.0.0"
  port    = 9090
}

session {
  bankroll           = 2500
  shoe_decks         = 6
  dealer_hits_soft17 = true
}
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadServerConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
		assert.Equal(t, 2500, cfg.Session.Bankroll)
		assert.Equal(t, 6, cfg.Session.ShoeDecks)
		assert.True(t, cfg.Session.DealerHitsSoft17)
		assert.Equal(t, 10, cfg.Session.MinBet, "unset values take defaults")
		require.NoError(t, cfg.Validate())
	})

	t.Run("validation rejects bad values", func(t *testing.T) {
		cfg := DefaultServerConfig()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())

		cfg = DefaultServerConfig()
		cfg.Session.CutCardRatio = 1.5
		assert.Error(t, cfg.Validate())
	})
}
