package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

func newHubServer(t *testing.T, hub *UpdateHub) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	e := echo.New()
	e.GET("/api/ws/updates", hub.HandleUpdates)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/updates"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return srv, ws
}

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg WSMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("reading websocket message: %v", err)
	}
	return msg
}

func TestUpdateHubConnectAndPing(t *testing.T) {
	hub := NewUpdateHub(zap.NewNop())
	_, ws := newHubServer(t, hub)

	msg := readMessage(t, ws)
	assert.Equal(t, MsgTypeConnected, msg.Type)
	assert.NotZero(t, msg.Timestamp)

	assert.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePing}))
	msg = readMessage(t, ws)
	assert.Equal(t, MsgTypePong, msg.Type)
}

func TestUpdateHubBroadcast(t *testing.T) {
	hub := NewUpdateHub(zap.NewNop())
	_, ws := newHubServer(t, hub)

	// Drain the connect greeting first.
	assert.Equal(t, MsgTypeConnected, readMessage(t, ws).Type)

	snap := &models.Snapshot{Records: make([]models.KycRecord, 7)}
	hub.BroadcastSnapshotUpdated(snap)

	msg := readMessage(t, ws)
	assert.Equal(t, MsgTypeSnapshotUpdated, msg.Type)
	assert.Equal(t, 7, msg.RecordCount)
}

func TestUpdateHubDropsClosedClients(t *testing.T) {
	hub := NewUpdateHub(zap.NewNop())
	_, ws := newHubServer(t, hub)

	assert.Equal(t, MsgTypeConnected, readMessage(t, ws).Type)
	ws.Close()

	// Broadcasting to a closed connection must not panic and must not leave
	// the dead connection registered.
	hub.BroadcastSnapshotUpdated(&models.Snapshot{})
	hub.BroadcastSnapshotUpdated(&models.Snapshot{})

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.LessOrEqual(t, len(hub.conns), 1)
}
