package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// WebSocket message types
const (
	MsgTypeConnected       = "connected"
	MsgTypeSnapshotUpdated = "snapshot:updated"
	MsgTypePing            = "ping"
	MsgTypePong            = "pong"
)

// WSMessage is the wire format for update notifications.
type WSMessage struct {
	Type        string `json:"type"`
	Timestamp   int64  `json:"timestamp"`
	RecordCount int    `json:"recordCount,omitempty"`
}

// UpdateHub pushes snapshot-updated events to connected dashboard clients
// so they can re-query without polling.
type UpdateHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	log      *zap.Logger
}

// NewUpdateHub creates a new UpdateHub.
func NewUpdateHub(log *zap.Logger) *UpdateHub {
	return &UpdateHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The dashboard frontend runs on a separate dev origin.
				return true
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
		log:   log,
	}
}

// HandleUpdates upgrades the connection and keeps it registered until the
// client goes away. The client only ever sends pings.
func (hub *UpdateHub) HandleUpdates(c echo.Context) error {
	ws, err := hub.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	hub.register(ws)
	defer hub.unregister(ws)

	hub.send(ws, WSMessage{Type: MsgTypeConnected, Timestamp: time.Now().UnixMilli()})

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.log.Debug("websocket closed", zap.Error(err))
			}
			return nil
		}
		if msg.Type == MsgTypePing {
			hub.send(ws, WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		}
	}
}

// BroadcastSnapshotUpdated notifies all connected clients that the snapshot
// has been swapped.
func (hub *UpdateHub) BroadcastSnapshotUpdated(snap *models.Snapshot) {
	msg := WSMessage{
		Type:        MsgTypeSnapshotUpdated,
		Timestamp:   time.Now().UnixMilli(),
		RecordCount: len(snap.Records),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ws := range hub.conns {
		if err := ws.WriteJSON(msg); err != nil {
			hub.log.Debug("websocket write failed, dropping client", zap.Error(err))
			ws.Close()
			delete(hub.conns, ws)
		}
	}
}

func (hub *UpdateHub) register(ws *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.conns[ws] = struct{}{}
}

func (hub *UpdateHub) unregister(ws *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.conns, ws)
}

// send serializes writes through hub.mu; gorilla connections do not allow
// concurrent writers.
func (hub *UpdateHub) send(ws *websocket.Conn, msg WSMessage) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if err := ws.WriteJSON(msg); err != nil {
		hub.log.Debug("websocket send failed", zap.Error(err))
	}
}
