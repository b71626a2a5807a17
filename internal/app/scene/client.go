/*
Package scene contains the core logic for real-time collaborative scene editing.

This file defines the Client struct, representing one active WebSocket
connection and its session state: connection ID, display name, and current room
membership. It runs the ReadPump and WritePump message loops and dispatches
inbound events to the Registry and the current Room.
*/
package scene

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"scenesync/internal/pkg/logx"
	"scenesync/internal/pkg/randx"
	"scenesync/pkg/wire"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// capacity of the per-client outbound queue.
	sendQueueSize = 256
)

// Client represents one live connection's session.
//
// The session moves through three states: unjoined (room is nil), in-room, and
// disconnected. room and name are mutated only through Registry.Join and
// Registry.Leave, both invoked from this client's own read goroutine, so the
// session fields need no lock of their own.
type Client struct {
	// registry owns the room lifecycle this client participates in.
	registry *Registry

	// underlying WebSocket connection.
	conn *websocket.Conn

	// id is the opaque connection identifier, stable for the connection's lifetime.
	id string

	// name is the display name, defaulted from the connection ID until a join
	// supplies one.
	name string

	// room is the current room, nil while unjoined.
	room *Room

	// send is the buffered outbound queue drained by WritePump.
	send chan []byte

	// closeOnce guarantees the leave sequence runs exactly once even if the
	// transport fires multiple disconnect signals.
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection and assigns its
// connection ID.
func NewClient(registry *Registry, conn *websocket.Conn) *Client {
	id := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", id).
		Logger()

	return &Client{
		registry: registry,
		conn:     conn,
		id:       id,
		name:     randx.DefaultDisplayName(id),
		send:     make(chan []byte, sendQueueSize),
		logger:   clientLogger,
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Name returns the current display name.
func (c *Client) Name() string {
	return c.name
}

// ReadPump reads messages from the WebSocket connection until it closes,
// dispatching each inbound event. It handles heartbeats (Pong) and performs
// disconnect cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.dispatch(messageBytes)
	}
}

// cleanupOnDisconnect runs the leave sequence and tears the connection down.
// Guarded by closeOnce so repeated disconnect signals are harmless.
func (c *Client) cleanupOnDisconnect() {
	c.closeOnce.Do(func() {
		c.logger.Info().Msg("Client connection cleanup starting.")

		c.registry.Leave(c)

		// Ends WritePump; no broadcast can reach this queue after Leave.
		close(c.send)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	})
}

// closeConn force-closes the underlying connection, e.g. during server
// shutdown. The read pump then runs its normal cleanup.
func (c *Client) closeConn() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// dispatch routes one inbound frame. Malformed events (invalid JSON, missing
// required fields, room-scoped events from an unjoined connection, unknown
// types) are dropped with a warning; they are never broadcast and never fatal.
func (c *Client) dispatch(messageBytes []byte) {
	var env wire.Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch env.Type {
	case wire.TypeJoinRoom:
		c.handleJoin(env.Payload)

	case wire.TypeGetRoomList:
		c.handleRoomList()

	case wire.TypeShapeAdded:
		c.handleShapeAdded(env.Payload)

	case wire.TypeShapeMoved:
		c.handleShapeMoved(env.Payload)

	case wire.TypeShapeDeleted:
		c.handleShapeDeleted(env.Payload)

	case wire.TypeCursorMove:
		c.handleCursorMove(env.Payload)

	case wire.TypeUserAction:
		c.handleUserAction(env.Payload)

	default:
		c.logger.Warn().Str("msg_type", string(env.Type)).Msg("Client sent unsupported message type")
	}
}

func (c *Client) handleJoin(payload json.RawMessage) {
	var p wire.JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid join-room payload")
		return
	}

	if p.RoomName == "" {
		c.logger.Warn().Msg("Client sent join-room without roomName")
		return
	}

	displayName := p.UserName
	if displayName == "" {
		displayName = randx.DefaultDisplayName(c.id)
	}

	c.registry.Join(c, p.RoomName, displayName)
}

func (c *Client) handleRoomList() {
	frame, err := wire.NewMessage(wire.TypeRoomList, c.registry.List())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build room-list frame.")
		return
	}

	c.enqueue(frame)
}

func (c *Client) handleShapeAdded(payload json.RawMessage) {
	if c.room == nil {
		c.logger.Warn().Msg("Ignoring shape-added from unjoined connection")
		return
	}

	var shape wire.Shape
	if err := json.Unmarshal(payload, &shape); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid shape-added payload")
		return
	}

	if shape.ID == "" || shape.Kind == "" {
		c.logger.Warn().Msg("Client sent shape-added without id or type")
		return
	}

	c.room.AddShape(c, shape)
}

func (c *Client) handleShapeMoved(payload json.RawMessage) {
	if c.room == nil {
		c.logger.Warn().Msg("Ignoring shape-moved from unjoined connection")
		return
	}

	// Position is a pointer so an absent field is distinguishable from the origin.
	var p struct {
		ID       string     `json:"id"`
		Position *wire.Vec3 `json:"position"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid shape-moved payload")
		return
	}

	if p.ID == "" || p.Position == nil {
		c.logger.Warn().Msg("Client sent shape-moved without id or position")
		return
	}

	c.room.MoveShape(c, p.ID, *p.Position)
}

func (c *Client) handleShapeDeleted(payload json.RawMessage) {
	if c.room == nil {
		c.logger.Warn().Msg("Ignoring shape-deleted from unjoined connection")
		return
	}

	var p wire.DeletePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid shape-deleted payload")
		return
	}

	if p.ID == "" {
		c.logger.Warn().Msg("Client sent shape-deleted without id")
		return
	}

	c.room.DeleteShape(c, p.ID)
}

func (c *Client) handleCursorMove(payload json.RawMessage) {
	if c.room == nil {
		c.logger.Warn().Msg("Ignoring cursor-move from unjoined connection")
		return
	}

	var p struct {
		Position *wire.Vec3 `json:"position"`
		Color    string     `json:"color"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid cursor-move payload")
		return
	}

	if p.Position == nil {
		c.logger.Warn().Msg("Client sent cursor-move without position")
		return
	}

	c.room.RelayCursor(c, *p.Position, p.Color)
}

func (c *Client) handleUserAction(payload json.RawMessage) {
	if c.room == nil {
		c.logger.Warn().Msg("Ignoring user-action from unjoined connection")
		return
	}

	var p wire.ActionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid user-action payload")
		return
	}

	if p.Action == "" {
		c.logger.Warn().Msg("Client sent user-action without action")
		return
	}

	c.room.RelayAction(c, p.Action, p.Target)
}

// enqueue queues one outbound frame without blocking. A full queue drops the
// frame; a slow recipient must never stall the event path.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive. It exits when the send queue closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Info().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
