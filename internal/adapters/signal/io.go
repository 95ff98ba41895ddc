package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
)

// Envelope is the wire frame in both directions:
// {"type": "<event>", "data": {...}}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid domain.ParticipantID, c *WsConn) {
	if ctl.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.ReadLimit)
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleEvent(sid, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(sid domain.ParticipantID, c *WsConn, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad envelope")
		c.Emit(app.EvtError, app.ErrorPayload{Message: "malformed event"})
		return
	}
	switch env.Type {
	case app.EvtCreateRoom:
		ctl.handleCreateRoom(sid, c, env.Data)
	case app.EvtJoinRoom:
		ctl.handleJoinRoom(sid, c, env.Data)
	case app.EvtUpdateSettings:
		ctl.handleUpdateSettings(sid, c, env.Data)
	case app.EvtAddTracks:
		ctl.handleAddTracks(sid, c, env.Data)
	case app.EvtRemoveTracks:
		ctl.handleRemoveTracks(sid, c, env.Data)
	case app.EvtSyncPlayback:
		ctl.handleSyncPlayback(sid, c, env.Data)
	case app.EvtChatMessage:
		ctl.handleChat(sid, c, env.Data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		c.Emit(app.EvtError, app.ErrorPayload{Message: "unknown event type"})
	}
}

// fail maps a router error to the sender-only error event. Precondition
// failures never terminate the connection.
func (ctl *Controller) fail(c *WsConn, event string, err error) {
	c.Emit(event, app.ErrorPayload{Message: err.Error()})
}

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, errors.New("missing payload")
	}
	err := json.Unmarshal(data, &v)
	return v, err
}
