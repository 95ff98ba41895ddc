// Package signal is the websocket transport adapter: it upgrades the
// connection, decodes the event envelope, and hands everything to the event
// router. All room semantics live behind the router; this package only does
// I/O.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Router     *app.Router
	ReadLimit  int64
	PingPeriod time.Duration
	// CreateLimiter throttles room creation per connection identity.
	CreateLimiter *RateLimiter
}

func NewController(router *app.Router, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Router:        router,
		ReadLimit:     readLimit,
		PingPeriod:    pingPeriod,
		CreateLimiter: NewRateLimiter(5, time.Minute),
	}
}

// WsConn wraps one websocket with a buffered send queue. TrySend never
// blocks; a full queue is reported as backpressure and the frame dropped.
type WsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// Emit satisfies app.EventSink: wrap the payload in the wire envelope and
// queue it.
func (c *WsConn) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("emit marshal")
		return
	}
	b, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("emit marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("event", event).Msg("emit dropped")
	}
}

// HandleWS upgrades the request and runs the connection until it dies. The
// identity middleware has already put the participant id and display name on
// the gin context.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	sid := domain.ParticipantID(c.GetString("participant_id"))
	if sid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	displayName := c.GetString("display_name")
	if q := c.Query("displayName"); q != "" {
		displayName = q
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("upgrade failed")
		return
	}
	conn := &WsConn{conn: ws, send: make(chan []byte, 256)}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctl.Router.Connect(sid, displayName, conn)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("connected")

	go ctl.writePump(connCtx, conn)
	ctl.readPump(connCtx, sid, conn)

	// readPump returned: the connection is gone. Disconnect is idempotent,
	// so a transport double-report is harmless.
	ctl.Router.Disconnect(sid)
	conn.Close()
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("disconnected")
}
