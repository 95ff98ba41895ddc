package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
)

func (ctl *Controller) handleCreateRoom(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.CreateRoomRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad create-room payload"))
		return
	}
	if ctl.CreateLimiter != nil && !ctl.CreateLimiter.Allow(sid) {
		ctl.fail(c, app.EvtError, errors.New("too many rooms created, slow down"))
		return
	}
	snap, err := ctl.Router.CreateRoom(sid, req)
	if err != nil {
		ctl.fail(c, app.EvtError, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(snap.Code)).Msg("create-room")
}

func (ctl *Controller) handleJoinRoom(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.JoinRoomRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtJoinError, errors.New("bad join-room payload"))
		return
	}
	if _, err := ctl.Router.JoinRoom(sid, req); err != nil {
		// Join failures have their own event so clients can distinguish a
		// failed join from errors in an established session.
		ctl.fail(c, app.EvtJoinError, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", req.RoomCode).Msg("join-room")
}

func (ctl *Controller) handleUpdateSettings(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.UpdateSettingsRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad update-room-settings payload"))
		return
	}
	if err := ctl.Router.UpdateSettings(sid, req); err != nil {
		ctl.fail(c, app.EvtError, err)
	}
}
