package signal

import (
	"encoding/json"
	"errors"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
)

func (ctl *Controller) handleAddTracks(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.AddTracksRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad add-to-room-playlist payload"))
		return
	}
	if _, err := ctl.Router.AddTracks(sid, req.RoomCode, req.Tracks); err != nil {
		ctl.fail(c, app.EvtError, err)
	}
}

func (ctl *Controller) handleRemoveTracks(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.RemoveTracksRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad remove-from-room-playlist payload"))
		return
	}
	if err := ctl.Router.RemoveTracks(sid, req); err != nil {
		ctl.fail(c, app.EvtError, err)
	}
}
