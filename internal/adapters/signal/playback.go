package signal

import (
	"encoding/json"
	"errors"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
)

func (ctl *Controller) handleSyncPlayback(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.SyncPlaybackRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad sync-playback payload"))
		return
	}
	if err := ctl.Router.SyncPlayback(sid, req); err != nil {
		ctl.fail(c, app.EvtError, err)
	}
}

func (ctl *Controller) handleChat(sid domain.ParticipantID, c *WsConn, data json.RawMessage) {
	req, err := decode[app.ChatRequest](data)
	if err != nil {
		ctl.fail(c, app.EvtError, errors.New("bad chat-message payload"))
		return
	}
	if req.Message == "" {
		ctl.fail(c, app.EvtError, errors.New("empty message"))
		return
	}
	if err := ctl.Router.Chat(sid, req); err != nil {
		ctl.fail(c, app.EvtError, err)
	}
}
