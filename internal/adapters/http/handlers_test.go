package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/core"
	"github.com/pnowak/auxparty/internal/domain"
	"github.com/pnowak/auxparty/internal/library"
)

const testSecret = "test-secret"

func TestGuestLoginIssuesUsableToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/guest", GuestLogin(testSecret, time.Hour))

	body, _ := json.Marshal(GuestRequest{DisplayName: "Dana"})
	req, _ := http.NewRequest("POST", "/auth/guest", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp GuestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := parseIdentity(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.ParticipantID, claims.Subject)
	assert.Equal(t, "Dana", claims.DisplayName)

	// A token signed with another secret is rejected.
	_, err = parseIdentity(resp.Token, "other-secret")
	assert.Error(t, err)
}

func TestGuestLoginRequiresDisplayName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/guest", GuestLogin(testSecret, time.Hour))

	req, _ := http.NewRequest("POST", "/auth/guest", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rt := app.NewRouter(core.NewRegistry(), app.NewSessionRegistry())
	room := rt.Rooms.Create("Jam", "", domain.NewParticipant("h", "Host"), nil)

	r := gin.New()
	r.GET("/rooms/:code", RoomInfo(rt))

	req, _ := http.NewRequest("GET", "/rooms/"+string(room.Code()), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snap core.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "Jam", snap.Name)
	assert.Equal(t, room.Code(), snap.Code)

	req, _ = http.NewRequest("GET", "/rooms/NOSUCH", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamTrackServesRanges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rt := app.NewRouter(core.NewRegistry(), app.NewSessionRegistry())
	store, err := library.NewStore(t.TempDir())
	require.NoError(t, err)

	room := rt.Rooms.Create("Jam", "", domain.NewParticipant("h", "Host"), nil)
	_, err = room.AddTracks("h", []domain.Track{{ID: "t1", Title: "Song"}})
	require.NoError(t, err)

	locator, err := store.Save(strings.NewReader("0123456789"))
	require.NoError(t, err)
	require.NoError(t, room.SetLocator("t1", locator))

	r := gin.New()
	r.GET("/rooms/:code/tracks/:trackId/audio", StreamTrack(rt, store))

	req, _ := http.NewRequest("GET", "/rooms/"+string(room.Code())+"/tracks/t1/audio", nil)
	req.Header.Set("Range", "bytes=2-5")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())

	// Track without audio and unknown track both 404.
	_, err = room.AddTracks("h", []domain.Track{{ID: "t2", Title: "No audio"}})
	require.NoError(t, err)
	req, _ = http.NewRequest("GET", "/rooms/"+string(room.Code())+"/tracks/t2/audio", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest("GET", "/rooms/"+string(room.Code())+"/tracks/none/audio", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
