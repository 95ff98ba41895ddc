package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/domain"
	"github.com/pnowak/auxparty/internal/library"
)

// UploadTrack accepts a multipart audio upload for a room, stores the bytes
// under an opaque locator, and appends the track to the room playlist
// through the router so the room gets the playlist broadcast. Membership is
// enforced by the router exactly like a websocket playlist edit.
func UploadTrack(router *app.Router, store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := domain.ParticipantID(c.GetString("participant_id"))
		code := c.Param("code")

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio file"})
			return
		}
		defer file.Close()

		locator, err := store.Save(file)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("audio save failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store audio"})
			return
		}

		duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)
		track := domain.Track{
			ID:       uuid.NewString(),
			Title:    c.PostForm("title"),
			Artist:   c.PostForm("artist"),
			Album:    c.PostForm("album"),
			Duration: duration,
			Locator:  locator,
		}.Normalized()
		if track.Title == "Untitled" && header.Filename != "" {
			track.Title = header.Filename
		}

		playlist, err := router.AddTracks(sid, code, []domain.Track{track})
		if err != nil {
			// The playlist rejected the track, so the stored bytes are
			// unreachable; drop them.
			_ = store.Remove(locator)
			status := statusFor(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"track": track, "playlist": playlist})
	}
}

// StreamTrack serves a track's audio honoring Range requests, so clients can
// seek without downloading the whole file.
func StreamTrack(router *app.Router, store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := domain.RoomCode(c.Param("code"))
		trackID := c.Param("trackId")

		room, ok := router.Rooms.Get(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		track, err := room.TrackByID(trackID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
			return
		}
		if track.Locator == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "track has no audio"})
			return
		}

		f, modTime, err := store.Open(track.Locator)
		if err != nil {
			if errors.Is(err, library.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "audio not found"})
				return
			}
			log.Error().Err(err).Str("module", "adapters.http").Str("locator", track.Locator).Msg("audio open failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open audio"})
			return
		}
		defer f.Close()

		http.ServeContent(c.Writer, c.Request, track.Title, modTime, f)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotAMember):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
