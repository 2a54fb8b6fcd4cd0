package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"musix/models"
	"musix/player"
	"musix/store"
)

type queueRequest struct {
	PlaylistID *uuid.UUID `json:"playlist_id"`
}

type playRequest struct {
	Index *int `json:"index"`
}

type seekRequest struct {
	Position *int `json:"position" validate:"required,gte=0"`
}

// GetPlayer returns the caller's playback queue.
func (h *Handler) GetPlayer(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}
	return c.JSON(h.Player.Snapshot(userID))
}

// LoadQueue fills the queue from a playlist, or from the whole library when
// no playlist_id is given. The first song is selected but not started.
func (h *Handler) LoadQueue(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	var in queueRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
		}
	}

	var (
		songs  []models.Song
		source = player.LibrarySource
	)
	if in.PlaylistID != nil {
		playlist, err := h.Store.GetPlaylist(c.UserContext(), *in.PlaylistID)
		if err != nil {
			return h.fail(c, err, "Playlist not found.", "Could not load playlist.")
		}
		songs = playlist.Songs
		source = player.PlaylistSource(playlist.ID)
	} else {
		songs, _, err = h.Store.ListSongs(c.UserContext(), models.SongFilter{})
		if err != nil {
			return h.fail(c, err, "", "Could not list songs.")
		}
	}

	snap, _ := h.Player.Do(userID, func(q *player.Queue) error {
		q.Load(songs, source)
		return nil
	})
	return c.JSON(snap)
}

// Play starts the song at index, or resumes the selected song when no index
// is given.
func (h *Handler) Play(c *fiber.Ctx) error {
	var in playRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
		}
	}

	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		if in.Index != nil {
			_, err := q.Select(*in.Index, true)
			return err == nil, err
		}
		fresh := q.State() == player.StateIdle || q.State() == player.StateEnded
		return fresh, q.Play()
	})
}

// Pause pauses playback.
func (h *Handler) Pause(c *fiber.Ctx) error {
	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		return false, q.Pause()
	})
}

// TogglePlay switches between playing and paused.
func (h *Handler) TogglePlay(c *fiber.Ctx) error {
	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		fresh := q.State() == player.StateIdle || q.State() == player.StateEnded
		return fresh, q.Toggle()
	})
}

// Next skips to the following song.
func (h *Handler) Next(c *fiber.Ctx) error {
	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		_, err := q.Next()
		return err == nil, err
	})
}

// Prev goes back to the preceding song.
func (h *Handler) Prev(c *fiber.Ctx) error {
	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		_, err := q.Prev()
		return err == nil, err
	})
}

// Ended reports that the current song finished playing.
func (h *Handler) Ended(c *fiber.Ctx) error {
	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		_, err := q.Ended()
		return err == nil, err
	})
}

// Seek moves the play position of the current song, in seconds.
func (h *Handler) Seek(c *fiber.Ctx) error {
	var in seekRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	return h.playerAction(c, func(q *player.Queue) (bool, error) {
		next, err := q.Seek(*in.Position)
		return next != nil, err
	})
}

// playerAction runs fn on the caller's queue. When fn reports that a song
// started from the beginning its play count is incremented.
func (h *Handler) playerAction(c *fiber.Ctx, fn func(q *player.Queue) (bool, error)) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	var started bool
	snap, err := h.Player.Do(userID, func(q *player.Queue) error {
		var err error
		started, err = fn(q)
		return err
	})
	switch {
	case errors.Is(err, player.ErrEmptyQueue):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Queue is empty.", "player": snap})
	case errors.Is(err, player.ErrOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Song index out of range.", "player": snap})
	case err != nil:
		return h.fail(c, err, "", "Player error.")
	}

	if started && snap.Current != nil {
		snap = h.countPlay(c, userID, snap.Current.ID, snap)
	}
	return c.JSON(snap)
}

func (h *Handler) countPlay(c *fiber.Ctx, userID, songID uuid.UUID, snap player.Snapshot) player.Snapshot {
	ctx := c.UserContext()
	if err := h.Store.IncrementPlayCount(ctx, songID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Log.Warn("play count not updated", "song", songID, "err", err)
		}
		return snap
	}

	song, err := h.Store.GetSong(ctx, songID)
	if err != nil {
		h.Log.Warn("song reload failed", "song", songID, "err", err)
		return snap
	}
	h.Player.Refresh(song)
	return h.Player.Snapshot(userID)
}
