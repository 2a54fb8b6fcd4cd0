package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"musix/models"
)

// CreatePlaylist creates a playlist owned by the logged-in user.
func (h *Handler) CreatePlaylist(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	var in models.PlaylistInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	playlist, err := h.Store.CreatePlaylist(c.UserContext(), models.Playlist{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		UserID:      userID,
	})
	if err != nil {
		return h.fail(c, err, "", "Could not create playlist.")
	}

	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// GetUserPlaylists returns the logged-in user's playlists with their songs.
func (h *Handler) GetUserPlaylists(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	playlists, err := h.Store.ListPlaylists(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err, "", "Could not list playlists.")
	}
	return c.JSON(playlists)
}

// GetPlaylistByID returns a playlist and its songs in order.
func (h *Handler) GetPlaylistByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "playlistID", "playlist")
	if !ok {
		return err
	}

	playlist, err := h.Store.GetPlaylist(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Playlist not found.", "Could not load playlist.")
	}
	return c.JSON(playlist)
}

// DeletePlaylist deletes a playlist. Only its owner or an admin may do so.
func (h *Handler) DeletePlaylist(c *fiber.Ctx) error {
	playlist, ok, err := h.ownedPlaylist(c)
	if !ok {
		return err
	}

	if err := h.Store.DeletePlaylist(c.UserContext(), playlist.ID); err != nil {
		return h.fail(c, err, "Playlist not found.", "Could not delete playlist.")
	}
	return c.JSON(fiber.Map{"message": "Playlist deleted."})
}

// AddSongToPlaylist appends a song to the end of a playlist. Adding a song
// that is already present leaves the playlist unchanged.
func (h *Handler) AddSongToPlaylist(c *fiber.Ctx) error {
	playlist, ok, err := h.ownedPlaylist(c)
	if !ok {
		return err
	}

	var in models.PlaylistSongInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	if err := h.Store.AddSongToPlaylist(c.UserContext(), playlist.ID, in.SongID); err != nil {
		return h.fail(c, err, "Song not found.", "Could not add song to playlist.")
	}
	return h.respondPlaylist(c, playlist.ID, "Song added to playlist.")
}

// RemoveSongFromPlaylist removes a song from a playlist.
func (h *Handler) RemoveSongFromPlaylist(c *fiber.Ctx) error {
	playlist, ok, err := h.ownedPlaylist(c)
	if !ok {
		return err
	}

	var in models.PlaylistSongInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	if err := h.Store.RemoveSongFromPlaylist(c.UserContext(), playlist.ID, in.SongID); err != nil {
		return h.fail(c, err, "Song is not in this playlist.", "Could not remove song from playlist.")
	}
	return h.respondPlaylist(c, playlist.ID, "Song removed from playlist.")
}

func (h *Handler) respondPlaylist(c *fiber.Ctx, id uuid.UUID, message string) error {
	playlist, err := h.Store.GetPlaylist(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Playlist not found.", "Could not load playlist.")
	}
	return c.JSON(fiber.Map{"message": message, "playlist": playlist})
}

// ownedPlaylist loads the :playlistID playlist and checks that the caller
// owns it or is an admin.
func (h *Handler) ownedPlaylist(c *fiber.Ctx) (models.Playlist, bool, error) {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return models.Playlist{}, false, err
	}
	id, ok, err := paramID(c, "playlistID", "playlist")
	if !ok {
		return models.Playlist{}, false, err
	}

	playlist, err := h.Store.GetPlaylist(c.UserContext(), id)
	if err != nil {
		return models.Playlist{}, false, h.fail(c, err, "Playlist not found.", "Could not load playlist.")
	}
	if playlist.UserID == userID {
		return playlist, true, nil
	}

	role, err := h.Store.UserRole(c.UserContext(), userID)
	if err != nil {
		return models.Playlist{}, false, h.fail(c, err, "User not found.", "Could not check permissions.")
	}
	if role != models.RoleAdmin {
		return models.Playlist{}, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this playlist."})
	}
	return playlist, true, nil
}
