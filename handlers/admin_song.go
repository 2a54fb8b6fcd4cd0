package handlers

import (
	"github.com/gofiber/fiber/v2"

	"musix/models"
)

// AdminCreateSong adds a song to the library.
func (h *Handler) AdminCreateSong(c *fiber.Ctx) error {
	var in models.SongInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	song, err := h.Store.CreateSong(c.UserContext(), in.Song())
	if err != nil {
		return h.fail(c, err, "", "Could not create song.")
	}

	h.Log.Info("song created", "song", song.ID, "title", song.Title)
	return c.Status(fiber.StatusCreated).JSON(song)
}

// AdminUpdateSong applies a partial update. Fields missing from the body
// keep their current value.
func (h *Handler) AdminUpdateSong(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "songID", "song")
	if !ok {
		return err
	}

	var patch models.SongPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}

	current, err := h.Store.GetSong(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Song not found.", "Could not load song.")
	}

	in := patch.Apply(current)
	if ok, err := h.check(c, &in); !ok {
		return err
	}

	updated := in.Song()
	updated.ID = current.ID
	updated.PlayCount = current.PlayCount
	updated.CreatedAt = current.CreatedAt

	song, err := h.Store.UpdateSong(c.UserContext(), updated)
	if err != nil {
		return h.fail(c, err, "Song not found.", "Could not update song.")
	}
	h.Player.Refresh(song)

	return c.JSON(song)
}

// AdminDeleteSong removes a song from the library, its playlists and every
// player queue.
func (h *Handler) AdminDeleteSong(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "songID", "song")
	if !ok {
		return err
	}

	if err := h.Store.DeleteSong(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Song not found.", "Could not delete song.")
	}
	h.Player.Forget(id)

	h.Log.Info("song deleted", "song", id)
	return c.SendStatus(fiber.StatusNoContent)
}
