package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"musix/models"
	"musix/store"
)

// GetSongs lists songs with pagination and optional search, genre and
// favorite filters.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := h.PageSize

	filter := models.SongFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		Genre:         strings.TrimSpace(c.Query("genre")),
		FavoritesOnly: c.QueryBool("favorite", false),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	songs, total, err := h.Store.ListSongs(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err, "", "Could not list songs.")
	}

	return c.JSON(fiber.Map{
		"songs":     songs,
		"total":     total,
		"page":      page,
		"last_page": store.LastPage(total, limit),
	})
}

// GetFavoriteSongs returns every song flagged as favorite.
func (h *Handler) GetFavoriteSongs(c *fiber.Ctx) error {
	songs, _, err := h.Store.ListSongs(c.UserContext(), models.SongFilter{FavoritesOnly: true})
	if err != nil {
		return h.fail(c, err, "", "Could not list favorite songs.")
	}
	return c.JSON(songs)
}

// GetSongByID returns a single song.
func (h *Handler) GetSongByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "songID", "song")
	if !ok {
		return err
	}

	song, err := h.Store.GetSong(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Song not found.", "Could not load song.")
	}
	return c.JSON(song)
}

// ToggleFavorite flips the song's favorite flag and returns the song.
func (h *Handler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "songID", "song")
	if !ok {
		return err
	}

	song, err := h.Store.ToggleFavorite(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Song not found.", "Could not update favorite.")
	}
	h.Player.Refresh(song)

	return c.JSON(song)
}

// GetStats returns library statistics.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.Store.Stats(c.UserContext())
	if err != nil {
		return h.fail(c, err, "", "Could not compute statistics.")
	}
	return c.JSON(stats)
}
