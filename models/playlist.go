package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a row of t_playlists with its songs in position order.
type Playlist struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Songs       []Song    `json:"songs"`
}

// PlaylistInput is the body accepted by POST /playlists.
type PlaylistInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1024"`
}

// PlaylistSongInput is the body accepted by add-song and remove-song.
type PlaylistSongInput struct {
	SongID uuid.UUID `json:"song_id" validate:"required"`
}
