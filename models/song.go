package models

import (
	"time"

	"github.com/google/uuid"
)

// Song is a row of t_songs.
type Song struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Genre     string    `json:"genre"`
	Year      *int      `json:"year"`
	Duration  int       `json:"duration"`
	URL       string    `json:"url"`
	Favorite  bool      `json:"favorite"`
	PlayCount int       `json:"play_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongInput is the body accepted by POST /songs.
type SongInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Artist   string `json:"artist" validate:"required,max=255"`
	Genre    string `json:"genre" validate:"max=64"`
	Year     *int   `json:"year" validate:"omitempty,gte=1000,lte=9999"`
	Duration int    `json:"duration" validate:"gte=0"`
	URL      string `json:"url" validate:"required,max=2048"`
	Favorite bool   `json:"favorite"`
}

// Song builds a new Song from the input.
func (in SongInput) Song() Song {
	return Song{
		Title:    in.Title,
		Artist:   in.Artist,
		Genre:    in.Genre,
		Year:     in.Year,
		Duration: in.Duration,
		URL:      in.URL,
		Favorite: in.Favorite,
	}
}

// SongPatch is the body accepted by PUT /songs/:id. Nil fields keep their value.
type SongPatch struct {
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Genre    *string `json:"genre"`
	Year     *int    `json:"year"`
	Duration *int    `json:"duration"`
	URL      *string `json:"url"`
	Favorite *bool   `json:"favorite"`
}

// Apply merges the patch into s and returns the merged input for validation.
func (p SongPatch) Apply(s Song) SongInput {
	in := SongInput{
		Title:    s.Title,
		Artist:   s.Artist,
		Genre:    s.Genre,
		Year:     s.Year,
		Duration: s.Duration,
		URL:      s.URL,
		Favorite: s.Favorite,
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Artist != nil {
		in.Artist = *p.Artist
	}
	if p.Genre != nil {
		in.Genre = *p.Genre
	}
	if p.Year != nil {
		in.Year = p.Year
	}
	if p.Duration != nil {
		in.Duration = *p.Duration
	}
	if p.URL != nil {
		in.URL = *p.URL
	}
	if p.Favorite != nil {
		in.Favorite = *p.Favorite
	}
	return in
}

// SongFilter narrows ListSongs. A zero Limit means no limit.
type SongFilter struct {
	Search        string
	Genre         string
	FavoritesOnly bool
	Limit         int
	Offset        int
}
