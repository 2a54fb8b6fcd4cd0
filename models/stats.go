package models

// GenreCount is the number of songs sharing a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats summarises the library.
type Stats struct {
	TotalSongs     int          `json:"total_songs"`
	FavoriteSongs  int          `json:"favorite_songs"`
	TotalDuration  int          `json:"total_duration"`
	TotalMinutes   int          `json:"total_minutes"`
	TotalPlaylists int          `json:"total_playlists"`
	Genres         []GenreCount `json:"genres"`
}
