// Package store defines the persistence contract shared by the postgres
// and sqlite backends.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"musix/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("record already exists")
	ErrInvalidRole = errors.New("invalid role")
)

// Songs manages t_songs.
type Songs interface {
	ListSongs(ctx context.Context, f models.SongFilter) ([]models.Song, int, error)
	GetSong(ctx context.Context, id uuid.UUID) (models.Song, error)
	CreateSong(ctx context.Context, song models.Song) (models.Song, error)
	UpdateSong(ctx context.Context, song models.Song) (models.Song, error)
	DeleteSong(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID) (models.Song, error)
	IncrementPlayCount(ctx context.Context, id uuid.UUID) error
}

// Playlists manages t_playlists and the t_playlist_songs join table.
type Playlists interface {
	ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id uuid.UUID) (models.Playlist, error)
	CreatePlaylist(ctx context.Context, p models.Playlist) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, id uuid.UUID) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error
}

// Users manages t_users and their t_roles assignment.
type Users interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SetUserRole(ctx context.Context, id uuid.UUID, role string) error
	UserRole(ctx context.Context, id uuid.UUID) (string, error)
}

// Store is the full persistence surface used by the handlers.
type Store interface {
	Songs
	Playlists
	Users
	Stats(ctx context.Context) (models.Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// LastPage returns the number of pages needed for total rows.
func LastPage(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Migrator is a Store that manages its own schema.
type Migrator interface {
	Store
	Migrate() error
	MigrateDown() error
	MigrationVersion() (int64, error)
}
