package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"musix/models"
	"musix/store"
)

const playlistSongsQuery = `
	SELECT ps.playlist_id, s.id, s.title, s.artist, s.genre, s.year, s.duration, s.url, s.favorite,
	       s.play_count, s.created_at, s.updated_at
	FROM t_playlist_songs ps
	JOIN t_songs s ON ps.song_id = s.id
`

func (s *Store) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, user_id, created_at
		FROM t_playlists
		WHERE user_id = ?
		ORDER BY created_at, name`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "query playlists")
	}

	playlists := []models.Playlist{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		p := models.Playlist{Songs: []models.Song{}}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan playlist")
		}
		index[p.ID] = len(playlists)
		playlists = append(playlists, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate playlists")
	}

	songRows, err := s.db.QueryContext(ctx, playlistSongsQuery+`
		JOIN t_playlists p ON ps.playlist_id = p.id
		WHERE p.user_id = ?
		ORDER BY ps.playlist_id, ps.position`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "query playlist songs")
	}
	defer songRows.Close()

	for songRows.Next() {
		var playlistID uuid.UUID
		song, err := scanSong(songRows, &playlistID)
		if err != nil {
			return nil, errors.Wrap(err, "scan playlist song")
		}
		if i, ok := index[playlistID]; ok {
			playlists[i].Songs = append(playlists[i].Songs, song)
		}
	}
	return playlists, errors.Wrap(songRows.Err(), "iterate playlist songs")
}

func (s *Store) GetPlaylist(ctx context.Context, id uuid.UUID) (models.Playlist, error) {
	p := models.Playlist{Songs: []models.Song{}}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, user_id, created_at FROM t_playlists WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt)
	if err != nil {
		return models.Playlist{}, errors.WithStack(notFound(err))
	}

	rows, err := s.db.QueryContext(ctx, playlistSongsQuery+`WHERE ps.playlist_id = ? ORDER BY ps.position`, id)
	if err != nil {
		return models.Playlist{}, errors.Wrap(err, "query playlist songs")
	}
	defer rows.Close()

	for rows.Next() {
		var playlistID uuid.UUID
		song, err := scanSong(rows, &playlistID)
		if err != nil {
			return models.Playlist{}, errors.Wrap(err, "scan playlist song")
		}
		p.Songs = append(p.Songs, song)
	}
	return p, errors.Wrap(rows.Err(), "iterate playlist songs")
}

func (s *Store) CreatePlaylist(ctx context.Context, p models.Playlist) (models.Playlist, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.Songs = []models.Song{}

	_, err := s.db.ExecContext(ctx, `INSERT INTO t_playlists (id, name, description, user_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.UserID, p.CreatedAt)
	if err != nil {
		return models.Playlist{}, errors.Wrap(err, "insert playlist")
	}
	return p, nil
}

func (s *Store) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM t_playlists WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete playlist")
	}
	return rowsAffected(res)
}

func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM t_playlists WHERE id = ?)`, playlistID).Scan(&exists); err != nil {
			return errors.Wrap(err, "check playlist")
		}
		if !exists {
			return store.ErrNotFound
		}
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM t_songs WHERE id = ?)`, songID).Scan(&exists); err != nil {
			return errors.Wrap(err, "check song")
		}
		if !exists {
			return store.ErrNotFound
		}

		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO t_playlist_songs (playlist_id, song_id, position)
			SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM t_playlist_songs WHERE playlist_id = ?`,
			playlistID, songID, playlistID)
		return errors.Wrap(err, "attach song")
	})
}

func (s *Store) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM t_playlist_songs WHERE playlist_id = ? AND song_id = ?`, playlistID, songID)
	if err != nil {
		return errors.Wrap(err, "detach song")
	}
	return rowsAffected(res)
}
