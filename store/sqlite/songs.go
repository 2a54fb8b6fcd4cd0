package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"musix/models"
)

const songColumns = `id, title, artist, genre, year, duration, url, favorite, play_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner, extra ...any) (models.Song, error) {
	var song models.Song
	var year sql.NullInt64
	dest := append(extra, &song.ID, &song.Title, &song.Artist, &song.Genre, &year, &song.Duration,
		&song.URL, &song.Favorite, &song.PlayCount, &song.CreatedAt, &song.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return models.Song{}, err
	}
	if year.Valid {
		y := int(year.Int64)
		song.Year = &y
	}
	return song, nil
}

func nullYear(year *int) sql.NullInt64 {
	if year == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*year), Valid: true}
}

func collectSongs(rows *sql.Rows) ([]models.Song, error) {
	defer rows.Close()
	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan song")
		}
		songs = append(songs, song)
	}
	return songs, errors.Wrap(rows.Err(), "iterate songs")
}

func (s *Store) ListSongs(ctx context.Context, f models.SongFilter) ([]models.Song, int, error) {
	var where []string
	var args []any

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, `(LOWER(title) LIKE ? OR LOWER(artist) LIKE ?)`)
		args = append(args, like, like)
	}
	if f.Genre != "" {
		where = append(where, `LOWER(genre) = ?`)
		args = append(args, strings.ToLower(f.Genre))
	}
	if f.FavoritesOnly {
		where = append(where, `favorite = 1`)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t_songs`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count songs")
	}

	query := `SELECT ` + songColumns + ` FROM t_songs` + whereClause + ` ORDER BY created_at, title`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query songs")
	}
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

func (s *Store) GetSong(ctx context.Context, id uuid.UUID) (models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM t_songs WHERE id = ?`, id))
	if err != nil {
		return models.Song{}, errors.WithStack(notFound(err))
	}
	return song, nil
}

func (s *Store) CreateSong(ctx context.Context, song models.Song) (models.Song, error) {
	now := time.Now().UTC()
	song.ID = uuid.New()
	song.CreatedAt, song.UpdatedAt = now, now
	song.PlayCount = 0

	query := `INSERT INTO t_songs (` + songColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, song.ID, song.Title, song.Artist, song.Genre, nullYear(song.Year),
		song.Duration, song.URL, song.Favorite, song.PlayCount, song.CreatedAt, song.UpdatedAt)
	if err != nil {
		return models.Song{}, errors.Wrap(err, "insert song")
	}
	return song, nil
}

func (s *Store) UpdateSong(ctx context.Context, song models.Song) (models.Song, error) {
	query := `UPDATE t_songs
		SET title = ?, artist = ?, genre = ?, year = ?, duration = ?, url = ?, favorite = ?, updated_at = ?
		WHERE id = ?
		RETURNING ` + songColumns
	updated, err := scanSong(s.db.QueryRowContext(ctx, query, song.Title, song.Artist, song.Genre, nullYear(song.Year),
		song.Duration, song.URL, song.Favorite, time.Now().UTC(), song.ID))
	if err != nil {
		return models.Song{}, errors.WithStack(notFound(err))
	}
	return updated, nil
}

func (s *Store) DeleteSong(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM t_songs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete song")
	}
	return rowsAffected(res)
}

func (s *Store) ToggleFavorite(ctx context.Context, id uuid.UUID) (models.Song, error) {
	query := `UPDATE t_songs SET favorite = NOT favorite, updated_at = ? WHERE id = ? RETURNING ` + songColumns
	song, err := scanSong(s.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if err != nil {
		return models.Song{}, errors.WithStack(notFound(err))
	}
	return song, nil
}

func (s *Store) IncrementPlayCount(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE t_songs SET play_count = play_count + 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "increment play count")
	}
	return rowsAffected(res)
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN favorite THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(duration), 0)
		FROM t_songs`).Scan(&stats.TotalSongs, &stats.FavoriteSongs, &stats.TotalDuration)
	if err != nil {
		return models.Stats{}, errors.Wrap(err, "song stats")
	}
	stats.TotalMinutes = stats.TotalDuration / 60

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t_playlists`).Scan(&stats.TotalPlaylists); err != nil {
		return models.Stats{}, errors.Wrap(err, "playlist stats")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT genre, COUNT(*) FROM t_songs
		WHERE genre <> ''
		GROUP BY genre
		ORDER BY COUNT(*) DESC, genre`)
	if err != nil {
		return models.Stats{}, errors.Wrap(err, "genre stats")
	}
	defer rows.Close()

	stats.Genres = []models.GenreCount{}
	for rows.Next() {
		var g models.GenreCount
		if err := rows.Scan(&g.Genre, &g.Count); err != nil {
			return models.Stats{}, errors.Wrap(err, "scan genre")
		}
		stats.Genres = append(stats.Genres, g)
	}
	return stats, errors.Wrap(rows.Err(), "iterate genres")
}
