package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"musix/models"
	"musix/store"
)

const songColumns = `id, title, artist, genre, year, duration, url, favorite, play_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSong(row scanner) (models.Song, error) {
	var song models.Song
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Genre, &song.Year, &song.Duration,
		&song.URL, &song.Favorite, &song.PlayCount, &song.CreatedAt, &song.UpdatedAt)
	return song, err
}

func collectSongs(rows pgx.Rows) ([]models.Song, error) {
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
	args := []interface{}{}

	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, `(LOWER(title) LIKE $`+n+` OR LOWER(artist) LIKE $`+n+`)`)
	}
	if f.Genre != "" {
		args = append(args, strings.ToLower(f.Genre))
		where = append(where, `LOWER(genre) = $`+strconv.Itoa(len(args)))
	}
	if f.FavoritesOnly {
		where = append(where, `favorite`)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM t_songs`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count songs")
	}

	query := `SELECT ` + songColumns + ` FROM t_songs` + whereClause + ` ORDER BY created_at, title`
	if f.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
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
	song, err := scanSong(s.pool.QueryRow(ctx, `SELECT `+songColumns+` FROM t_songs WHERE id = $1`, id))
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

	query := `INSERT INTO t_songs (` + songColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.pool.Exec(ctx, query, song.ID, song.Title, song.Artist, song.Genre, song.Year, song.Duration,
		song.URL, song.Favorite, song.PlayCount, song.CreatedAt, song.UpdatedAt)
	if err != nil {
		return models.Song{}, errors.Wrap(err, "insert song")
	}
	return song, nil
}

func (s *Store) UpdateSong(ctx context.Context, song models.Song) (models.Song, error) {
	query := `UPDATE t_songs
		SET title = $1, artist = $2, genre = $3, year = $4, duration = $5, url = $6, favorite = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + songColumns
	updated, err := scanSong(s.pool.QueryRow(ctx, query, song.Title, song.Artist, song.Genre, song.Year,
		song.Duration, song.URL, song.Favorite, time.Now().UTC(), song.ID))
	if err != nil {
		return models.Song{}, errors.WithStack(notFound(err))
	}
	return updated, nil
}

func (s *Store) DeleteSong(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM t_songs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete song")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ToggleFavorite(ctx context.Context, id uuid.UUID) (models.Song, error) {
	query := `UPDATE t_songs SET favorite = NOT favorite, updated_at = $1 WHERE id = $2 RETURNING ` + songColumns
	song, err := scanSong(s.pool.QueryRow(ctx, query, time.Now().UTC(), id))
	if err != nil {
		return models.Song{}, errors.WithStack(notFound(err))
	}
	return song, nil
}

func (s *Store) IncrementPlayCount(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE t_songs SET play_count = play_count + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "increment play count")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN favorite THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(duration), 0)
		FROM t_songs`).Scan(&stats.TotalSongs, &stats.FavoriteSongs, &stats.TotalDuration)
	if err != nil {
		return models.Stats{}, errors.Wrap(err, "song stats")
	}
	stats.TotalMinutes = stats.TotalDuration / 60

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM t_playlists`).Scan(&stats.TotalPlaylists); err != nil {
		return models.Stats{}, errors.Wrap(err, "playlist stats")
	}

	rows, err := s.pool.Query(ctx, `
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
