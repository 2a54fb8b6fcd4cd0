package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"musix/config"
	"musix/logging"
	"musix/models"
	"musix/store/sqlite"
)

type testEnv struct {
	t   *testing.T
	app *fiber.App
	db  *sqlite.Store
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Library.PageSize = 2
	cfg.Library.LoginRateLimit = 0

	app := New(Deps{
		Config:   cfg,
		Store:    db,
		Sessions: NewSessionStore(cfg, nil),
		Logger:   logging.Discard(),
	})
	return &testEnv{t: t, app: app, db: db}
}

// createUser inserts a user directly and returns a logged-in client for it.
func (e *testEnv) createUser(email, role string) *client {
	e.t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(e.t, err)
	_, err = e.db.CreateUser(context.Background(), models.User{
		Name:     "Test",
		Email:    email,
		Password: string(hashed),
		Role:     role,
	})
	require.NoError(e.t, err)

	c := &client{env: e}
	resp, _ := c.do(http.MethodPost, "/api/login", map[string]string{"email": email, "password": "secret123"})
	require.Equal(e.t, fiber.StatusOK, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			c.cookie = ck
		}
	}
	require.NotNil(e.t, c.cookie)
	return c
}

type client struct {
	env    *testEnv
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) (*http.Response, []byte) {
	t := c.env.t
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.env.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

// decode calls do and unmarshals the response into out.
func (c *client) decode(method, path string, body, out interface{}) int {
	c.env.t.Helper()
	resp, data := c.do(method, path, body)
	if out != nil && len(data) > 0 {
		require.NoError(c.env.t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func (c *client) createSong(title, genre string, duration int) models.Song {
	c.env.t.Helper()
	var song models.Song
	status := c.decode(http.MethodPost, "/api/songs", map[string]interface{}{
		"title":    title,
		"artist":   "Artist " + title,
		"genre":    genre,
		"duration": duration,
		"url":      "/audio/" + title + ".mp3",
	}, &song)
	require.Equal(c.env.t, fiber.StatusCreated, status)
	return song
}

func TestHealthz(t *testing.T) {
	e := setupTestApp(t)
	anon := &client{env: e}

	var body map[string]string
	assert.Equal(t, fiber.StatusOK, anon.decode(http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterLoginLogout(t *testing.T) {
	e := setupTestApp(t)
	anon := &client{env: e}

	register := map[string]string{"name": "Ada", "email": "Ada@Example.com", "password": "secret123"}
	var created struct {
		User models.User `json:"user"`
	}
	require.Equal(t, fiber.StatusCreated, anon.decode(http.MethodPost, "/api/register", register, &created))
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.Equal(t, models.RoleUser, created.User.Role)

	assert.Equal(t, fiber.StatusConflict, anon.decode(http.MethodPost, "/api/register", register, nil))

	var invalid struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	status := anon.decode(http.MethodPost, "/api/register", map[string]string{"email": "nope", "password": "123"}, &invalid)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "required", invalid.Fields["name"])
	assert.Equal(t, "email", invalid.Fields["email"])
	assert.Equal(t, "min", invalid.Fields["password"])

	bad := map[string]string{"email": "ada@example.com", "password": "wrong-password"}
	assert.Equal(t, fiber.StatusUnauthorized, anon.decode(http.MethodPost, "/api/login", bad, nil))

	resp, _ := anon.do(http.MethodPost, "/api/login", map[string]string{"email": "ada@example.com", "password": "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := &client{env: e}
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			user.cookie = ck
		}
	}
	require.NotNil(t, user.cookie)

	var me models.User
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/user", nil, &me))
	assert.Equal(t, "Ada", me.Name)

	var role map[string]string
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/user/role", nil, &role))
	assert.Equal(t, models.RoleUser, role["role"])

	assert.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/logout", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, user.decode(http.MethodGet, "/api/user", nil, nil))
}

func TestRoutesRequireLogin(t *testing.T) {
	e := setupTestApp(t)
	anon := &client{env: e}

	for _, path := range []string{"/api/user", "/api/songs", "/api/playlists", "/api/player", "/api/stats", "/api/admin/users"} {
		assert.Equal(t, fiber.StatusUnauthorized, anon.decode(http.MethodGet, path, nil, nil), path)
	}
}

func TestSongs(t *testing.T) {
	e := setupTestApp(t)
	admin := e.createUser("admin@example.com", models.RoleAdmin)
	user := e.createUser("user@example.com", models.RoleUser)

	t.Run("writes need admin", func(t *testing.T) {
		body := map[string]string{"title": "T", "artist": "A", "url": "/t.mp3"}
		assert.Equal(t, fiber.StatusForbidden, user.decode(http.MethodPost, "/api/songs", body, nil))
	})

	a := admin.createSong("Alpha", "Rock", 200)
	admin.createSong("Bravo", "Jazz", 100)
	admin.createSong("Charlie", "Rock", 300)

	t.Run("validation", func(t *testing.T) {
		var out struct {
			Fields map[string]string `json:"fields"`
		}
		status := admin.decode(http.MethodPost, "/api/songs", map[string]interface{}{"title": "x", "year": 12}, &out)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "required", out.Fields["artist"])
		assert.Equal(t, "required", out.Fields["url"])
		assert.Equal(t, "gte", out.Fields["year"])
	})

	t.Run("list paginates", func(t *testing.T) {
		var page struct {
			Songs    []models.Song `json:"songs"`
			Total    int           `json:"total"`
			Page     int           `json:"page"`
			LastPage int           `json:"last_page"`
		}
		require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/songs?page=2", nil, &page))
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.LastPage)
		require.Len(t, page.Songs, 1)
		assert.Equal(t, "Charlie", page.Songs[0].Title)

		require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/songs?genre=rock", nil, &page))
		assert.Equal(t, 2, page.Total)

		require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/songs?search=brav", nil, &page))
		assert.Equal(t, 1, page.Total)

		assert.Equal(t, fiber.StatusBadRequest, user.decode(http.MethodGet, "/api/songs?page=0", nil, nil))
		assert.Equal(t, fiber.StatusBadRequest, user.decode(http.MethodGet, "/api/songs?page=abc", nil, nil))
	})

	t.Run("get", func(t *testing.T) {
		var got models.Song
		require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/songs/"+a.ID.String(), nil, &got))
		assert.Equal(t, "Alpha", got.Title)

		assert.Equal(t, fiber.StatusBadRequest, user.decode(http.MethodGet, "/api/songs/not-a-uuid", nil, nil))
		assert.Equal(t, fiber.StatusNotFound, user.decode(http.MethodGet, "/api/songs/00000000-0000-0000-0000-000000000001", nil, nil))
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		var updated models.Song
		status := admin.decode(http.MethodPut, "/api/songs/"+a.ID.String(), map[string]interface{}{"title": "Alpha 2", "year": 1999}, &updated)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Alpha 2", updated.Title)
		assert.Equal(t, "Artist Alpha", updated.Artist)
		require.NotNil(t, updated.Year)
		assert.Equal(t, 1999, *updated.Year)

		assert.Equal(t, fiber.StatusBadRequest, admin.decode(http.MethodPut, "/api/songs/"+a.ID.String(), map[string]string{"title": ""}, nil))
		assert.Equal(t, fiber.StatusForbidden, user.decode(http.MethodPut, "/api/songs/"+a.ID.String(), map[string]string{"title": "x"}, nil))
	})

	t.Run("favorite toggles", func(t *testing.T) {
		var song models.Song
		require.Equal(t, fiber.StatusOK, user.decode(http.MethodPut, "/api/songs/"+a.ID.String()+"/favorite", nil, &song))
		assert.True(t, song.Favorite)

		var favorites []models.Song
		require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/songs/favorites", nil, &favorites))
		require.Len(t, favorites, 1)
		assert.Equal(t, a.ID, favorites[0].ID)

		require.Equal(t, fiber.StatusOK, user.decode(http.MethodPatch, "/api/songs/"+a.ID.String()+"/favorite", nil, &song))
		assert.False(t, song.Favorite)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, fiber.StatusForbidden, user.decode(http.MethodDelete, "/api/songs/"+a.ID.String(), nil, nil))
		assert.Equal(t, fiber.StatusNoContent, admin.decode(http.MethodDelete, "/api/songs/"+a.ID.String(), nil, nil))
		assert.Equal(t, fiber.StatusNotFound, admin.decode(http.MethodDelete, "/api/songs/"+a.ID.String(), nil, nil))
		assert.Equal(t, fiber.StatusNotFound, user.decode(http.MethodGet, "/api/songs/"+a.ID.String(), nil, nil))
	})
}

func TestStats(t *testing.T) {
	e := setupTestApp(t)
	admin := e.createUser("admin@example.com", models.RoleAdmin)

	song := admin.createSong("Alpha", "Rock", 120)
	admin.createSong("Bravo", "Rock", 60)
	admin.createSong("Charlie", "", 30)
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodPut, "/api/songs/"+song.ID.String()+"/favorite", nil, nil))
	require.Equal(t, fiber.StatusCreated, admin.decode(http.MethodPost, "/api/playlists", map[string]string{"name": "Mix"}, nil))

	var stats models.Stats
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, "/api/stats", nil, &stats))
	assert.Equal(t, 3, stats.TotalSongs)
	assert.Equal(t, 1, stats.FavoriteSongs)
	assert.Equal(t, 210, stats.TotalDuration)
	assert.Equal(t, 1, stats.TotalPlaylists)
	require.NotEmpty(t, stats.Genres)
	assert.Equal(t, "Rock", stats.Genres[0].Genre)
	assert.Equal(t, 2, stats.Genres[0].Count)
}

func TestPlaylists(t *testing.T) {
	e := setupTestApp(t)
	admin := e.createUser("admin@example.com", models.RoleAdmin)
	owner := e.createUser("owner@example.com", models.RoleUser)
	other := e.createUser("other@example.com", models.RoleUser)

	a := admin.createSong("Alpha", "Rock", 100)
	b := admin.createSong("Bravo", "Rock", 100)

	var playlist models.Playlist
	require.Equal(t, fiber.StatusCreated, owner.decode(http.MethodPost, "/api/playlists", map[string]string{"name": "Road trip", "description": "long"}, &playlist))
	assert.Equal(t, "Road trip", playlist.Name)
	assert.Empty(t, playlist.Songs)
	assert.Equal(t, fiber.StatusBadRequest, owner.decode(http.MethodPost, "/api/playlists", map[string]string{"name": ""}, nil))

	base := "/api/playlists/" + playlist.ID.String()

	var added struct {
		Playlist models.Playlist `json:"playlist"`
	}
	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": b.ID.String()}, &added))
	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": a.ID.String()}, &added))
	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": b.ID.String()}, &added))
	require.Len(t, added.Playlist.Songs, 2)
	assert.Equal(t, b.ID, added.Playlist.Songs[0].ID)
	assert.Equal(t, a.ID, added.Playlist.Songs[1].ID)

	assert.Equal(t, fiber.StatusNotFound, owner.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": "00000000-0000-0000-0000-000000000001"}, nil))
	assert.Equal(t, fiber.StatusBadRequest, owner.decode(http.MethodPost, base+"/add-song", map[string]string{}, nil))
	assert.Equal(t, fiber.StatusForbidden, other.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": a.ID.String()}, nil))

	var lists []models.Playlist
	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodGet, "/api/playlists", nil, &lists))
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Songs, 2)
	require.Equal(t, fiber.StatusOK, other.decode(http.MethodGet, "/api/playlists", nil, &lists))
	assert.Empty(t, lists)

	var got models.Playlist
	require.Equal(t, fiber.StatusOK, other.decode(http.MethodGet, base, nil, &got))
	assert.Equal(t, playlist.ID, got.ID)

	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodPost, base+"/remove-song", map[string]string{"song_id": b.ID.String()}, &added))
	require.Len(t, added.Playlist.Songs, 1)
	assert.Equal(t, fiber.StatusNotFound, owner.decode(http.MethodPost, base+"/remove-song", map[string]string{"song_id": b.ID.String()}, nil))

	// Deleting a song drops it from the playlist.
	require.Equal(t, fiber.StatusNoContent, admin.decode(http.MethodDelete, "/api/songs/"+a.ID.String(), nil, nil))
	require.Equal(t, fiber.StatusOK, owner.decode(http.MethodGet, base, nil, &got))
	assert.Empty(t, got.Songs)

	assert.Equal(t, fiber.StatusForbidden, other.decode(http.MethodDelete, base, nil, nil))
	assert.Equal(t, fiber.StatusOK, admin.decode(http.MethodDelete, base, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, owner.decode(http.MethodGet, base, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, owner.decode(http.MethodDelete, base, nil, nil))
}

type snapshot struct {
	State        string        `json:"state"`
	CurrentIndex int           `json:"current_index"`
	Current      *models.Song  `json:"current"`
	Position     int           `json:"position"`
	Progress     float64       `json:"progress"`
	Songs        []models.Song `json:"songs"`
	Source       struct {
		Kind       string `json:"kind"`
		PlaylistID string `json:"playlist_id"`
	} `json:"source"`
}

func TestPlayer(t *testing.T) {
	e := setupTestApp(t)
	admin := e.createUser("admin@example.com", models.RoleAdmin)
	user := e.createUser("user@example.com", models.RoleUser)

	var snap snapshot
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/player", nil, &snap))
	assert.Equal(t, "idle", snap.State)
	assert.Equal(t, -1, snap.CurrentIndex)
	assert.Equal(t, fiber.StatusConflict, user.decode(http.MethodPost, "/api/player/play", nil, nil))

	a := admin.createSong("Alpha", "Rock", 200)
	b := admin.createSong("Bravo", "Rock", 100)
	c := admin.createSong("Charlie", "Rock", 0)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/queue", nil, &snap))
	assert.Equal(t, "library", snap.Source.Kind)
	assert.Equal(t, "idle", snap.State)
	assert.Equal(t, 0, snap.CurrentIndex)
	require.Len(t, snap.Songs, 3)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/play", nil, &snap))
	assert.Equal(t, "playing", snap.State)
	require.NotNil(t, snap.Current)
	assert.Equal(t, a.ID, snap.Current.ID)
	assert.Equal(t, 1, snap.Current.PlayCount)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/seek", map[string]int{"position": 50}, &snap))
	assert.Equal(t, 50, snap.Position)
	assert.InDelta(t, 25.0, snap.Progress, 0.001)
	assert.Equal(t, fiber.StatusBadRequest, user.decode(http.MethodPost, "/api/player/seek", map[string]int{}, nil))

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/pause", nil, &snap))
	assert.Equal(t, "paused", snap.State)
	assert.Equal(t, 50, snap.Position)

	// Resuming a paused song is not a new play.
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/toggle", nil, &snap))
	assert.Equal(t, "playing", snap.State)
	assert.Equal(t, 1, snap.Current.PlayCount)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/next", nil, &snap))
	assert.Equal(t, b.ID, snap.Current.ID)
	assert.Equal(t, 0, snap.Position)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/ended", nil, &snap))
	assert.Equal(t, c.ID, snap.Current.ID)
	assert.Equal(t, "playing", snap.State)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/next", nil, &snap))
	assert.Equal(t, a.ID, snap.Current.ID, "next wraps to the first song")
	assert.Equal(t, 2, snap.Current.PlayCount)

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/prev", nil, &snap))
	assert.Equal(t, c.ID, snap.Current.ID, "prev wraps to the last song")

	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/play", map[string]int{"index": 1}, &snap))
	assert.Equal(t, b.ID, snap.Current.ID)
	assert.Equal(t, fiber.StatusBadRequest, user.decode(http.MethodPost, "/api/player/play", map[string]int{"index": 9}, nil))

	// Seeking past the end moves on to the next song.
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/seek", map[string]int{"position": 500}, &snap))
	assert.Equal(t, c.ID, snap.Current.ID)

	// Deleting a song removes it from the queue.
	require.Equal(t, fiber.StatusNoContent, admin.decode(http.MethodDelete, "/api/songs/"+c.ID.String(), nil, nil))
	require.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/player", nil, &snap))
	require.Len(t, snap.Songs, 2)
	assert.Equal(t, "idle", snap.State)

	t.Run("playlist queue", func(t *testing.T) {
		var playlist models.Playlist
		require.Equal(t, fiber.StatusCreated, user.decode(http.MethodPost, "/api/playlists", map[string]string{"name": "Only B"}, &playlist))
		base := "/api/playlists/" + playlist.ID.String()
		require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, base+"/add-song", map[string]string{"song_id": b.ID.String()}, nil))

		require.Equal(t, fiber.StatusOK, user.decode(http.MethodPost, "/api/player/queue", map[string]string{"playlist_id": playlist.ID.String()}, &snap))
		assert.Equal(t, "playlist", snap.Source.Kind)
		assert.Equal(t, playlist.ID.String(), snap.Source.PlaylistID)
		require.Len(t, snap.Songs, 1)
		assert.Equal(t, b.ID, snap.Songs[0].ID)

		assert.Equal(t, fiber.StatusNotFound, user.decode(http.MethodPost, "/api/player/queue", map[string]string{"playlist_id": "00000000-0000-0000-0000-000000000001"}, nil))
	})

	t.Run("queues are per user", func(t *testing.T) {
		var adminSnap snapshot
		require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, "/api/player", nil, &adminSnap))
		assert.Empty(t, adminSnap.Songs)
	})
}

func TestAdminUsers(t *testing.T) {
	e := setupTestApp(t)
	admin := e.createUser("admin@example.com", models.RoleAdmin)
	user := e.createUser("user@example.com", models.RoleUser)

	assert.Equal(t, fiber.StatusForbidden, user.decode(http.MethodGet, "/api/admin/users", nil, nil))

	var users []models.User
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, "/api/admin/users", nil, &users))
	require.Len(t, users, 2)
	var target models.User
	for _, u := range users {
		if u.Email == "user@example.com" {
			target = u
		}
	}
	require.Equal(t, "user@example.com", target.Email)
	path := "/api/admin/users/" + target.ID.String()

	var got models.User
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, path, nil, &got))
	assert.Equal(t, models.RoleUser, got.Role)

	require.Equal(t, fiber.StatusCreated, user.decode(http.MethodPost, "/api/playlists", map[string]string{"name": "Mine"}, nil))
	var lists []models.Playlist
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, path+"/playlists", nil, &lists))
	assert.Len(t, lists, 1)

	assert.Equal(t, fiber.StatusBadRequest, admin.decode(http.MethodPut, path+"/role", map[string]string{"role": "root"}, nil))
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodPut, path+"/role", map[string]string{"role": "admin"}, nil))
	assert.Equal(t, fiber.StatusOK, user.decode(http.MethodGet, "/api/admin/users", nil, nil))

	var self models.User
	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodGet, "/api/user", nil, &self))
	assert.Equal(t, fiber.StatusBadRequest, admin.decode(http.MethodDelete, "/api/admin/users/"+self.ID.String(), nil, nil))

	require.Equal(t, fiber.StatusOK, admin.decode(http.MethodDelete, path, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, admin.decode(http.MethodGet, path, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, user.decode(http.MethodGet, "/api/user", nil, nil))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	e := setupTestApp(t)
	anon := &client{env: e}

	var body map[string]string
	assert.Equal(t, fiber.StatusNotFound, anon.decode(http.MethodGet, "/api/nope", nil, &body))
	assert.NotEmpty(t, body["error"])
}
