// Package player holds the server-side playback queue: the current song,
// play/pause/next/prev transitions and progress tracking for each user.
package player

import (
	"errors"

	"github.com/google/uuid"

	"musix/models"
)

var (
	ErrEmptyQueue = errors.New("queue is empty")
	ErrOutOfRange = errors.New("index out of range")
)

// Source describes where the queue contents came from.
type Source struct {
	Kind       string     `json:"kind"` // "library" or "playlist"
	PlaylistID *uuid.UUID `json:"playlist_id,omitempty"`
}

// LibrarySource is the source used when the whole library is queued.
var LibrarySource = Source{Kind: "library"}

// PlaylistSource returns the source for a queued playlist.
func PlaylistSource(id uuid.UUID) Source {
	return Source{Kind: "playlist", PlaylistID: &id}
}

// Queue is a playing queue. The zero value is not usable; use NewQueue.
type Queue struct {
	songs        []models.Song
	currentIndex int // -1 if nothing selected
	state        State
	position     int
	source       Source
}

// NewQueue creates an empty idle queue.
func NewQueue() *Queue {
	return &Queue{currentIndex: -1, source: LibrarySource}
}

// Current returns the selected song, or nil if none.
func (q *Queue) Current() *models.Song {
	if q.currentIndex < 0 || q.currentIndex >= len(q.songs) {
		return nil
	}
	s := q.songs[q.currentIndex]
	return &s
}

func (q *Queue) CurrentIndex() int { return q.currentIndex }
func (q *Queue) State() State      { return q.state }
func (q *Queue) Position() int     { return q.position }
func (q *Queue) Len() int          { return len(q.songs) }

// Load replaces the queue contents. The selected song keeps its selection
// if it is still present; otherwise the first song is selected without
// starting playback.
func (q *Queue) Load(songs []models.Song, source Source) {
	var currentID uuid.UUID
	if cur := q.Current(); cur != nil {
		currentID = cur.ID
	}

	q.songs = append([]models.Song(nil), songs...)
	q.source = source

	if currentID != uuid.Nil {
		for i, s := range q.songs {
			if s.ID == currentID {
				q.currentIndex = i
				return
			}
		}
	}

	q.currentIndex = -1
	q.state = StateIdle
	q.position = 0
	if len(q.songs) > 0 {
		q.currentIndex = 0
	}
}

// Select jumps to index. With autoplay the queue starts playing, otherwise
// it is left idle on the selected song.
func (q *Queue) Select(index int, autoplay bool) (*models.Song, error) {
	if index < 0 || index >= len(q.songs) {
		return nil, ErrOutOfRange
	}
	q.currentIndex = index
	q.position = 0
	if autoplay {
		q.state = StatePlaying
	} else {
		q.state = StateIdle
	}
	return q.Current(), nil
}

// Play resumes or starts the selected song.
func (q *Queue) Play() error {
	if q.Current() == nil {
		return ErrEmptyQueue
	}
	if q.state == StateEnded {
		q.position = 0
	}
	q.state = StatePlaying
	return nil
}

// Pause pauses playback. Pausing a queue that is not playing is a no-op.
func (q *Queue) Pause() error {
	if q.Current() == nil {
		return ErrEmptyQueue
	}
	if q.state == StatePlaying {
		q.state = StatePaused
	}
	return nil
}

// Toggle flips between playing and paused.
func (q *Queue) Toggle() error {
	if q.state == StatePlaying {
		return q.Pause()
	}
	return q.Play()
}

// Next advances to the following song, wrapping to the first.
func (q *Queue) Next() (*models.Song, error) {
	if len(q.songs) == 0 {
		return nil, ErrEmptyQueue
	}
	return q.Select((q.currentIndex+1)%len(q.songs), true)
}

// Prev moves to the preceding song, wrapping to the last.
func (q *Queue) Prev() (*models.Song, error) {
	n := len(q.songs)
	if n == 0 {
		return nil, ErrEmptyQueue
	}
	i := q.currentIndex
	if i < 0 {
		i = 0
	}
	return q.Select((i-1+n)%n, true)
}

// Ended marks the current song finished and advances to the next one.
func (q *Queue) Ended() (*models.Song, error) {
	if q.Current() == nil {
		return nil, ErrEmptyQueue
	}
	q.state = StateEnded
	return q.Next()
}

// Seek moves the play position, clamped to the song duration. Reaching the
// end of a song with a known duration ends it. The returned song is non-nil
// only when playback advanced.
func (q *Queue) Seek(position int) (*models.Song, error) {
	cur := q.Current()
	if cur == nil {
		return nil, ErrEmptyQueue
	}
	if position < 0 {
		position = 0
	}
	if cur.Duration > 0 && position >= cur.Duration {
		return q.Ended()
	}
	q.position = position
	return nil, nil
}

// Remove drops every entry of songID and keeps the selection consistent.
// Removing the selected entry leaves the queue idle on the song that
// followed it. It reports whether anything was removed.
func (q *Queue) Remove(songID uuid.UUID) bool {
	removed := false
	for i := 0; i < len(q.songs); {
		if q.songs[i].ID != songID {
			i++
			continue
		}
		removed = true
		q.songs = append(q.songs[:i], q.songs[i+1:]...)

		if q.currentIndex > i {
			q.currentIndex--
		} else if q.currentIndex == i {
			q.state = StateIdle
			q.position = 0
			if q.currentIndex >= len(q.songs) {
				q.currentIndex = len(q.songs) - 1
			}
		}
	}
	return removed
}

// Update refreshes the stored copy of song, e.g. after a favorite toggle.
func (q *Queue) Update(song models.Song) bool {
	updated := false
	for i := range q.songs {
		if q.songs[i].ID == song.ID {
			q.songs[i] = song
			updated = true
		}
	}
	return updated
}

// Snapshot is a read-only view of a queue, safe to serialise.
type Snapshot struct {
	State        State         `json:"state"`
	CurrentIndex int           `json:"current_index"`
	Current      *models.Song  `json:"current"`
	Position     int           `json:"position"`
	Progress     float64       `json:"progress"`
	Source       Source        `json:"source"`
	Songs        []models.Song `json:"songs"`
}

// Snapshot returns a copy of the queue state.
func (q *Queue) Snapshot() Snapshot {
	snap := Snapshot{
		State:        q.state,
		CurrentIndex: q.currentIndex,
		Current:      q.Current(),
		Position:     q.position,
		Source:       q.source,
		Songs:        append([]models.Song{}, q.songs...),
	}
	if snap.Current != nil && snap.Current.Duration > 0 {
		snap.Progress = float64(q.position) / float64(snap.Current.Duration) * 100
	}
	return snap
}
