package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbutil "github.com/llehouerou/recordmachine/internal/db"
)

var (
	ErrAlbumNotFound = errors.New("album not found")
	ErrTrackNotFound = errors.New("track not found")
)

// Library reads and writes albums and tracks.
type Library struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Library {
	return &Library{db: db, now: time.Now}
}

// Albums returns every album ordered by title, with tracks attached in index order.
func (l *Library) Albums(ctx context.Context) ([]*Album, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, artist, artwork FROM albums ORDER BY title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*Album
	byID := make(map[int64]*Album)
	for rows.Next() {
		a := &Album{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Artist, &a.Artwork); err != nil {
			return nil, err
		}
		albums = append(albums, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := l.attachTracks(ctx, byID, `
		SELECT id, album_id, title, track_index, audio_path FROM tracks
		ORDER BY album_id, track_index, id
	`); err != nil {
		return nil, err
	}
	return albums, nil
}

// Album returns a single album with its tracks.
func (l *Library) Album(ctx context.Context, id int64) (*Album, error) {
	a := &Album{}
	err := l.db.QueryRowContext(ctx, `
		SELECT id, title, artist, artwork FROM albums WHERE id = ?
	`, id).Scan(&a.ID, &a.Title, &a.Artist, &a.Artwork)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrAlbumNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := l.attachTracks(ctx, map[int64]*Album{a.ID: a}, `
		SELECT id, album_id, title, track_index, audio_path FROM tracks
		WHERE album_id = ?
		ORDER BY track_index, id
	`, id); err != nil {
		return nil, err
	}
	return a, nil
}

func (l *Library) attachTracks(ctx context.Context, albums map[int64]*Album, query string, args ...any) error {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t Track
		var albumID int64
		var audioPath sql.NullString
		if err := rows.Scan(&t.ID, &albumID, &t.Title, &t.Index, &audioPath); err != nil {
			return err
		}
		t.AudioPath = dbutil.NullStringValue(audioPath)
		if a, ok := albums[albumID]; ok {
			track := t
			a.AddTrack(&track)
		}
	}
	return rows.Err()
}

// CreateAlbum inserts a new, empty album.
func (l *Library) CreateAlbum(ctx context.Context, title, artist string) (*Album, error) {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO albums (title, artist, created_at) VALUES (?, ?, ?)
	`, title, artist, l.now().Unix())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Album{ID: id, Title: title, Artist: artist}, nil
}

// UpdateAlbum saves the album's title, artist and artwork.
func (l *Library) UpdateAlbum(ctx context.Context, a *Album) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE albums SET title = ?, artist = ?, artwork = ? WHERE id = ?
	`, a.Title, a.Artist, a.Artwork, a.ID)
	if err != nil {
		return err
	}
	return expectRow(res, ErrAlbumNotFound, a.ID)
}

// SetArtwork replaces the album's artwork blob. Nil removes it.
func (l *Library) SetArtwork(ctx context.Context, albumID int64, artwork []byte) error {
	res, err := l.db.ExecContext(ctx, `UPDATE albums SET artwork = ? WHERE id = ?`, artwork, albumID)
	if err != nil {
		return err
	}
	return expectRow(res, ErrAlbumNotFound, albumID)
}

// DeleteAlbum removes an album and, by cascade, its tracks.
// It returns the audio paths the deleted tracks referenced.
func (l *Library) DeleteAlbum(ctx context.Context, id int64) ([]string, error) {
	var paths []string
	err := dbutil.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT audio_path FROM tracks WHERE album_id = ? AND audio_path IS NOT NULL
		`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return err
			}
			paths = append(paths, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return expectRow(res, ErrAlbumNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// AddTrack appends a track after the album's last index.
func (l *Library) AddTrack(ctx context.Context, albumID int64, title, audioPath string) (*Track, error) {
	t := &Track{Title: title, AudioPath: audioPath}
	err := dbutil.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM albums WHERE id = ?`, albumID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrAlbumNotFound, albumID)
		}
		if err != nil {
			return err
		}

		var maxIndex sql.NullInt64
		if err := tx.QueryRowContext(ctx, `
			SELECT MAX(track_index) FROM tracks WHERE album_id = ?
		`, albumID).Scan(&maxIndex); err != nil {
			return err
		}
		if maxIndex.Valid {
			t.Index = int(maxIndex.Int64) + 1
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (album_id, title, track_index, audio_path, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, albumID, title, t.Index, dbutil.NullString(audioPath), l.now().Unix())
		if err != nil {
			return err
		}
		t.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTrack removes a single track.
func (l *Library) DeleteTrack(ctx context.Context, id int64) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(res, ErrTrackNotFound, id)
}

// SetTrackIndex changes a track's sort key.
func (l *Library) SetTrackIndex(ctx context.Context, id int64, index int) error {
	res, err := l.db.ExecContext(ctx, `UPDATE tracks SET track_index = ? WHERE id = ?`, index, id)
	if err != nil {
		return err
	}
	return expectRow(res, ErrTrackNotFound, id)
}

// SetTrackAudioPath stores the resolved audio location of a track.
// An empty path clears it.
func (l *Library) SetTrackAudioPath(ctx context.Context, id int64, path string) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE tracks SET audio_path = ? WHERE id = ?
	`, dbutil.NullString(path), id)
	if err != nil {
		return err
	}
	return expectRow(res, ErrTrackNotFound, id)
}

func expectRow(res sql.Result, notFound error, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", notFound, id)
	}
	return nil
}
