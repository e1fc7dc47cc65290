// Package history persists processed-video records in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Entry is a single processed-video record.
type Entry struct {
	ID         int64  `json:"id"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title,omitempty"`
	Channel    string `json:"channel,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
	Mode       string `json:"mode"` // quick or quality
	Provider   string `json:"provider,omitempty"`
	Chars      int    `json:"chars"`
	CreatedAt  string `json:"created_at"`
}

// ListResult is the output of List.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		dbPath := engine.Cfg.HistoryDBPath
		if dbPath == "" {
			dir := filepath.Join(os.Getenv("HOME"), ".go_transcript")
			if err := os.MkdirAll(dir, 0750); err != nil {
				historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
				return
			}
			dbPath = filepath.Join(dir, "history.db")
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id    TEXT NOT NULL,
		title       TEXT,
		channel     TEXT,
		target_lang TEXT,
		mode        TEXT NOT NULL,
		provider    TEXT,
		chars       INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`)
	return err
}

// Add records a processed video.
func Add(_ context.Context, e Entry) (int64, error) {
	if e.VideoID == "" {
		return 0, errors.New("history: video_id is required")
	}
	if e.Mode == "" {
		return 0, errors.New("history: mode is required")
	}

	db, err := openHistoryDB()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO history (video_id, title, channel, target_lang, mode, provider, chars, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.VideoID, e.Title, e.Channel, e.TargetLang, e.Mode, e.Provider, e.Chars, now,
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// List returns the most recent entries, newest first.
func List(_ context.Context, limit int) (*ListResult, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := db.Query(
		`SELECT id, video_id, title, channel, target_lang, mode, provider, chars, created_at
		 FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, channel, targetLang, provider sql.NullString
		if err := rows.Scan(&e.ID, &e.VideoID, &title, &channel,
			&targetLang, &e.Mode, &provider, &e.Chars, &e.CreatedAt); err != nil {
			continue
		}
		e.Title = title.String
		e.Channel = channel.String
		e.TargetLang = targetLang.String
		e.Provider = provider.String
		entries = append(entries, e)
	}

	var total int
	db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&total) //nolint:errcheck

	if entries == nil {
		entries = []Entry{}
	}
	return &ListResult{Entries: entries, Total: total}, nil
}
