// Package chatlog persists chat exchanges to a local sqlite file so answer
// quality can be reviewed offline. Recording is best effort; the chat
// endpoint never fails because the log did.
package chatlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"usaha-chatbot/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	message      TEXT NOT NULL,
	response     TEXT NOT NULL,
	message_type TEXT NOT NULL,
	success      INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);`

type Recorder struct {
	db *sql.DB
}

func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat log: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize chat log schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

func (r *Recorder) Record(ctx context.Context, message string, resp models.ChatResponse) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_log (message, response, message_type, success, created_at) VALUES (?, ?, ?, ?, ?)`,
		message, resp.Response, string(resp.MessageType), resp.Success, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record chat exchange: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}
