package chatlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usaha-chatbot/models"
)

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_log.db")

	recorder, err := Open(path)
	require.NoError(t, err)
	defer recorder.Close()

	ctx := context.Background()
	count := int64(8)

	require.NoError(t, recorder.Record(ctx, "Berapa usaha di Balikpapan?", models.ChatResponse{
		Success:     true,
		Response:    "Terdapat 8 usaha di Balikpapan.",
		MessageType: models.MessageTypeCount,
		Count:       &count,
	}))
	require.NoError(t, recorder.Record(ctx, "What's the weather today?", models.ChatResponse{
		Success:     true,
		Response:    "Maaf, saya hanya bisa menjawab pertanyaan seputar data usaha.",
		MessageType: models.MessageTypeOutOfScope,
	}))

	var total int
	require.NoError(t, recorder.db.QueryRow("SELECT COUNT(*) FROM chat_log").Scan(&total))
	assert.Equal(t, 2, total)

	var message, messageType string
	var success bool
	require.NoError(t, recorder.db.QueryRow(
		"SELECT message, message_type, success FROM chat_log ORDER BY id LIMIT 1",
	).Scan(&message, &messageType, &success))
	assert.Equal(t, "Berapa usaha di Balikpapan?", message)
	assert.Equal(t, "count", messageType)
	assert.True(t, success)
}

func TestOpenCreatesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_log.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), "halo", models.ChatResponse{
		Success:     true,
		Response:    "x",
		MessageType: models.MessageTypeOutOfScope,
	}))
	require.NoError(t, first.Close())

	// Reopening the same file must keep existing rows.
	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var total int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM chat_log").Scan(&total))
	assert.Equal(t, 1, total)
}
