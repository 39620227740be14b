package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/pkg/logger"
)

// Entry records one moderation action: a staff member mutating content
// they do not own, or an admin changing a user's role.
type Entry struct {
	Actor      string      `json:"actor"`
	Role       models.Role `json:"role"`
	Action     string      `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Trail is an append-only JSONL moderation log. Each write is synced to
// disk before the request completes.
type Trail struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func NewTrail(filePath string) (*Trail, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Trail{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends an entry and syncs it to disk.
func (t *Trail) Record(entry Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit: failed to marshal entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	if _, err := t.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	if err := t.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Debug("Audit: entry recorded",
		zap.String("actor", entry.Actor),
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("resource_id", entry.ResourceID),
	)

	return nil
}

// ReadAll returns every recorded entry in order.
func (t *Trail) ReadAll() ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.Open(t.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Log.Warn("Audit: skipping corrupt entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
