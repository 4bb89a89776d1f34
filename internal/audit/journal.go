package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

// Event names recorded in the journal.
const (
	EventRoleChange   = "role_change"
	EventLoginFailed  = "login_failed"
	EventAccessDenied = "access_denied"
)

// Entry is one security-relevant event.
type Entry struct {
	Event     string    `json:"event"`
	ActorID   uint      `json:"actor_id,omitempty"`
	TargetID  uint      `json:"target_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal is an append-only, fsynced JSON-lines file of security events.
// It complements the role_change_logs table: the table is the queryable
// record, the journal survives database restores and is greppable on the
// host. A nil *Journal is a valid no-op sink.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates or appends to the journal file at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: path,
		file:     file,
	}, nil
}

// Record appends one event and syncs it to disk before returning. Failures
// are logged, never propagated: auditing must not take the operation down
// with it.
func (j *Journal) Record(event string, actorID, targetID uint, detail string) {
	if j == nil {
		return
	}
	entry := Entry{
		Event:     event,
		ActorID:   actorID,
		TargetID:  targetID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit journal marshal failed",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(append(data, '\n')); err != nil {
		logger.Log.Error("Audit journal write failed",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}
	if err := j.file.Sync(); err != nil {
		logger.Log.Error("Audit journal sync failed",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

// ReadAll returns every entry in the journal, oldest first. Unparseable
// lines are skipped.
func (j *Journal) ReadAll() ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
