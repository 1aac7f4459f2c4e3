package history

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/str8zero/str8zero/pkg/mood"
)

// Entry is one immutable routing record. The log is append-only; entries
// are never mutated or compacted.
type Entry struct {
	ID           string            `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	Prompt       string            `json:"prompt"`
	Task         string            `json:"task"`
	Platform     string            `json:"platform"`
	MoodSignal   mood.MoodSignal   `json:"mood_signal"`
	SyntaxSignal mood.SyntaxSignal `json:"syntax_signal"`
	Agent        string            `json:"selected_agent"`
	OverrideUsed bool              `json:"override_used"`
}

// Log appends routing records to a JSONL file. Concurrent processes may
// append to the same file; each record is a single O_APPEND write, never a
// read-modify-write.
type Log struct {
	path string
	now  func() time.Time
}

// Open returns a log writing to the given path. The file is created on
// first record.
func Open(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// DefaultPath returns the history log location under the config dir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.jsonl")
}

// Record appends an entry, assigning its ID and timestamp. Best-effort:
// failures are warned to stderr and never propagate, since the routing
// decision is the primary deliverable.
func (l *Log) Record(entry Entry) {
	entry.Timestamp = l.now().UTC()
	entry.ID = ulid.Make().String()

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[history] failed to encode entry: %v", err)
		return
	}
	data = append(data, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[history] failed to open %s: %v", l.path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		log.Printf("[history] failed to append to %s: %v", l.path, err)
	}
}

// Tail returns the last n entries, oldest first. Lines that fail to parse
// are skipped: the log is shared with other processes and a torn final line
// must not hide the valid history.
func (l *Log) Tail(n int) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			log.Printf("[history] skipping unreadable line: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
