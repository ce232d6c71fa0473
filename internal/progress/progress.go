// Package progress persists per-question attempt counts for a question-set
// directory in progress.json.
package progress

import (
	"path"
	"path/filepath"
	"sort"
)

// FileName is the progress file kept inside each question-set directory.
const FileName = "progress.json"

// Record is the cumulative outcome for one question. Correct never exceeds
// Attempts.
type Record struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// Solved reports whether the question was answered correctly at least once.
func (r Record) Solved() bool {
	return r.Correct > 0
}

// Failed reports whether the question was attempted but never answered
// correctly.
func (r Record) Failed() bool {
	return r.Attempts > 0 && r.Correct == 0
}

// Store maps question IDs to their Record for one directory. A Store is owned
// by a single session and is not safe for concurrent use.
type Store struct {
	dir     string
	records map[string]Record
}

// New returns an empty store for dir. Nothing is written until Save.
func New(dir string) *Store {
	return &Store{dir: dir, records: make(map[string]Record)}
}

// Path returns the progress file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Dir returns the question-set directory the store belongs to.
func (s *Store) Dir() string {
	return s.dir
}

// Record counts one attempt for id.
func (s *Store) Record(id string, wasCorrect bool) {
	r := s.records[id]
	r.Attempts++
	if wasCorrect {
		r.Correct++
	}
	s.records[id] = r
}

// Get returns the record for id, or the zero Record if id was never attempted.
func (s *Store) Get(id string) Record {
	return s.records[id]
}

// Len returns the number of questions with a record.
func (s *Store) Len() int {
	return len(s.records)
}

// Snapshot returns a copy of every record.
func (s *Store) Snapshot() map[string]Record {
	out := make(map[string]Record, len(s.records))
	for id, r := range s.records {
		out[id] = r
	}
	return out
}

// IDs returns the recorded question IDs in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Adopt re-keys records stored under a bare file name (the legacy layout)
// to the matching question ID when exactly one ID has that base name.
func (s *Store) Adopt(ids []string) {
	known := make(map[string]bool, len(ids))
	byBase := make(map[string][]string)
	for _, id := range ids {
		known[id] = true
		base := path.Base(id)
		byBase[base] = append(byBase[base], id)
	}
	for key, r := range s.records {
		if known[key] {
			continue
		}
		matches := byBase[key]
		if len(matches) != 1 {
			continue
		}
		if _, taken := s.records[matches[0]]; taken {
			continue
		}
		s.records[matches[0]] = r
		delete(s.records, key)
	}
}
