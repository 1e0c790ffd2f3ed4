// Package memory keeps resolution patterns from past successful runs and
// serves them back as hints for plan generation.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Pattern records how a past run resolved an intent. Patterns are appended
// on successful runs and never deleted or updated; unbounded growth is an
// accepted tradeoff of the append-only log.
type Pattern struct {
	IntentGoal    string    `json:"intent_goal"`
	Language      string    `json:"language"`
	Framework     string    `json:"framework"`
	Resolution    string    `json:"resolution"`
	FilesModified []string  `json:"files_modified"`
	Timestamp     time.Time `json:"timestamp"`
}

// String renders the pattern for substring matching and prompt injection.
func (p Pattern) String() string {
	return fmt.Sprintf("%s %s %s %s %s",
		p.IntentGoal, p.Language, p.Framework, p.Resolution,
		strings.Join(p.FilesModified, " "))
}

// Store is an append-only collection of patterns with substring lookup.
// It has an explicit lifecycle: construct one per process (or per test)
// and inject it where needed.
type Store struct {
	mu       sync.RWMutex
	patterns []Pattern
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Store appends a pattern. The timestamp is filled in if unset.
func (s *Store) Store(p Pattern) {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, p)
}

// Lookup returns at most limit patterns whose string form contains the
// query, case-insensitively, newest first. A limit <= 0 means no cap.
func (s *Store) Lookup(query string, limit int) []Pattern {
	queryLower := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Pattern
	for i := len(s.patterns) - 1; i >= 0; i-- {
		p := s.patterns[i]
		if strings.Contains(strings.ToLower(p.String()), queryLower) {
			results = append(results, p)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results
}

// Count returns the number of stored patterns.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}
