// Package audit provides the run journal for test runs.
// Events are stored as JSON Lines (JSONL) files, one per test name.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Outcome classifies a step event.
type Outcome string

const (
	OutcomeStart   Outcome = "start"
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Test      string    `json:"test"`
	Step      string    `json:"step"`
	Outcome   Outcome   `json:"outcome"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads run events.
// Events are stored in {stateDir}/runs/{test}.events.jsonl.
type Logger struct {
	stateDir string
}

// NewLogger creates a new run journal rooted at stateDir.
func NewLogger(stateDir string) *Logger {
	return &Logger{stateDir: stateDir}
}

// eventPath returns the path to the JSONL event log for a test.
func (l *Logger) eventPath(test string) (string, error) {
	return securejoin.SecureJoin(filepath.Join(l.stateDir, "runs"), test+".events.jsonl")
}

// Path returns where events for test are stored.
func (l *Logger) Path(test string) (string, error) {
	return l.eventPath(test)
}

// Log appends an event to the test's journal.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Test)
	if err != nil {
		return fmt.Errorf("invalid journal path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogStep is a convenience method that creates and logs a step event.
func (l *Logger) LogStep(runID, test, step string, outcome Outcome, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		RunID:     runID,
		Test:      test,
		Step:      step,
		Outcome:   outcome,
		Details:   details,
	})
}

// Events reads all events for a test in chronological order.
func (l *Logger) Events(test string) ([]Event, error) {
	path, err := l.eventPath(test)
	if err != nil {
		return nil, fmt.Errorf("invalid journal path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// Runs groups events by run id, preserving first-seen order.
func Runs(events []Event) [][]Event {
	var order []string
	byID := make(map[string][]Event)
	for _, e := range events {
		if _, ok := byID[e.RunID]; !ok {
			order = append(order, e.RunID)
		}
		byID[e.RunID] = append(byID[e.RunID], e)
	}

	runs := make([][]Event, 0, len(order))
	for _, id := range order {
		runs = append(runs, byID[id])
	}
	return runs
}

// Remove deletes the journal for a test.
func (l *Logger) Remove(test string) error {
	path, err := l.eventPath(test)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
