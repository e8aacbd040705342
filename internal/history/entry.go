package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// Kind distinguishes single runs from compare runs.
type Kind string

const (
	KindRun     Kind = "run"
	KindCompare Kind = "compare"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("history entry not found")

// Entry is one stored run.
type Entry struct {
	ID            string          `json:"id"`
	Kind          Kind            `json:"kind"`
	Mode          models.Mode     `json:"mode"`
	Provider      string          `json:"provider"`
	InputText     string          `json:"input_text"`
	TokenEstimate int             `json:"token_estimate"`
	CreatedAt     time.Time       `json:"created_at"`
	Payload       json.RawMessage `json:"payload"`
}

// FromRun builds an entry for a single-provider run.
func FromRun(spec *models.TaskSpec, out *models.TaskRunOutput) (*Entry, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode run output: %w", err)
	}
	return &Entry{
		Kind:          KindRun,
		Mode:          spec.Mode,
		Provider:      string(out.Provider),
		InputText:     spec.InputText,
		TokenEstimate: out.TokenEstimate,
		Payload:       payload,
	}, nil
}

// FromCompare builds an entry for a compare run. Provider lists every
// provider in the run, comma-separated.
func FromCompare(spec *models.TaskSpec, out *models.CompareRunOutput) (*Entry, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode compare output: %w", err)
	}
	names := make([]string, len(out.Entries))
	for i, e := range out.Entries {
		names[i] = string(e.Provider)
	}
	return &Entry{
		Kind:          KindCompare,
		Mode:          spec.Mode,
		Provider:      strings.Join(names, ","),
		InputText:     spec.InputText,
		TokenEstimate: out.TokenEstimate,
		Payload:       payload,
	}, nil
}

// RunOutput decodes the payload of a KindRun entry.
func (e *Entry) RunOutput() (*models.TaskRunOutput, error) {
	if e.Kind != KindRun {
		return nil, fmt.Errorf("entry %s is a %s entry", e.ID, e.Kind)
	}
	var out models.TaskRunOutput
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return nil, fmt.Errorf("decode run output: %w", err)
	}
	return &out, nil
}

// CompareOutput decodes the payload of a KindCompare entry.
func (e *Entry) CompareOutput() (*models.CompareRunOutput, error) {
	if e.Kind != KindCompare {
		return nil, fmt.Errorf("entry %s is a %s entry", e.ID, e.Kind)
	}
	var out models.CompareRunOutput
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return nil, fmt.Errorf("decode compare output: %w", err)
	}
	return &out, nil
}

// Save stores e, assigning its ID and creation time when unset.
func (db *DB) Save(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()[:8]
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := db.exec(`
		INSERT INTO entries (id, kind, mode, provider, input_text, created_at, payload, token_estimate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Kind), string(e.Mode), e.Provider, e.InputText, formatTime(e.CreatedAt), string(e.Payload), e.TokenEstimate)
	if err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by ID.
func (db *DB) Get(id string) (*Entry, error) {
	row := db.queryRow(`
		SELECT id, kind, mode, provider, input_text, created_at, payload, token_estimate
		FROM entries WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get history entry: %w", err)
	}
	return e, nil
}

// List returns the newest entries first. A limit of zero or less returns all.
func (db *DB) List(limit int) ([]Entry, error) {
	query := `
		SELECT id, kind, mode, provider, input_text, created_at, payload, token_estimate
		FROM entries ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Delete removes an entry by ID.
func (db *DB) Delete(id string) error {
	res, err := db.exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (db *DB) Clear() (int64, error) {
	res, err := db.exec("DELETE FROM entries")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// PurgeOlderThan deletes entries older than the given age.
func (db *DB) PurgeOlderThan(age time.Duration) (int64, error) {
	res, err := db.exec("DELETE FROM entries WHERE created_at < ?", formatTime(time.Now().Add(-age)))
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e         Entry
		kind      string
		mode      string
		createdAt string
		payload   string
	)
	if err := s.Scan(&e.ID, &kind, &mode, &e.Provider, &e.InputText, &createdAt, &payload, &e.TokenEstimate); err != nil {
		return nil, err
	}
	e.Kind = Kind(kind)
	e.Mode = models.Mode(mode)
	e.CreatedAt, _ = parseTime(createdAt)
	e.Payload = json.RawMessage(payload)
	return &e, nil
}
