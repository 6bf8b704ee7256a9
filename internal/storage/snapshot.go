package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
)

// SnapshotStore persists a JSON snapshot of each loan and its payment
// sequence on the local filesystem, keyed by loan reference. It is a plain
// serialization collaborator: the engine performs no I/O itself, and the
// snapshot carries no durability guarantee beyond the single latest file.
type SnapshotStore struct {
	basePath string
}

// LoanSnapshot is the on-disk shape of a saved loan. Dates serialize as
// ISO-8601 strings through time.Time's JSON encoding.
type LoanSnapshot struct {
	SavedAt  time.Time        `json:"saved_at"`
	Loan     models.Loan      `json:"loan"`
	Payments []models.Payment `json:"payments"`
}

// NewSnapshotStore creates a snapshot store rooted at basePath
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	dir := filepath.Join(basePath, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotStore{basePath: dir}, nil
}

// Save writes the loan snapshot, replacing any previous one. The write goes
// through a temp file and rename so a crash never leaves a torn snapshot.
func (s *SnapshotStore) Save(loan *models.Loan, payments []models.Payment) error {
	snapshot := LoanSnapshot{
		SavedAt:  time.Now(),
		Loan:     *loan,
		Payments: payments,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := s.pathFor(loan.Reference)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// Load reads a loan snapshot back, restoring dates from their ISO-8601 form.
func (s *SnapshotStore) Load(reference string) (*LoanSnapshot, error) {
	data, err := os.ReadFile(s.pathFor(reference))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot LoanSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snapshot, nil
}

// Delete removes a loan's snapshot, missing files included.
func (s *SnapshotStore) Delete(reference string) error {
	err := os.Remove(s.pathFor(reference))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists checks whether a snapshot is present for the reference
func (s *SnapshotStore) Exists(reference string) bool {
	_, err := os.Stat(s.pathFor(reference))
	return err == nil
}

func (s *SnapshotStore) pathFor(reference string) string {
	// Loan references are UUIDs, but never trust a path segment.
	name := strings.ReplaceAll(reference, string(os.PathSeparator), "_")
	return filepath.Join(s.basePath, name+".json")
}
