package rostercsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pitwall/f1antasy/internal/domain/roster"
)

// Repository serves fantasy roster entries from a curated CSV file.
// The file needs Team and DriverID columns; anything else (including a
// pandas-style leading index column) is ignored. Rows are read once at
// construction; the roster changes by redeploying the file.
type Repository struct {
	entries []roster.Entry
}

func NewRepository(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("roster %s is empty", path)
	}

	teamCol, driverCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "Team":
			teamCol = i
		case "DriverID":
			driverCol = i
		}
	}
	if teamCol < 0 || driverCol < 0 {
		return nil, fmt.Errorf("roster %s needs Team and DriverID columns, got %v", path, records[0])
	}

	entries := make([]roster.Entry, 0, len(records)-1)
	for i, record := range records[1:] {
		if teamCol >= len(record) || driverCol >= len(record) {
			return nil, fmt.Errorf("roster %s row %d is too short", path, i)
		}
		team := strings.TrimSpace(record[teamCol])
		driverID := strings.TrimSpace(record[driverCol])
		if team == "" || driverID == "" {
			continue
		}
		entries = append(entries, roster.Entry{Team: team, DriverID: driverID})
	}

	return &Repository{entries: entries}, nil
}

func (r *Repository) ListEntries(_ context.Context) ([]roster.Entry, error) {
	out := make([]roster.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}
