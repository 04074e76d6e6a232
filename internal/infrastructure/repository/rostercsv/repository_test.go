package rostercsv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/f1antasy/internal/domain/roster"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fantasy_rosters.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRepository_ParsesPandasStyleCSV(t *testing.T) {
	t.Parallel()

	path := writeRoster(t, ",Team,Driver,DriverID\n"+
		"0,3 Orange Whips,Lewis Hamilton,hamilton\n"+
		"1,Deep Fried,Max Verstappen,max_verstappen\n"+
		"2,Deep Fried,,\n")

	repo, err := NewRepository(path)
	require.NoError(t, err)

	entries, err := repo.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roster.Entry{
		{Team: "3 Orange Whips", DriverID: "hamilton"},
		{Team: "Deep Fried", DriverID: "max_verstappen"},
	}, entries)
}

func TestNewRepository_RequiresTeamAndDriverColumns(t *testing.T) {
	t.Parallel()

	path := writeRoster(t, "Team,Name\nDeep Fried,Max\n")

	_, err := NewRepository(path)
	require.Error(t, err)
}

func TestListEntries_ReturnsCopies(t *testing.T) {
	t.Parallel()

	path := writeRoster(t, "Team,DriverID\nDeep Fried,max_verstappen\n")
	repo, err := NewRepository(path)
	require.NoError(t, err)

	first, err := repo.ListEntries(context.Background())
	require.NoError(t, err)
	first[0].Team = "mutated"

	second, err := repo.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Deep Fried", second[0].Team)
}
