package roster

// Entry assigns one driver to one fantasy team. Roster data is
// community curated; it is joined as-is, never validated against the
// driver table.
type Entry struct {
	Team     string
	DriverID string
}
