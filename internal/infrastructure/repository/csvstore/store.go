package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pitwall/f1antasy/internal/usecase"
)

// Files names the five table files inside the data directory.
type Files struct {
	Races        string
	Circuits     string
	Results      string
	Drivers      string
	Constructors string
}

func DefaultFiles() Files {
	return Files{
		Races:        "races.csv",
		Circuits:     "circuits.csv",
		Results:      "results.csv",
		Drivers:      "drivers.csv",
		Constructors: "constructors.csv",
	}
}

// Store persists the five tables as flat CSV files with a leading
// row-index column and a header row. All five files are written on
// every save so the directory always holds one mutually consistent
// snapshot.
type Store struct {
	dir   string
	files Files
}

func NewStore(dir string, files Files) *Store {
	defaults := DefaultFiles()
	if files.Races == "" {
		files.Races = defaults.Races
	}
	if files.Circuits == "" {
		files.Circuits = defaults.Circuits
	}
	if files.Results == "" {
		files.Results = defaults.Results
	}
	if files.Drivers == "" {
		files.Drivers = defaults.Drivers
	}
	if files.Constructors == "" {
		files.Constructors = defaults.Constructors
	}
	return &Store{dir: dir, files: files}
}

// Load reads all five tables. It reports loaded=false, with no error,
// when the directory was just created or any table file is missing; a
// partially populated TableSet is never returned.
func (s *Store) Load(_ context.Context) (usecase.TableSet, bool, error) {
	if _, err := os.Stat(s.dir); err != nil {
		if !os.IsNotExist(err) {
			return usecase.TableSet{}, false, fmt.Errorf("stat data directory: %w", err)
		}
		if mkErr := os.MkdirAll(s.dir, 0o755); mkErr != nil {
			return usecase.TableSet{}, false, fmt.Errorf("create data directory: %w", mkErr)
		}
		return usecase.TableSet{}, false, nil
	}

	for _, name := range []string{s.files.Races, s.files.Circuits, s.files.Results, s.files.Drivers, s.files.Constructors} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			if os.IsNotExist(err) {
				return usecase.TableSet{}, false, nil
			}
			return usecase.TableSet{}, false, fmt.Errorf("stat %s: %w", name, err)
		}
	}

	var tables usecase.TableSet
	var err error
	if tables.Races, err = readTable(filepath.Join(s.dir, s.files.Races), raceHeader, decodeRace); err != nil {
		return usecase.TableSet{}, false, err
	}
	if tables.Circuits, err = readTable(filepath.Join(s.dir, s.files.Circuits), circuitHeader, decodeCircuit); err != nil {
		return usecase.TableSet{}, false, err
	}
	if tables.Results, err = readTable(filepath.Join(s.dir, s.files.Results), resultHeader, decodeResult); err != nil {
		return usecase.TableSet{}, false, err
	}
	if tables.Drivers, err = readTable(filepath.Join(s.dir, s.files.Drivers), driverHeader, decodeDriver); err != nil {
		return usecase.TableSet{}, false, err
	}
	if tables.Constructors, err = readTable(filepath.Join(s.dir, s.files.Constructors), constructorHeader, decodeConstructor); err != nil {
		return usecase.TableSet{}, false, err
	}

	return tables, true, nil
}

// Save writes all five tables. Each file is written to a temp file and
// renamed into place so a crash never leaves a half-written table.
func (s *Store) Save(_ context.Context, tables usecase.TableSet) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	if err := writeTable(filepath.Join(s.dir, s.files.Races), raceHeader, tables.Races, encodeRace); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(s.dir, s.files.Circuits), circuitHeader, tables.Circuits, encodeCircuit); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(s.dir, s.files.Results), resultHeader, tables.Results, encodeResult); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(s.dir, s.files.Drivers), driverHeader, tables.Drivers, encodeDriver); err != nil {
		return err
	}
	return writeTable(filepath.Join(s.dir, s.files.Constructors), constructorHeader, tables.Constructors, encodeConstructor)
}

func readTable[T any](path string, header []string, decode func([]string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header) + 1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", filepath.Base(path))
	}
	if err := checkHeader(records[0], header); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	out := make([]T, 0, len(records)-1)
	for i, record := range records[1:] {
		// record[0] is the row index; it is regenerated on save.
		item, err := decode(record[1:])
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", filepath.Base(path), i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func writeTable[T any](path string, header []string, items []T, encode func(T) []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	if err := writer.Write(append([]string{""}, header...)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s header: %w", filepath.Base(path), err)
	}
	for i, item := range items {
		record := append([]string{itoa(i)}, encode(item)...)
		if err := writer.Write(record); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("write %s row %d: %w", filepath.Base(path), i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want)+1 || got[0] != "" {
		return fmt.Errorf("unexpected header %v", got)
	}
	for i, name := range want {
		if got[i+1] != name {
			return fmt.Errorf("unexpected header column %q, want %q", got[i+1], name)
		}
	}
	return nil
}
