package presets

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds preset store configuration.
type Config struct {
	DataDir string
}

// Store is the SQLite-backed preset catalog.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite in WAL mode,
// runs migrations and seeds the built-in presets.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("presets: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "presets.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("presets: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("presets: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("presets: migration: %w", err)
	}
	if err := s.seed(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("presets: seed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS presets (
			id         TEXT    PRIMARY KEY,
			label      TEXT    NOT NULL,
			rough      TEXT    NOT NULL,
			polished   TEXT    NOT NULL DEFAULT '',
			builtin    INTEGER NOT NULL DEFAULT 0,
			position   INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_presets_order ON presets(builtin DESC, position, created_at);
	`)
	return err
}

// seed inserts missing built-ins. Existing rows are left alone so a
// re-open never duplicates or resets them.
func (s *Store) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for i, p := range Builtins() {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO presets (id, label, rough, polished, builtin, position)
			 VALUES (?, ?, ?, ?, 1, ?)`,
			p.ID, p.Label, p.Rough, p.Polished, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// List returns built-ins in their fixed order, then user presets oldest
// first.
func (s *Store) List() ([]Preset, error) {
	rows, err := s.db.Query(`
		SELECT id, label, rough, polished, builtin, created_at
		FROM presets
		ORDER BY builtin DESC, position, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("presets: list: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("presets: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns one preset by id.
func (s *Store) Get(id string) (*Preset, error) {
	row := s.db.QueryRow(
		`SELECT id, label, rough, polished, builtin, created_at FROM presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("presets: get %s: %w", id, err)
	}
	return &p, nil
}

// AddParams holds input for a user preset. An empty ID gets a generated one.
type AddParams struct {
	ID       string
	Label    string
	Rough    string
	Polished string
}

// Add stores a new user preset.
func (s *Store) Add(params AddParams) (*Preset, error) {
	p := Preset{
		ID:       strings.TrimSpace(params.ID),
		Label:    strings.TrimSpace(params.Label),
		Rough:    strings.TrimSpace(params.Rough),
		Polished: strings.TrimSpace(params.Polished),
	}
	if p.ID == "" {
		p.ID = "preset-" + uuid.NewString()[:8]
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO presets (id, label, rough, polished, builtin) VALUES (?, ?, ?, ?, 0)`,
		p.ID, p.Label, p.Rough, p.Polished,
	)
	if err != nil {
		return nil, fmt.Errorf("presets: add %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExists, p.ID)
	}
	return s.Get(p.ID)
}

// Delete removes a user preset.
func (s *Store) Delete(id string) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if p.Builtin {
		return fmt.Errorf("%w: %s", ErrBuiltin, id)
	}
	if _, err := s.db.Exec(`DELETE FROM presets WHERE id = ? AND builtin = 0`, id); err != nil {
		return fmt.Errorf("presets: delete %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (Preset, error) {
	var p Preset
	var builtin int
	err := row.Scan(&p.ID, &p.Label, &p.Rough, &p.Polished, &builtin, &p.CreatedAt)
	p.Builtin = builtin == 1
	return p, err
}
