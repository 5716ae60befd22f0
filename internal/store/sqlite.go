// Package store persists the profile cache, the search audit log, and
// register fetch metadata in a local sqlite database. The lookup indexes
// themselves are never persisted; they rebuild from the source file at
// process start.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Profile is one cached external-profile row for a company.
type Profile struct {
	CompanyName     string    `json:"company_name"`
	LinkedInURL     string    `json:"linkedin_url,omitempty"`
	LinkedInTitle   string    `json:"linkedin_title,omitempty"`
	IndeedURL       string    `json:"indeed_url,omitempty"`
	GlassdoorURL    string    `json:"glassdoor_url,omitempty"`
	GlassdoorRating string    `json:"glassdoor_rating,omitempty"`
	WebsiteURL      string    `json:"website_url,omitempty"`
	CachedAt        time.Time `json:"cached_at"`
}

// New opens a sqlite database at the given path and configures WAL mode.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS profiles (
	company_name     TEXT PRIMARY KEY,
	linkedin_url     TEXT,
	linkedin_title   TEXT,
	indeed_url       TEXT,
	glassdoor_url    TEXT,
	glassdoor_rating TEXT,
	website_url      TEXT,
	cached_at        DATETIME NOT NULL,
	refresh_after    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	result_count INTEGER NOT NULL,
	top_score    REAL NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_refresh_after ON profiles(refresh_after);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
`

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetProfile returns the cached profile for a company, or nil when the
// cache has no fresh entry.
func (s *Store) GetProfile(ctx context.Context, companyName string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_name, linkedin_url, linkedin_title, indeed_url,
		        glassdoor_url, glassdoor_rating, website_url, cached_at
		 FROM profiles WHERE company_name = ? AND refresh_after > ?`,
		companyName, time.Now().UTC(),
	)

	var p Profile
	err := row.Scan(&p.CompanyName, &p.LinkedInURL, &p.LinkedInTitle, &p.IndeedURL,
		&p.GlassdoorURL, &p.GlassdoorRating, &p.WebsiteURL, &p.CachedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", companyName)
	}
	return &p, nil
}

// PutProfile upserts a profile with the given TTL.
func (s *Store) PutProfile(ctx context.Context, p Profile, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO profiles
		 (company_name, linkedin_url, linkedin_title, indeed_url, glassdoor_url,
		  glassdoor_rating, website_url, cached_at, refresh_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CompanyName, p.LinkedInURL, p.LinkedInTitle, p.IndeedURL,
		p.GlassdoorURL, p.GlassdoorRating, p.WebsiteURL, now, now.Add(ttl),
	)
	return eris.Wrapf(err, "sqlite: put profile %s", p.CompanyName)
}

// StaleProfiles returns company names whose cache entries are past their
// refresh deadline, oldest first, up to limit.
func (s *Store) StaleProfiles(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_name FROM profiles WHERE refresh_after < ?
		 ORDER BY refresh_after ASC LIMIT ?`,
		time.Now().UTC(), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stale profiles")
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stale profile")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "sqlite: iterate stale profiles")
}

// RecordSearch appends one row to the search audit log.
func (s *Store) RecordSearch(ctx context.Context, query string, resultCount int, topScore float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, result_count, top_score, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), query, resultCount, topScore, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: record search")
}

// TotalSearches returns the number of recorded searches.
func (s *Store) TotalSearches(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: total searches")
}

// GetMeta returns the value stored under key, or "" when absent.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, eris.Wrapf(err, "sqlite: get meta %s", key)
}

// SetMeta upserts a metadata key.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return eris.Wrapf(err, "sqlite: set meta %s", key)
}
