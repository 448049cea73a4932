// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS member_profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tagline TEXT,
		intro TEXT,
		interests TEXT,
		strengths TEXT,
		contact TEXT,
		visibility TEXT NOT NULL DEFAULT 'public',
		fixed_role TEXT,
		profile_image TEXT,
		display_order INTEGER DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_display_order ON member_profiles(display_order);

	CREATE TABLE IF NOT EXISTS mafia42_jobs (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		team TEXT,
		story TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_name ON mafia42_jobs(name);
	`
	_, err := db.Exec(schema)
	return err
}

// UpsertProfile inserts or replaces a profile. An empty ID is assigned a new UUID.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	interestsJSON, err := json.Marshal(p.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	strengthsJSON, err := json.Marshal(p.Strengths)
	if err != nil {
		return fmt.Errorf("failed to marshal strengths: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO member_profiles
		 (id, name, tagline, intro, interests, strengths, contact, visibility, fixed_role, profile_image, display_order, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   tagline = excluded.tagline,
		   intro = excluded.intro,
		   interests = excluded.interests,
		   strengths = excluded.strengths,
		   contact = excluded.contact,
		   visibility = excluded.visibility,
		   profile_image = excluded.profile_image,
		   display_order = excluded.display_order,
		   updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Tagline, p.Intro, string(interestsJSON), string(strengthsJSON),
		p.Contact, p.Visibility, p.FixedRole, p.ProfileImage, p.DisplayOrder, p.UpdatedAt,
	)
	return err
}

func scanProfile(scan func(dest ...any) error) (*models.Profile, error) {
	var p models.Profile
	var interestsJSON, strengthsJSON sql.NullString
	var tagline, intro, contact, fixedRole, profileImage sql.NullString
	err := scan(&p.ID, &p.Name, &tagline, &intro, &interestsJSON, &strengthsJSON,
		&contact, &p.Visibility, &fixedRole, &profileImage, &p.DisplayOrder, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Tagline = tagline.String
	p.Intro = intro.String
	p.Contact = contact.String
	p.FixedRole = fixedRole.String
	p.ProfileImage = profileImage.String
	if interestsJSON.String != "" {
		if err := json.Unmarshal([]byte(interestsJSON.String), &p.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
	}
	if strengthsJSON.String != "" {
		if err := json.Unmarshal([]byte(strengthsJSON.String), &p.Strengths); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strengths: %w", err)
		}
	}
	return &p, nil
}

const profileColumns = `id, name, tagline, intro, interests, strengths, contact, visibility, fixed_role, profile_image, display_order, updated_at`

// GetProfile returns a profile by ID. Returns ErrNotFound when absent.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM member_profiles WHERE id = ?`, id)
	p, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return p, err
}

// ListProfiles returns profiles ordered by display order then name.
func (s *SQLiteStorage) ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM member_profiles
		 ORDER BY display_order, name LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// CountProfiles returns the number of stored profiles.
func (s *SQLiteStorage) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM member_profiles`).Scan(&n)
	return n, err
}

// SetFixedRole sets or clears (with empty role) the fixed role override for a member.
func (s *SQLiteStorage) SetFixedRole(ctx context.Context, id, role string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE member_profiles SET fixed_role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertJob inserts or replaces a catalog job keyed by code.
func (s *SQLiteStorage) UpsertJob(ctx context.Context, j *models.Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mafia42_jobs (code, name, team, story) VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   name = excluded.name, team = excluded.team, story = excluded.story`,
		j.Code, j.Name, j.Team, j.Story,
	)
	return err
}

// ReplaceJobs swaps the entire catalog in one transaction.
func (s *SQLiteStorage) ReplaceJobs(ctx context.Context, jobs []*models.Job) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mafia42_jobs`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO mafia42_jobs (code, name, team, story) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, j := range jobs {
		if _, err := stmt.ExecContext(ctx, j.Code, j.Name, j.Team, j.Story); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListJobs returns all catalog jobs ordered by code.
func (s *SQLiteStorage) ListJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, team, story FROM mafia42_jobs ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var j models.Job
		var team, story sql.NullString
		if err := rows.Scan(&j.Code, &j.Name, &team, &story); err != nil {
			return nil, err
		}
		j.Team = team.String
		j.Story = story.String
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (s *SQLiteStorage) getJob(ctx context.Context, where, arg string) (*models.Job, error) {
	var j models.Job
	var team, story sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, team, story FROM mafia42_jobs WHERE `+where+` = ?`, arg,
	).Scan(&j.Code, &j.Name, &team, &story)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	j.Team = team.String
	j.Story = story.String
	return &j, nil
}

// GetJobByCode returns the catalog job with the given code.
func (s *SQLiteStorage) GetJobByCode(ctx context.Context, code string) (*models.Job, error) {
	return s.getJob(ctx, "code", code)
}

// GetJobByName returns the catalog job with the given display name.
func (s *SQLiteStorage) GetJobByName(ctx context.Context, name string) (*models.Job, error) {
	return s.getJob(ctx, "name", name)
}

// CountJobs returns the number of catalog jobs.
func (s *SQLiteStorage) CountJobs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mafia42_jobs`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
