package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/query"
)

// SQLite is the durable Store implementation.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open catalog db: %w (%v)", ErrUnavailable, err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate catalog db: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  published_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  source_type TEXT NOT NULL DEFAULT 'third-party',
  status TEXT NOT NULL DEFAULT 'active',
  category TEXT NOT NULL DEFAULT '',
  industry TEXT NOT NULL DEFAULT '',
  job_type TEXT NOT NULL DEFAULT 'full-time',
  experience_level TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT 'unclassified',
  timezone TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  requirements TEXT NOT NULL DEFAULT '[]',
  benefits TEXT NOT NULL DEFAULT '[]',
  is_remote INTEGER NOT NULL DEFAULT 0,
  is_trusted INTEGER NOT NULL DEFAULT 0,
  can_refer INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_approved INTEGER NOT NULL DEFAULT 1,
  is_manually_edited INTEGER NOT NULL DEFAULT 0,
  company_id TEXT NOT NULL DEFAULT '',
  translations TEXT NOT NULL DEFAULT '{}',
  is_translated INTEGER NOT NULL DEFAULT 0,
  translated_at TEXT,
  risk_rating TEXT NOT NULL DEFAULT '',
  haigoo_comment TEXT NOT NULL DEFAULT '',
  hidden_fields TEXT NOT NULL DEFAULT '[]'
);
`); err != nil {
		return err
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_published_at ON jobs(published_at);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_region ON jobs(region);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);`,
	} {
		if _, err := tx.Exec(idx); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

const jobColumns = `id, title, company, location, description, url,
published_at, created_at, updated_at, source, source_type, status,
category, industry, job_type, experience_level, salary, region, timezone,
tags, requirements, benefits,
is_remote, is_trusted, can_refer, is_featured, is_approved, is_manually_edited,
company_id, translations, is_translated, translated_at,
risk_rating, haigoo_comment, hidden_fields`

func (s *SQLite) Select(ctx context.Context, pred query.Pred) ([]domain.JobPosting, error) {
	where, args := renderPred(pred)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
SELECT %s FROM jobs WHERE %s ORDER BY published_at DESC, id;`, jobColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w (%v)", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select jobs: %w (%v)", ErrUnavailable, err)
	}
	return out, nil
}

func (s *SQLite) UpsertBatch(ctx context.Context, batch []domain.JobPosting, resolve ResolveFunc) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("upsert batch: %w (%v)", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for _, p := range batch {
		row := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM jobs WHERE id = ?;`, jobColumns), p.ID)
		existing, err := scanJob(row)
		switch {
		case err == sql.ErrNoRows:
			// plain insert
		case err != nil:
			return 0, fmt.Errorf("upsert lookup %s: %w (%v)", p.ID, ErrUnavailable, err)
		default:
			p = resolve(existing, p)
		}
		if err := insertJob(ctx, tx, p); err != nil {
			return 0, fmt.Errorf("upsert %s: %w (%v)", p.ID, ErrUnavailable, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert commit: %w (%v)", ErrUnavailable, err)
	}
	return written, nil
}

func (s *SQLite) ReplaceAll(ctx context.Context, batch []domain.JobPosting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace: %w (%v)", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return fmt.Errorf("replace clear: %w (%v)", ErrUnavailable, err)
	}
	for _, p := range batch {
		if err := insertJob(ctx, tx, p); err != nil {
			return fmt.Errorf("replace insert %s: %w (%v)", p.ID, ErrUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace commit: %w (%v)", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLite) GetByID(ctx context.Context, id string) (domain.JobPosting, bool, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM jobs WHERE id = ?;`, jobColumns), id)
	p, err := scanJob(row)
	if err == sql.ErrNoRows {
		return domain.JobPosting{}, false, nil
	}
	if err != nil {
		return domain.JobPosting{}, false, fmt.Errorf("get job: %w (%v)", ErrUnavailable, err)
	}
	return p, true, nil
}

func (s *SQLite) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete job: %w (%v)", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLite) DeleteOlderThan(ctx context.Context, cutoff time.Time, sources []string) (int64, error) {
	q := `DELETE FROM jobs WHERE published_at < ? AND is_manually_edited = 0`
	args := []any{cutoff.UTC().Format(time.RFC3339)}
	if len(sources) > 0 {
		q += ` AND lower(source) IN (` + strings.TrimRight(strings.Repeat("?,", len(sources)), ",") + `)`
		for _, src := range sources {
			args = append(args, strings.ToLower(src))
		}
	}
	res, err := s.db.ExecContext(ctx, q+`;`, args...)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w (%v)", ErrUnavailable, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Checkpoint flushes the WAL into the main database file so the data
// directory can be snapshotted safely.
func (s *SQLite) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`); err != nil {
		return fmt.Errorf("checkpoint: %w (%v)", ErrUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.JobPosting, error) {
	var p domain.JobPosting
	var publishedAt, createdAt, updatedAt string
	var translatedAt sql.NullString
	var tagsJSON, reqsJSON, benefitsJSON, translationsJSON, hiddenJSON string
	var isRemote, isTrusted, canRefer, isFeatured, isApproved, isEdited, isTranslated int

	err := r.Scan(
		&p.ID, &p.Title, &p.Company, &p.Location, &p.Description, &p.URL,
		&publishedAt, &createdAt, &updatedAt, &p.Source, &p.SourceType, &p.Status,
		&p.Category, &p.Industry, &p.JobType, &p.ExperienceLevel, &p.Salary, &p.Region, &p.Timezone,
		&tagsJSON, &reqsJSON, &benefitsJSON,
		&isRemote, &isTrusted, &canRefer, &isFeatured, &isApproved, &isEdited,
		&p.CompanyID, &translationsJSON, &isTranslated, &translatedAt,
		&p.RiskRating, &p.HaigooComment, &hiddenJSON,
	)
	if err != nil {
		return domain.JobPosting{}, err
	}

	p.PublishedAt, _ = time.Parse(time.RFC3339, publishedAt)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if translatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, translatedAt.String); err == nil {
			p.TranslatedAt = &t
		}
	}

	_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
	_ = json.Unmarshal([]byte(reqsJSON), &p.Requirements)
	_ = json.Unmarshal([]byte(benefitsJSON), &p.Benefits)
	_ = json.Unmarshal([]byte(translationsJSON), &p.Translations)
	_ = json.Unmarshal([]byte(hiddenJSON), &p.HiddenFields)

	p.IsRemote = isRemote != 0
	p.IsTrusted = isTrusted != 0
	p.CanRefer = canRefer != 0
	p.IsFeatured = isFeatured != 0
	p.IsApproved = isApproved != 0
	p.IsManuallyEdited = isEdited != 0
	p.IsTranslated = isTranslated != 0
	return p, nil
}

func insertJob(ctx context.Context, tx *sql.Tx, p domain.JobPosting) error {
	toJSON := func(v any) string {
		b, _ := json.Marshal(v)
		return string(b)
	}
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	var translatedAt any
	if p.TranslatedAt != nil {
		translatedAt = p.TranslatedAt.UTC().Format(time.RFC3339)
	}
	tags, reqs, bens, hidden := p.Tags, p.Requirements, p.Benefits, p.HiddenFields
	if tags == nil {
		tags = []string{}
	}
	if reqs == nil {
		reqs = []string{}
	}
	if bens == nil {
		bens = []string{}
	}
	if hidden == nil {
		hidden = []string{}
	}
	translations := p.Translations
	if translations == nil {
		translations = map[string]string{}
	}

	_, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO jobs (`+jobColumns+`)
VALUES (?,?,?,?,?,?, ?,?,?, ?,?,?, ?,?,?,?,?,?,?, ?,?,?, ?,?,?,?,?,?, ?,?,?,?, ?,?,?);`,
		p.ID, p.Title, p.Company, p.Location, p.Description, p.URL,
		p.PublishedAt.UTC().Format(time.RFC3339),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.Source, string(p.SourceType), p.Status,
		p.Category, p.Industry, p.JobType, p.ExperienceLevel, p.Salary, string(p.Region), p.Timezone,
		toJSON(tags), toJSON(reqs), toJSON(bens),
		b2i(p.IsRemote), b2i(p.IsTrusted), b2i(p.CanRefer), b2i(p.IsFeatured), b2i(p.IsApproved), b2i(p.IsManuallyEdited),
		p.CompanyID, toJSON(translations), b2i(p.IsTranslated), translatedAt,
		p.RiskRating, p.HaigooComment, toJSON(hidden),
	)
	return err
}
