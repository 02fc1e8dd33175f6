package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS digests (
    id BIGSERIAL PRIMARY KEY,
    date DATE NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    html_content TEXT NOT NULL DEFAULT '',
    raw_movies TEXT NOT NULL DEFAULT '',
    raw_tv TEXT NOT NULL DEFAULT '',
    raw_games TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS digest_sections (
    id BIGSERIAL PRIMARY KEY,
    digest_id BIGINT NOT NULL REFERENCES digests(id),
    section_type TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    raw_data TEXT NOT NULL DEFAULT '',
    display_order INT NOT NULL DEFAULT 0,
    item_count INT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_digest_sections_digest ON digest_sections (digest_id);
`

const digestColumns = "id, date, title, summary, html_content, raw_movies, raw_tv, raw_games, status, created_at, updated_at"

// PostgresRepository persists digest documents into Postgres. The UNIQUE
// constraint on date enforces the one-digest-per-date invariant at the store.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DigestRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Upsert creates or updates the digest row for its date and replaces its
// section rows. The digest ID is filled from the database. created_at is set
// only on first insert; conflicting writes keep it and take the new content.
func (r *PostgresRepository) Upsert(ctx context.Context, digest *domain.Digest) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("digests").
		Columns("date", "title", "summary", "html_content", "raw_movies", "raw_tv", "raw_games", "status", "created_at", "updated_at").
		Values(digest.Date, digest.Title, digest.Summary, digest.HTMLContent,
			digest.RawMovies, digest.RawTV, digest.RawGames,
			string(digest.Status), digest.CreatedAt, digest.UpdatedAt).
		Suffix(`ON CONFLICT (date) DO UPDATE SET
            title = EXCLUDED.title,
            summary = EXCLUDED.summary,
            html_content = EXCLUDED.html_content,
            raw_movies = EXCLUDED.raw_movies,
            raw_tv = EXCLUDED.raw_tv,
            raw_games = EXCLUDED.raw_games,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at
            RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&digest.ID); err != nil {
		return fmt.Errorf("upsert digest: %w", err)
	}

	return r.replaceSections(ctx, digest)
}

// replaceSections deletes and reinserts the digest's section rows. The
// original design cascaded this through the ORM; here it is an explicit
// delete-then-insert per digest.
func (r *PostgresRepository) replaceSections(ctx context.Context, digest *domain.Digest) error {
	query, args, err := r.builder.
		Delete("digest_sections").
		Where(sq.Eq{"digest_id": digest.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build section delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}

	if len(digest.Sections) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("digest_sections").
		Columns("digest_id", "section_type", "title", "raw_data", "display_order", "item_count")
	for i := range digest.Sections {
		section := &digest.Sections[i]
		section.DigestID = digest.ID
		insert = insert.Values(section.DigestID, string(section.SectionType),
			section.Title, section.RawData, section.DisplayOrder, section.ItemCount)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("build section insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sections: %w", err)
	}

	return nil
}

// FindByDate returns the digest for the given calendar date.
func (r *PostgresRepository) FindByDate(ctx context.Context, date time.Time) (*domain.Digest, error) {
	if r.db == nil {
		return nil, domain.ErrDigestNotFound
	}

	query, args, err := r.builder.
		Select(digestColumns).
		From("digests").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find by date: %w", err)
	}

	return r.queryOne(ctx, query, args)
}

// FindLatestCompleted returns the most recent digest in COMPLETED status.
func (r *PostgresRepository) FindLatestCompleted(ctx context.Context) (*domain.Digest, error) {
	if r.db == nil {
		return nil, domain.ErrDigestNotFound
	}

	query, args, err := r.builder.
		Select(digestColumns).
		From("digests").
		Where(sq.Eq{"status": string(domain.StatusCompleted)}).
		OrderBy("date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find latest: %w", err)
	}

	return r.queryOne(ctx, query, args)
}

// ListRecentByStatus returns up to limit digests in the given status, newest
// first. Sections and payloads stay on the row; the listing is metadata-only
// for the caller.
func (r *PostgresRepository) ListRecentByStatus(ctx context.Context, status domain.DigestStatus, limit int) ([]domain.Digest, error) {
	if r.db == nil {
		return []domain.Digest{}, nil
	}

	query, args, err := r.builder.
		Select(digestColumns).
		From("digests").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("date DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list recent: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list digests: %w", err)
	}
	defer rows.Close()

	digests := make([]domain.Digest, 0, limit)
	for rows.Next() {
		digest, err := scanDigest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		digests = append(digests, *digest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return digests, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args []interface{}) (*domain.Digest, error) {
	digest, err := scanDigest(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDigestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query digest: %w", err)
	}

	if err := r.loadSections(ctx, digest); err != nil {
		return nil, err
	}
	return digest, nil
}

// loadSections is the explicit second query replacing the original's lazy
// association loading.
func (r *PostgresRepository) loadSections(ctx context.Context, digest *domain.Digest) error {
	query, args, err := r.builder.
		Select("id", "digest_id", "section_type", "title", "raw_data", "display_order", "item_count").
		From("digest_sections").
		Where(sq.Eq{"digest_id": digest.ID}).
		OrderBy("display_order").
		ToSql()
	if err != nil {
		return fmt.Errorf("build section select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var section domain.DigestSection
		var sectionType string
		if err := rows.Scan(&section.ID, &section.DigestID, &sectionType,
			&section.Title, &section.RawData, &section.DisplayOrder, &section.ItemCount); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		section.SectionType = domain.SectionType(sectionType)
		digest.Sections = append(digest.Sections, section)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("section rows iteration: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDigest(row rowScanner) (*domain.Digest, error) {
	var digest domain.Digest
	var status string
	if err := row.Scan(&digest.ID, &digest.Date, &digest.Title, &digest.Summary,
		&digest.HTMLContent, &digest.RawMovies, &digest.RawTV, &digest.RawGames,
		&status, &digest.CreatedAt, &digest.UpdatedAt); err != nil {
		return nil, err
	}
	digest.Status = domain.DigestStatus(status)
	return &digest, nil
}
