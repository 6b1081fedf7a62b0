package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/svgholder/svgholder/common/db"
	"github.com/svgholder/svgholder/common/models"
)

// Schema statements, run once at startup through the bootstrap DB
// init hook. One statement per Exec: pgx's extended protocol does not
// take multi-statement strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS svgs (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL,
		content       TEXT NOT NULL,
		file_size     BIGINT NOT NULL,
		original_name TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_svgs_created_at ON svgs (created_at DESC)`,
}

const svgColumns = `id, name, description, content, file_size, original_name, created_at, updated_at`

// SvgRepository handles database operations for SVG records
type SvgRepository struct {
	db *db.DB
}

// NewSvgRepository creates a new SVG repository
func NewSvgRepository(db *db.DB) *SvgRepository {
	return &SvgRepository{db: db}
}

// EnsureSchema creates the svgs table if missing
func EnsureSchema(ctx context.Context, db *db.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure svgs schema: %w", err)
		}
	}
	return nil
}

// Insert stores a new record. ID and both timestamps must already be
// set by the caller.
func (r *SvgRepository) Insert(ctx context.Context, svg *models.Svg) error {
	query := `
		INSERT INTO svgs (` + svgColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		svg.ID,
		svg.Name,
		svg.Description,
		svg.Content,
		svg.FileSize,
		svg.OriginalName,
		svg.CreatedAt,
		svg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert svg: %w", err)
	}

	return nil
}

// ListAll returns every record ordered by creation time, newest first
func (r *SvgRepository) ListAll(ctx context.Context) ([]*models.Svg, error) {
	query := `
		SELECT ` + svgColumns + `
		FROM svgs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list svgs: %w", err)
	}
	defer rows.Close()

	return scanSvgs(rows)
}

// FindByID returns the record or (nil, nil) when no record matches
func (r *SvgRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Svg, error) {
	query := `
		SELECT ` + svgColumns + `
		FROM svgs
		WHERE id = $1
	`

	svg := &models.Svg{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&svg.ID,
		&svg.Name,
		&svg.Description,
		&svg.Content,
		&svg.FileSize,
		&svg.OriginalName,
		&svg.CreatedAt,
		&svg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get svg: %w", err)
	}

	return svg, nil
}

// UpdateByID sets name and description, refreshes updated_at, and
// returns the refreshed record. Content, file_size and created_at are
// never touched. Returns (nil, nil) when no record matches.
func (r *SvgRepository) UpdateByID(ctx context.Context, id uuid.UUID, name, description string) (*models.Svg, error) {
	query := `
		UPDATE svgs
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + svgColumns + `
	`

	svg := &models.Svg{}
	err := r.db.QueryRow(ctx, query, id, name, description, time.Now().UTC()).Scan(
		&svg.ID,
		&svg.Name,
		&svg.Description,
		&svg.Content,
		&svg.FileSize,
		&svg.OriginalName,
		&svg.CreatedAt,
		&svg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update svg: %w", err)
	}

	return svg, nil
}

// DeleteByID removes the record and reports whether one was removed
func (r *SvgRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM svgs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete svg: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Search returns records whose name or description contains the query
// as a case-insensitive substring, newest first. An empty query
// matches every record; the service layer guards against it.
func (r *SvgRepository) Search(ctx context.Context, q string) ([]*models.Svg, error) {
	query := `
		SELECT ` + svgColumns + `
		FROM svgs
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, likePattern(q))
	if err != nil {
		return nil, fmt.Errorf("failed to search svgs: %w", err)
	}
	defer rows.Close()

	return scanSvgs(rows)
}

func scanSvgs(rows pgx.Rows) ([]*models.Svg, error) {
	var svgs []*models.Svg
	for rows.Next() {
		svg := &models.Svg{}
		err := rows.Scan(
			&svg.ID,
			&svg.Name,
			&svg.Description,
			&svg.Content,
			&svg.FileSize,
			&svg.OriginalName,
			&svg.CreatedAt,
			&svg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan svg: %w", err)
		}
		svgs = append(svgs, svg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating svgs: %w", err)
	}

	return svgs, nil
}

// likePattern builds an ILIKE pattern that matches q as a literal
// substring. %, _ and \ in the query are escaped so they lose their
// wildcard meaning.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
