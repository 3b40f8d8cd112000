package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mailsmith/mailsmith/internal/domain"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new PostgreSQL template repository
func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) CreateTemplate(ctx context.Context, template *domain.Template) error {
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	if template.UpdatedAt.IsZero() {
		template.UpdatedAt = now
	}

	// Ensure version is at least 1 for creation
	if template.Version == 0 {
		template.Version = 1
	}

	query := `
		INSERT INTO templates (
			id,
			project_id,
			name,
			version,
			subject,
			document,
			compiled_html,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.ProjectID,
		template.Name,
		template.Version,
		template.Subject,
		template.Document,
		template.CompiledHTML,
		template.CreatedAt,
		template.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetTemplateByID(ctx context.Context, projectID string, id string, version int64) (*domain.Template, error) {
	var query string
	var args []interface{}

	if version > 0 {
		// Get specific version
		query = `
			SELECT
				id,
				project_id,
				name,
				version,
				subject,
				document,
				compiled_html,
				created_at,
				updated_at
			FROM templates
			WHERE project_id = $1 AND id = $2 AND version = $3 AND deleted_at IS NULL
		`
		args = []interface{}{projectID, id, version}
	} else {
		// Get latest version
		query = `
			SELECT
				id,
				project_id,
				name,
				version,
				subject,
				document,
				compiled_html,
				created_at,
				updated_at
			FROM templates
			WHERE project_id = $1 AND id = $2 AND deleted_at IS NULL
			ORDER BY version DESC
			LIMIT 1
		`
		args = []interface{}{projectID, id}
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrTemplateNotFound{Message: "template not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

func (r *templateRepository) GetTemplates(ctx context.Context, projectID string) ([]*domain.Template, error) {
	// Get only the latest version of each template
	latestVersionsCTE := `
		WITH latest_versions AS (
			SELECT id, MAX(version) as max_version
			FROM templates
			WHERE project_id = ?
			GROUP BY id
		)
	`

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	selectBuilder := psql.Select(
		"t.id",
		"t.project_id",
		"t.name",
		"t.version",
		"t.subject",
		"t.document",
		"t.compiled_html",
		"t.created_at",
		"t.updated_at",
	).Prefix(latestVersionsCTE, projectID).
		From("templates t").
		Join("latest_versions lv ON t.id = lv.id AND t.version = lv.max_version").
		Where(sq.Eq{"t.project_id": projectID, "t.deleted_at": nil}).
		OrderBy("t.updated_at DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

func (r *templateRepository) UpdateTemplate(ctx context.Context, template *domain.Template) error {
	template.UpdatedAt = time.Now().UTC()

	// Each update inserts a new version instead of rewriting history.
	query := `
		INSERT INTO templates (
			id,
			project_id,
			name,
			version,
			subject,
			document,
			compiled_html,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.ProjectID,
		template.Name,
		template.Version,
		template.Subject,
		template.Document,
		template.CompiledHTML,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	return nil
}

func (r *templateRepository) DeleteTemplate(ctx context.Context, projectID string, id string) error {
	// Soft delete by setting deleted_at across all versions
	query := `UPDATE templates SET deleted_at = NOW() WHERE project_id = $1 AND id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, projectID, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return &domain.ErrTemplateNotFound{Message: "template not found"}
	}

	return nil
}

// scanTemplate scans a template from a database row
func scanTemplate(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Template, error) {
	var template domain.Template

	err := scanner.Scan(
		&template.ID,
		&template.ProjectID,
		&template.Name,
		&template.Version,
		&template.Subject,
		&template.Document,
		&template.CompiledHTML,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &template, nil
}
