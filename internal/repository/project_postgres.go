package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mailsmith/mailsmith/internal/domain"
)

type projectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(db *sql.DB) domain.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) CreateProject(ctx context.Context, project *domain.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (
			id,
			name,
			website_url,
			from_name,
			from_email,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.WebsiteURL,
		project.FromName,
		project.FromEmail,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `
		SELECT
			id,
			name,
			website_url,
			from_name,
			from_email,
			created_at,
			updated_at
		FROM projects
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrProjectNotFound{Message: "project not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (r *projectRepository) UpdateProject(ctx context.Context, project *domain.Project) error {
	project.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE projects SET
			name = $2,
			website_url = $3,
			from_name = $4,
			from_email = $5,
			updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.WebsiteURL,
		project.FromName,
		project.FromEmail,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrProjectNotFound{Message: "project not found"}
	}

	return nil
}

func (r *projectRepository) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	query := `
		SELECT
			id,
			name,
			website_url,
			from_name,
			from_email,
			created_at,
			updated_at
		FROM projects
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// scanProject scans a project from a database row
func scanProject(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Project, error) {
	var project domain.Project

	err := scanner.Scan(
		&project.ID,
		&project.Name,
		&project.WebsiteURL,
		&project.FromName,
		&project.FromEmail,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &project, nil
}
