package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mailsmith/mailsmith/internal/domain"
)

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) UpsertContact(ctx context.Context, contact *domain.Contact) error {
	now := time.Now().UTC()
	contact.UpdatedAt = now
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}

	query := `
		INSERT INTO contacts (
			email,
			project_id,
			first_name,
			last_name,
			language,
			custom_data,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (project_id, email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			language = EXCLUDED.language,
			custom_data = EXCLUDED.custom_data,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		contact.Email,
		contact.ProjectID,
		contact.FirstName,
		contact.LastName,
		contact.Language,
		contact.CustomData,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

func (r *contactRepository) GetContactByEmail(ctx context.Context, projectID string, email string) (*domain.Contact, error) {
	query := `
		SELECT
			email,
			project_id,
			first_name,
			last_name,
			language,
			custom_data,
			created_at,
			updated_at
		FROM contacts
		WHERE project_id = $1 AND email = $2
	`

	row := r.db.QueryRowContext(ctx, query, projectID, email)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrContactNotFound{Message: "contact not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

func (r *contactRepository) DeleteContact(ctx context.Context, projectID string, email string) error {
	query := `DELETE FROM contacts WHERE project_id = $1 AND email = $2`

	result, err := r.db.ExecContext(ctx, query, projectID, email)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return &domain.ErrContactNotFound{Message: "contact not found"}
	}

	return nil
}

func (r *contactRepository) ListContacts(ctx context.Context, projectID string, limit, offset int) ([]*domain.Contact, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query, args, err := psql.Select(
		"email",
		"project_id",
		"first_name",
		"last_name",
		"language",
		"custom_data",
		"created_at",
		"updated_at",
	).
		From("contacts").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("email ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}

	return contacts, nil
}

// scanContact scans a contact from a database row
func scanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Contact, error) {
	var (
		contact                       domain.Contact
		firstName, lastName, language sql.NullString
	)

	err := scanner.Scan(
		&contact.Email,
		&contact.ProjectID,
		&firstName,
		&lastName,
		&language,
		&contact.CustomData,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Handle nullable fields
	if firstName.Valid {
		contact.FirstName = &firstName.String
	}
	if lastName.Valid {
		contact.LastName = &lastName.String
	}
	if language.Valid {
		contact.Language = &language.String
	}

	return &contact, nil
}
