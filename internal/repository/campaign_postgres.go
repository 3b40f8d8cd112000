package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mailsmith/mailsmith/internal/domain"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new PostgreSQL campaign repository
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (
			id,
			project_id,
			name,
			template_id,
			template_version,
			from_name,
			from_email,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.ProjectID,
		campaign.Name,
		campaign.TemplateID,
		campaign.TemplateVersion,
		campaign.FromName,
		campaign.FromEmail,
		campaign.Status,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetCampaignByID(ctx context.Context, projectID string, id string) (*domain.Campaign, error) {
	query := `
		SELECT
			id,
			project_id,
			name,
			template_id,
			template_version,
			from_name,
			from_email,
			status,
			created_at,
			updated_at
		FROM campaigns
		WHERE project_id = $1 AND id = $2
	`

	row := r.db.QueryRowContext(ctx, query, projectID, id)

	campaign, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

func (r *campaignRepository) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaigns SET
			name = $3,
			template_id = $4,
			template_version = $5,
			from_name = $6,
			from_email = $7,
			status = $8,
			updated_at = $9
		WHERE project_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		campaign.ProjectID,
		campaign.ID,
		campaign.Name,
		campaign.TemplateID,
		campaign.TemplateVersion,
		campaign.FromName,
		campaign.FromEmail,
		campaign.Status,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}

	return nil
}

func (r *campaignRepository) ListCampaigns(ctx context.Context, projectID string) ([]*domain.Campaign, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query, args, err := psql.Select(
		"id",
		"project_id",
		"name",
		"template_id",
		"template_version",
		"from_name",
		"from_email",
		"status",
		"created_at",
		"updated_at",
	).
		From("campaigns").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return campaigns, nil
}

// scanCampaign scans a campaign from a database row
func scanCampaign(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Campaign, error) {
	var (
		campaign            domain.Campaign
		fromName, fromEmail sql.NullString
	)

	err := scanner.Scan(
		&campaign.ID,
		&campaign.ProjectID,
		&campaign.Name,
		&campaign.TemplateID,
		&campaign.TemplateVersion,
		&fromName,
		&fromEmail,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fromName.Valid {
		campaign.FromName = fromName.String
	}
	if fromEmail.Valid {
		campaign.FromEmail = fromEmail.String
	}

	return &campaign, nil
}
