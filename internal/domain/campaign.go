package domain

import (
	"context"
	"fmt"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusSent      CampaignStatus = "sent"
)

// Campaign ties a template version to a sender identity. Tracking URLs
// are scoped by campaign ID so click and open events attribute back here.
type Campaign struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"project_id"`
	Name            string         `json:"name"`
	TemplateID      string         `json:"template_id"`
	TemplateVersion int64          `json:"template_version"`
	FromName        string         `json:"from_name,omitempty"`
	FromEmail       string         `json:"from_email,omitempty"`
	Status          CampaignStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (c *Campaign) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("invalid campaign: id is required")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("invalid campaign: project_id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("invalid campaign: name is required")
	}
	if c.TemplateID == "" {
		return fmt.Errorf("invalid campaign: template_id is required")
	}
	switch c.Status {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending, CampaignStatusSent:
	default:
		return fmt.Errorf("invalid campaign: unknown status %q", c.Status)
	}
	return nil
}

// MergeScope exposes the campaign fields addressable as {{campaign.*}}.
func (c *Campaign) MergeScope() map[string]any {
	return map[string]any{
		"id":   c.ID,
		"name": c.Name,
	}
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign *Campaign) error
	GetCampaignByID(ctx context.Context, projectID, id string) (*Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *Campaign) error
	ListCampaigns(ctx context.Context, projectID string) ([]*Campaign, error)
}
