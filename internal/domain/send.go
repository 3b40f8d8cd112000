package domain

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mailsmith/mailsmith/pkg/emaildoc"
)

// SendRequest asks for a single campaign email to a single recipient.
// Data is caller-provided extra merge scope ({{custom.*}}).
type SendRequest struct {
	ProjectID  string         `json:"project_id"`
	CampaignID string         `json:"campaign_id"`
	Email      string         `json:"email"`
	Data       map[string]any `json:"data,omitempty"`
}

func (r *SendRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if r.CampaignID == "" {
		return fmt.Errorf("campaign_id is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

func (r *SendRequest) FromURLParams(values url.Values) error {
	r.ProjectID = values.Get("project_id")
	r.CampaignID = values.Get("campaign_id")
	r.Email = values.Get("email")
	return r.Validate()
}

type SendService interface {
	Send(ctx context.Context, req *SendRequest) (*SendResult, error)
}

type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BuildMergeContext assembles the scoped lookup table for merge-tag
// resolution. Nil inputs contribute nothing, so a send without a known
// contact still resolves project and campaign tags.
func BuildMergeContext(project *Project, campaign *Campaign, contact *Contact, extra map[string]any) emaildoc.MergeContext {
	ctx := emaildoc.MergeContext{}
	if project != nil {
		ctx[emaildoc.ScopeProject] = project.MergeScope()
	}
	if campaign != nil {
		ctx[emaildoc.ScopeCampaign] = campaign.MergeScope()
	}
	if contact != nil {
		ctx[emaildoc.ScopeContact] = contact.MergeScope()
	}
	if len(extra) > 0 {
		ctx[emaildoc.ScopeCustom] = extra
	}
	return ctx
}
