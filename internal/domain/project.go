package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

// Project is the top-level tenant: campaigns, templates and contacts
// all belong to a project.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"website_url,omitempty"`
	FromName   string    `json:"from_name"`
	FromEmail  string    `json:"from_email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("invalid project: id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("invalid project: name is required")
	}
	if p.WebsiteURL != "" && !govalidator.IsURL(p.WebsiteURL) {
		return fmt.Errorf("invalid project: website_url is not a valid URL")
	}
	if p.FromEmail != "" && !govalidator.IsEmail(p.FromEmail) {
		return fmt.Errorf("invalid project: from_email is not a valid email")
	}
	return nil
}

// MergeScope exposes the project fields addressable as {{project.*}}.
func (p *Project) MergeScope() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"website_url": p.WebsiteURL,
	}
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProjectByID(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	ListProjects(ctx context.Context) ([]*Project, error)
}
