package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mailsmith/mailsmith/pkg/emaildoc"
)

// Template is a versioned email document. Every update bumps Version;
// CompiledHTML caches the rendered output of the current version.
type Template struct {
	ID           string            `json:"id"`
	ProjectID    string            `json:"project_id"`
	Name         string            `json:"name"`
	Version      int64             `json:"version"`
	Subject      string            `json:"subject"`
	Document     emaildoc.Document `json:"document"`
	CompiledHTML string            `json:"compiled_html,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    *time.Time        `json:"deleted_at,omitempty"`
}

func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("invalid template: id is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("invalid template: project_id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("invalid template: name is required")
	}
	if t.Subject == "" {
		return fmt.Errorf("invalid template: subject is required")
	}
	if err := t.Document.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return nil
}

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template *Template) error
	GetTemplateByID(ctx context.Context, projectID, id string, version int64) (*Template, error)
	GetTemplates(ctx context.Context, projectID string) ([]*Template, error)
	UpdateTemplate(ctx context.Context, template *Template) error
	DeleteTemplate(ctx context.Context, projectID, id string) error
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*Template, error)
	GetTemplateByID(ctx context.Context, req *GetTemplateRequest) (*Template, error)
	GetTemplates(ctx context.Context, projectID string) ([]*Template, error)
	UpdateTemplate(ctx context.Context, req *UpdateTemplateRequest) (*Template, error)
	DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest) error
	CompileTemplate(ctx context.Context, req *CompileTemplateRequest) (*CompileTemplateResponse, error)
}

type CreateTemplateRequest struct {
	ProjectID string            `json:"project_id"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Subject   string            `json:"subject"`
	Document  emaildoc.Document `json:"document"`
}

func (r *CreateTemplateRequest) Validate() (*Template, error) {
	template := &Template{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		Version:   1,
		Subject:   r.Subject,
		Document:  r.Document,
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}

type UpdateTemplateRequest struct {
	ProjectID string            `json:"project_id"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Subject   string            `json:"subject"`
	Document  emaildoc.Document `json:"document"`
}

func (r *UpdateTemplateRequest) Validate() (*Template, error) {
	// Version is assigned by the service from the stored latest version.
	template := &Template{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		Version:   1,
		Subject:   r.Subject,
		Document:  r.Document,
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}

type GetTemplateRequest struct {
	ProjectID string
	ID        string
	Version   int64
}

func (r *GetTemplateRequest) FromURLParams(values url.Values) error {
	r.ProjectID = values.Get("project_id")
	r.ID = values.Get("id")
	if r.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if raw := values.Get("version"); raw != "" {
		version, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || version < 0 {
			return fmt.Errorf("version must be a non-negative integer")
		}
		r.Version = version
	}
	return nil
}

type DeleteTemplateRequest struct {
	ProjectID string `json:"project_id"`
	ID        string `json:"id"`
}

func (r *DeleteTemplateRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

// CompileTemplateRequest renders a document to HTML without persisting
// anything, for editor previews.
type CompileTemplateRequest struct {
	ProjectID    string            `json:"project_id"`
	Document     emaildoc.Document `json:"document"`
	TemplateData emaildoc.MapOfAny `json:"template_data,omitempty"`
}

func (r *CompileTemplateRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	return r.Document.Validate()
}

type CompileTemplateResponse struct {
	HTML     string             `json:"html,omitempty"`
	Findings []emaildoc.Finding `json:"findings,omitempty"`
}
