package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mailsmith/mailsmith/internal/domain"
	"github.com/mailsmith/mailsmith/pkg/emaildoc"
	"github.com/mailsmith/mailsmith/pkg/logger"
)

// TemplateService persists versioned templates. Every save compiles the
// document and runs the HTML validator: security findings block the
// save, structural warnings are logged and tolerated.
type TemplateService struct {
	repo   domain.TemplateRepository
	logger logger.Logger
}

func NewTemplateService(repo domain.TemplateRepository, logger logger.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
	}
}

// compileAndValidate renders the document and gates on error-severity
// findings. Warnings come back to the caller but never block.
func (s *TemplateService) compileAndValidate(ctx context.Context, template *domain.Template) ([]emaildoc.Finding, error) {
	compiled, err := emaildoc.RenderHTML(ctx, &template.Document, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compile template: %w", err)
	}

	findings := emaildoc.ValidateHTML(compiled)
	if emaildoc.HasErrors(findings) {
		messages := make([]string, 0, len(findings))
		for _, f := range findings {
			if f.Severity == emaildoc.SeverityError {
				messages = append(messages, f.Message)
			}
		}
		return findings, &domain.ErrContentBlocked{Findings: messages}
	}

	for _, f := range findings {
		s.logger.WithFields(map[string]interface{}{
			"template_id": template.ID,
			"finding":     f.Message,
		}).Warn("template saved with structural warning")
	}

	template.CompiledHTML = compiled
	return findings, nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, req *domain.CreateTemplateRequest) (*domain.Template, error) {
	template, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.compileAndValidate(ctx, template); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		s.logger.WithField("template_id", template.ID).Error(fmt.Sprintf("failed to create template: %v", err))
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) GetTemplateByID(ctx context.Context, req *domain.GetTemplateRequest) (*domain.Template, error) {
	return s.repo.GetTemplateByID(ctx, req.ProjectID, req.ID, req.Version)
}

func (s *TemplateService) GetTemplates(ctx context.Context, projectID string) ([]*domain.Template, error) {
	return s.repo.GetTemplates(ctx, projectID)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, req *domain.UpdateTemplateRequest) (*domain.Template, error) {
	template, err := req.Validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTemplateByID(ctx, req.ProjectID, req.ID, 0)
	if err != nil {
		return nil, err
	}

	template.Version = existing.Version + 1
	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = time.Now().UTC()

	if _, err := s.compileAndValidate(ctx, template); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		s.logger.WithField("template_id", template.ID).Error(fmt.Sprintf("failed to update template: %v", err))
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, req *domain.DeleteTemplateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.DeleteTemplate(ctx, req.ProjectID, req.ID)
}

// CompileTemplate renders a document for editor preview without
// persisting anything. Unlike saves, security errors don't fail the
// call; the findings ride along so the editor can surface them.
func (s *TemplateService) CompileTemplate(ctx context.Context, req *domain.CompileTemplateRequest) (*domain.CompileTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	compiled, err := emaildoc.RenderHTML(ctx, &req.Document, req.TemplateData)
	if err != nil {
		return nil, fmt.Errorf("failed to compile template: %w", err)
	}

	return &domain.CompileTemplateResponse{
		HTML:     compiled,
		Findings: emaildoc.ValidateHTML(compiled),
	}, nil
}
