package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailsmith/mailsmith/internal/domain"
	"github.com/mailsmith/mailsmith/pkg/emaildoc"
	"github.com/mailsmith/mailsmith/pkg/logger"
	"github.com/mailsmith/mailsmith/pkg/mailer"
)

// SendService assembles and delivers one campaign email per call. The
// compiled template HTML goes through the compose pipeline (merge tags,
// click tracking, open beacon) and a final validation gate before it
// reaches the mailer.
type SendService struct {
	projectRepo  domain.ProjectRepository
	campaignRepo domain.CampaignRepository
	templateRepo domain.TemplateRepository
	contactRepo  domain.ContactRepository
	compose      *ComposeService
	mailer       mailer.Mailer
	logger       logger.Logger
	apiEndpoint  string
}

func NewSendService(
	projectRepo domain.ProjectRepository,
	campaignRepo domain.CampaignRepository,
	templateRepo domain.TemplateRepository,
	contactRepo domain.ContactRepository,
	compose *ComposeService,
	mailer mailer.Mailer,
	logger logger.Logger,
	apiEndpoint string,
) *SendService {
	return &SendService{
		projectRepo:  projectRepo,
		campaignRepo: campaignRepo,
		templateRepo: templateRepo,
		contactRepo:  contactRepo,
		compose:      compose,
		mailer:       mailer,
		logger:       logger,
		apiEndpoint:  apiEndpoint,
	}
}

func (s *SendService) Send(ctx context.Context, req *domain.SendRequest) (*domain.SendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetCampaignByID(ctx, req.ProjectID, req.CampaignID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetProjectByID(ctx, campaign.ProjectID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetTemplateByID(ctx, campaign.ProjectID, campaign.TemplateID, campaign.TemplateVersion)
	if err != nil {
		return nil, err
	}

	// An unknown recipient is not fatal: the email still goes out with
	// contact tags left unresolved.
	contact, err := s.contactRepo.GetContactByEmail(ctx, campaign.ProjectID, req.Email)
	if err != nil {
		var notFound *domain.ErrContactNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
		contact = nil
	}

	mergeCtx := domain.BuildMergeContext(project, campaign, contact, req.Data)

	html := s.compose.Compose(ComposeRequest{
		HTML:                template.CompiledHTML,
		MergeContext:        mergeCtx,
		APIEndpoint:         s.apiEndpoint,
		CampaignID:          campaign.ID,
		Email:               req.Email,
		EnableClickTracking: true,
		EnableOpenTracking:  true,
	})

	// Last gate before the wire. Substituted contact data could have
	// introduced markup the stored template never had.
	if findings := emaildoc.ValidateHTML(html); emaildoc.HasErrors(findings) {
		messages := make([]string, 0, len(findings))
		for _, f := range findings {
			if f.Severity == emaildoc.SeverityError {
				messages = append(messages, f.Message)
			}
		}
		s.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"email":       req.Email,
		}).Error("send blocked by content validation")
		return &domain.SendResult{Success: false, Error: "content blocked by validation"},
			&domain.ErrContentBlocked{Findings: messages}
	}

	fromName, fromEmail := campaign.FromName, campaign.FromEmail
	if fromEmail == "" {
		fromName, fromEmail = project.FromName, project.FromEmail
	}

	messageID, err := s.mailer.Send(ctx, &mailer.Message{
		FromName:  fromName,
		FromEmail: fromEmail,
		To:        req.Email,
		Subject:   emaildoc.ReplaceMergeTags(template.Subject, mergeCtx),
		HTML:      html,
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"email":       req.Email,
		}).Error(fmt.Sprintf("failed to send email: %v", err))
		return &domain.SendResult{Success: false, Error: err.Error()}, err
	}

	s.logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"email":       req.Email,
		"message_id":  messageID,
	}).Info("email sent")

	return &domain.SendResult{Success: true, MessageID: messageID}, nil
}
