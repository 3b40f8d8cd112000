package service

import (
	"github.com/mailsmith/mailsmith/pkg/emaildoc"
	"github.com/mailsmith/mailsmith/pkg/logger"
)

// ComposeRequest carries compiled HTML through per-recipient assembly.
type ComposeRequest struct {
	HTML         string
	MergeContext emaildoc.MergeContext
	// APIEndpoint is the public base URL tracking links point at. An
	// empty endpoint disables both click and open tracking.
	APIEndpoint         string
	CampaignID          string
	Email               string
	EnableClickTracking bool
	EnableOpenTracking  bool
}

// ComposeService turns compiled template HTML into the final
// per-recipient email body. The pipeline order is fixed: merge tags
// resolve first so tracking never wraps an unresolved {{...}} href,
// then click rewriting, then the open beacon.
type ComposeService struct {
	logger logger.Logger
}

func NewComposeService(logger logger.Logger) *ComposeService {
	return &ComposeService{logger: logger}
}

func (s *ComposeService) Compose(req ComposeRequest) string {
	html := emaildoc.ReplaceMergeTags(req.HTML, req.MergeContext)

	if req.EnableClickTracking && req.APIEndpoint != "" {
		base := emaildoc.ClickTrackingURL(req.APIEndpoint, req.CampaignID, req.Email)
		html = emaildoc.WrapLinksWithTracking(html, base)
	}

	if req.EnableOpenTracking && req.APIEndpoint != "" {
		openURL := emaildoc.OpenTrackingURL(req.APIEndpoint, req.CampaignID, req.Email)
		html = emaildoc.AppendOpenTrackingPixel(html, openURL)
	}

	return html
}
