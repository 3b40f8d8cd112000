package http

import (
	"encoding/json"
	"net/http"

	"github.com/mailsmith/mailsmith/internal/domain"
	"github.com/mailsmith/mailsmith/pkg/logger"
)

type CampaignHandler struct {
	repo   domain.CampaignRepository
	sender domain.SendService
	logger logger.Logger
}

func NewCampaignHandler(repo domain.CampaignRepository, sender domain.SendService, logger logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		repo:   repo,
		sender: sender,
		logger: logger,
	}
}

func (h *CampaignHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/campaigns.list", http.HandlerFunc(h.handleList))
	mux.Handle("/api/campaigns.get", http.HandlerFunc(h.handleGet))
	mux.Handle("/api/campaigns.create", http.HandlerFunc(h.handleCreate))
	mux.Handle("/api/campaigns.send", http.HandlerFunc(h.handleSend))
}

func (h *CampaignHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		WriteJSONError(w, "project_id is required", http.StatusBadRequest)
		return
	}

	campaigns, err := h.repo.ListCampaigns(r.Context(), projectID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list campaigns")
		WriteJSONError(w, "Failed to list campaigns", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
	})
}

func (h *CampaignHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	id := r.URL.Query().Get("id")
	if projectID == "" || id == "" {
		WriteJSONError(w, "project_id and id are required", http.StatusBadRequest)
		return
	}

	campaign, err := h.repo.GetCampaignByID(r.Context(), projectID, id)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get campaign")
		WriteJSONError(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var campaign domain.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if campaign.Status == "" {
		campaign.Status = domain.CampaignStatusDraft
	}
	if err := campaign.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.CreateCampaign(r.Context(), &campaign); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create campaign")
		WriteJSONError(w, "Failed to create campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.sender.Send(r.Context(), &req)
	if err != nil {
		switch err.(type) {
		case *domain.ErrCampaignNotFound:
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
		case *domain.ErrTemplateNotFound:
			WriteJSONError(w, "Template not found", http.StatusNotFound)
		case *domain.ErrProjectNotFound:
			WriteJSONError(w, "Project not found", http.StatusNotFound)
		case *domain.ErrContentBlocked:
			WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.WithField("error", err.Error()).Error("Failed to send campaign email")
			WriteJSONError(w, "Failed to send email", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
