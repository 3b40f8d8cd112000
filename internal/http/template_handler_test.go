package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsmith/mailsmith/internal/domain"
	"github.com/mailsmith/mailsmith/pkg/emaildoc"
	"github.com/mailsmith/mailsmith/pkg/logger"
)

type fakeTemplateService struct {
	template  *domain.Template
	templates []*domain.Template
	err       error
}

func (s *fakeTemplateService) CreateTemplate(ctx context.Context, req *domain.CreateTemplateRequest) (*domain.Template, error) {
	return s.template, s.err
}

func (s *fakeTemplateService) GetTemplateByID(ctx context.Context, req *domain.GetTemplateRequest) (*domain.Template, error) {
	return s.template, s.err
}

func (s *fakeTemplateService) GetTemplates(ctx context.Context, projectID string) ([]*domain.Template, error) {
	return s.templates, s.err
}

func (s *fakeTemplateService) UpdateTemplate(ctx context.Context, req *domain.UpdateTemplateRequest) (*domain.Template, error) {
	return s.template, s.err
}

func (s *fakeTemplateService) DeleteTemplate(ctx context.Context, req *domain.DeleteTemplateRequest) error {
	return s.err
}

func (s *fakeTemplateService) CompileTemplate(ctx context.Context, req *domain.CompileTemplateRequest) (*domain.CompileTemplateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.CompileTemplateResponse{HTML: "<html></html>"}, nil
}

func newTemplateMux(svc domain.TemplateService) *http.ServeMux {
	mux := http.NewServeMux()
	NewTemplateHandler(svc, logger.NewLogger()).RegisterRoutes(mux)
	return mux
}

func TestTemplateHandlerGet(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{
		template: &domain.Template{ID: "welcome", ProjectID: "p1", Name: "Welcome"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/templates.get?project_id=p1&id=welcome", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]domain.Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "welcome", body["template"].ID)
}

func TestTemplateHandlerGetMissingParams(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{})

	req := httptest.NewRequest(http.MethodGet, "/api/templates.get?id=welcome", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateHandlerGetNotFound(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{
		err: &domain.ErrTemplateNotFound{Message: "template not found"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/templates.get?project_id=p1&id=missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateHandlerCreate(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{
		template: &domain.Template{ID: "welcome", ProjectID: "p1"},
	})

	payload, err := json.Marshal(domain.CreateTemplateRequest{
		ProjectID: "p1",
		ID:        "welcome",
		Name:      "Welcome",
		Subject:   "Hi",
		Document:  *emaildoc.NewDocument(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/templates.create", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTemplateHandlerCreateBlocked(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{
		err: &domain.ErrContentBlocked{Findings: []string{"script tags are not allowed"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/templates.create", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "script tags are not allowed")
}

func TestTemplateHandlerCreateWrongMethod(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{})

	req := httptest.NewRequest(http.MethodGet, "/api/templates.create", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTemplateHandlerDelete(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{})

	payload := []byte(`{"project_id":"p1","id":"welcome"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/templates.delete", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestTemplateHandlerCompile(t *testing.T) {
	mux := newTemplateMux(&fakeTemplateService{})

	payload := []byte(`{"project_id":"p1","document":{"version":2}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/templates.compile", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.CompileTemplateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "<html></html>", resp.HTML)
}
