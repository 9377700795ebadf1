// Package api exposes the typed resume API operations. Each operation
// validates what it sends and what it receives, and every failure it
// returns is a classified apierror.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/resume-editor/internal/apierror"
	"github.com/jonathan/resume-editor/internal/client"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/types"
)

// Transport is the subset of the HTTP client the services need.
type Transport interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, opts ...client.RequestOption) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any, opts ...client.RequestOption) (json.RawMessage, error)
	GetBytes(ctx context.Context, path string, opts ...client.RequestOption) (*client.Download, error)
}

// Service groups the resume, template and health operations.
type Service struct {
	transport         Transport
	connectionTimeout time.Duration
	logger            *slog.Logger
}

// NewService creates a Service. connectionTimeout bounds the health check;
// a zero value leaves the transport's own timeout in place.
func NewService(transport Transport, connectionTimeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		transport:         transport,
		connectionTimeout: connectionTimeout,
		logger:            logger,
	}
}

// Health reports whether the backend answered GET /health with a 200.
// Any other success status is unhealthy and reported as unknown-kind.
func (s *Service) Health(ctx context.Context) (bool, error) {
	dl, err := s.transport.GetBytes(ctx, "health", client.WithTimeout(s.connectionTimeout))
	if err != nil {
		return false, err
	}
	if dl.StatusCode != http.StatusOK {
		return false, &apierror.Error{
			Kind:       apierror.KindUnknown,
			Message:    fmt.Sprintf("health check answered with status %d", dl.StatusCode),
			StatusCode: dl.StatusCode,
		}
	}
	return true, nil
}

// ListResumes returns every stored resume.
func (s *Service) ListResumes(ctx context.Context) ([]types.Resume, error) {
	body, err := s.transport.Get(ctx, "resume")
	if err != nil {
		return nil, err
	}
	var resumes []types.Resume
	if err := decode(schemas.ShapeResumeArray, body, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}

// GetResume returns a single resume by id.
func (s *Service) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	body, err := s.transport.Get(ctx, "resume/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var resume types.Resume
	if err := decode(schemas.ShapeResume, body, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// CreateResume stores a new resume and returns its id. The payload is
// checked locally first; an invalid payload never reaches the network.
func (s *Service) CreateResume(ctx context.Context, payload any) (string, error) {
	if err := schemas.ValidateRequest(payload); err != nil {
		return "", err
	}
	body, err := s.transport.Post(ctx, "resume", jsonBody(payload))
	if err != nil {
		return "", err
	}
	var created types.CreateResumeResponse
	if err := decode(schemas.ShapeCreateResume, body, &created); err != nil {
		return "", err
	}
	s.logger.Info("resume created", "id", created.ID)
	return created.ID, nil
}

// UpdateResume replaces the resume with the given id.
func (s *Service) UpdateResume(ctx context.Context, id string, payload any) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := schemas.ValidateRequest(payload); err != nil {
		return err
	}
	if _, err := s.transport.Put(ctx, "resume/"+url.PathEscape(id), jsonBody(payload)); err != nil {
		return err
	}
	s.logger.Info("resume updated", "id", id)
	return nil
}

// DownloadPDF renders a resume to PDF.
func (s *Service) DownloadPDF(ctx context.Context, req types.ExportRequest) (*client.Download, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.transport.GetBytes(ctx, exportPath("download", req))
}

// CopyLaTeX returns the LaTeX source of a rendered resume.
func (s *Service) CopyLaTeX(ctx context.Context, req types.ExportRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	body, err := s.transport.Get(ctx, exportPath("copy", req))
	if err != nil {
		return "", err
	}
	var copied types.CopyResumeResponse
	if err := decode(schemas.ShapeCopyResume, body, &copied); err != nil {
		return "", err
	}
	return copied.Resume, nil
}

// ListTemplates returns the available rendering templates.
func (s *Service) ListTemplates(ctx context.Context) ([]types.Template, error) {
	body, err := s.transport.Get(ctx, "templates")
	if err != nil {
		return nil, err
	}
	var resp types.TemplatesResponse
	if err := decode(schemas.ShapeTemplates, body, &resp); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// exportPath builds /{kind}/{id}/{template}/{order}. Sections are escaped
// one by one so the separating commas stay literal.
func exportPath(kind string, req types.ExportRequest) string {
	sections := make([]string, len(req.Order))
	for i, section := range req.Order {
		sections[i] = url.PathEscape(section)
	}
	return strings.Join([]string{
		kind,
		url.PathEscape(req.ResumeID),
		url.PathEscape(req.TemplateID),
		strings.Join(sections, ","),
	}, "/")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apierror.Validation("resume id is required", nil)
	}
	return nil
}

// jsonBody passes raw JSON payloads through without re-encoding.
func jsonBody(payload any) any {
	if b, ok := payload.([]byte); ok {
		return json.RawMessage(b)
	}
	return payload
}

// decode validates body against shape and then unmarshals it into out.
func decode(shape schemas.Shape, body json.RawMessage, out any) error {
	if err := schemas.ValidateResponse(shape, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierror.Validation(fmt.Sprintf("failed to decode %s response: %v", shape, err), err)
	}
	return nil
}
