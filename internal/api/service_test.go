package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/apierror"
	"github.com/jonathan/resume-editor/internal/client"
	"github.com/jonathan/resume-editor/internal/types"
)

type backend struct {
	*httptest.Server
	requests atomic.Int32
}

func newBackend(t *testing.T, routes map[string]http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) service() *Service {
	c := client.New(client.Options{BaseURL: b.URL, Timeout: 2 * time.Second})
	return NewService(c, time.Second, nil)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestHealth(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		},
	})

	healthy, err := b.service().Health(context.Background())
	require.NoError(t, err)
	assert.True(t, healthy)
}

func TestHealth_Unhealthy(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health": jsonHandler(http.StatusServiceUnavailable, `{}`),
	})

	healthy, err := b.service().Health(context.Background())
	assert.False(t, healthy)
	assert.True(t, apierror.IsKind(err, apierror.KindServer))
}

func TestHealth_OtherSuccessStatusIsUnhealthy(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	healthy, err := b.service().Health(context.Background())
	assert.False(t, healthy)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindUnknown))
	assert.Equal(t, http.StatusNoContent, apierror.Classify(err).StatusCode)
}

func TestHealth_UsesConnectionTimeout(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health": func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		},
	})
	svc := NewService(client.New(client.Options{BaseURL: b.URL, Timeout: 10 * time.Second}), 50*time.Millisecond, nil)

	start := time.Now()
	healthy, err := svc.Health(context.Background())
	assert.False(t, healthy)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, apierror.MessageCancelled, apierror.Classify(err).Message)
}

func TestListResumes_PreservesRecords(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume": jsonHandler(http.StatusOK, `[{"_id":"1","name":"A"}]`),
	})

	resumes, err := b.service().ListResumes(context.Background())
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, "1", resumes[0].Identifier())
	assert.Equal(t, "A", resumes[0].Name)
}

func TestListResumes_ServerError(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume": jsonHandler(http.StatusServiceUnavailable, `{"detail":"down"}`),
	})

	_, err := b.service().ListResumes(context.Background())
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestListResumes_CancelledByCaller(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume": func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := b.service().ListResumes(ctx)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindNetwork, apiErr.Kind)
	assert.Equal(t, "Request was cancelled", apiErr.Message)
}

func TestListResumes_RejectsMalformedResponse(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume": jsonHandler(http.StatusOK, `{"resumes":[]}`),
	})

	_, err := b.service().ListResumes(context.Background())
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestGetResume(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume/{id}": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a b", r.PathValue("id"))
			jsonHandler(http.StatusOK, `{"_id":"a b","name":"Spaced","keywords":["go"]}`)(w, r)
		},
	})

	resume, err := b.service().GetResume(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "Spaced", resume.Name)
	assert.Equal(t, []string{"go"}, resume.Keywords)
}

func TestGetResume_EmptyIDNeverSent(t *testing.T) {
	b := newBackend(t, nil)

	_, err := b.service().GetResume(context.Background(), " ")
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Zero(t, b.requests.Load())
}

func TestGetResume_NotFound(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /resume/{id}": jsonHandler(http.StatusNotFound, `{"detail":"missing"}`),
	})

	_, err := b.service().GetResume(context.Background(), "nope")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreateResume(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /resume": func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"name":"New resume","keywords":["go"]}`, string(data))
			jsonHandler(http.StatusCreated, `{"id":"abc123"}`)(w, r)
		},
	})

	id, err := b.service().CreateResume(context.Background(), &types.Resume{Name: "New resume", Keywords: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestCreateResume_InvalidPayloadNeverSent(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /resume": jsonHandler(http.StatusCreated, `{"id":"x"}`),
	})

	_, err := b.service().CreateResume(context.Background(), map[string]any{})
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "name")
	assert.Zero(t, b.requests.Load())
}

func TestCreateResume_RawJSONPayload(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /resume": func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "From file", payload["name"])
			jsonHandler(http.StatusOK, `{"id":"f1"}`)(w, r)
		},
	})

	id, err := b.service().CreateResume(context.Background(), []byte(`{"name":"From file"}`))
	require.NoError(t, err)
	assert.Equal(t, "f1", id)
}

func TestCreateResume_MissingIDInResponse(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /resume": jsonHandler(http.StatusOK, `{}`),
	})

	_, err := b.service().CreateResume(context.Background(), map[string]any{"name": "x"})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestUpdateResume(t *testing.T) {
	var updated atomic.Bool
	b := newBackend(t, map[string]http.HandlerFunc{
		"PUT /resume/{id}": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "42", r.PathValue("id"))
			updated.Store(true)
			w.WriteHeader(http.StatusNoContent)
		},
	})

	err := b.service().UpdateResume(context.Background(), "42", map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	assert.True(t, updated.Load())
}

func TestUpdateResume_InvalidPayloadNeverSent(t *testing.T) {
	b := newBackend(t, nil)

	err := b.service().UpdateResume(context.Background(), "42", map[string]any{
		"name":      "x",
		"education": []any{map[string]any{"degree": "BSc"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "education[0].university")
	assert.Zero(t, b.requests.Load())
}

func TestDownloadPDF(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /download/{id}/{template}/{order}": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.PathValue("id"))
			assert.Equal(t, "classic", r.PathValue("template"))
			assert.Equal(t, "education,projects", r.PathValue("order"))
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7"))
		},
	})

	dl, err := b.service().DownloadPDF(context.Background(), types.ExportRequest{
		ResumeID:   "1",
		TemplateID: "classic",
		Order:      []string{"education", "projects"},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), dl.Body)
	assert.Equal(t, "application/pdf", dl.ContentType)
}

func TestDownloadPDF_InvalidRequestNeverSent(t *testing.T) {
	b := newBackend(t, nil)

	_, err := b.service().DownloadPDF(context.Background(), types.ExportRequest{ResumeID: "1", TemplateID: "classic"})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Zero(t, b.requests.Load())
}

func TestCopyLaTeX(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /copy/{id}/{template}/{order}": jsonHandler(http.StatusOK, `{"resume":"\\documentclass{article}"}`),
	})

	latex, err := b.service().CopyLaTeX(context.Background(), types.ExportRequest{
		ResumeID:   "1",
		TemplateID: "classic",
		Order:      []string{"education"},
	})
	require.NoError(t, err)
	assert.Equal(t, `\documentclass{article}`, latex)
}

func TestListTemplates(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /templates": jsonHandler(http.StatusOK, `{"templates":[{"id":"classic","name":"Classic"}]}`),
	})

	templates, err := b.service().ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Template{{ID: "classic", Name: "Classic"}}, templates)
}

func TestListTemplates_InvalidEntry(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /templates": jsonHandler(http.StatusOK, `{"templates":[{"id":"classic"}]}`),
	})

	_, err := b.service().ListTemplates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates[0].name")
}

func TestExportPath(t *testing.T) {
	req := types.ExportRequest{ResumeID: "a/b", TemplateID: "t 1", Order: []string{"education", "work history"}}
	assert.Equal(t, "download/a%2Fb/t%201/education,work%20history", exportPath("download", req))
}

func TestSnapshot(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health":    jsonHandler(http.StatusOK, `{"status":"ok"}`),
		"GET /templates": jsonHandler(http.StatusOK, `{"templates":[{"id":"classic","name":"Classic"}]}`),
		"GET /resume":    jsonHandler(http.StatusOK, `[{"_id":"1","name":"A"},{"_id":"2","name":"B"}]`),
	})

	status, err := b.service().Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.NoError(t, status.HealthErr)
	assert.Len(t, status.Templates, 1)
	assert.Len(t, status.Resumes, 2)
}

func TestSnapshot_ListingFailureFails(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health":    jsonHandler(http.StatusOK, `{}`),
		"GET /templates": jsonHandler(http.StatusInternalServerError, `{}`),
		"GET /resume":    jsonHandler(http.StatusOK, `[]`),
	})

	_, err := b.service().Snapshot(context.Background())
	assert.True(t, apierror.IsKind(err, apierror.KindServer))
}

func TestSnapshot_UnhealthyIsRecorded(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /health":    jsonHandler(http.StatusServiceUnavailable, `{}`),
		"GET /templates": jsonHandler(http.StatusOK, `{"templates":[]}`),
		"GET /resume":    jsonHandler(http.StatusOK, `[]`),
	})

	status, err := b.service().Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.True(t, apierror.IsKind(status.HealthErr, apierror.KindServer))
}
