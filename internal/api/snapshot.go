package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-editor/internal/types"
)

// Status is a point-in-time view of the backend.
type Status struct {
	Healthy   bool
	HealthErr error
	Templates []types.Template
	Resumes   []types.Resume
}

// Snapshot fetches health, templates and resumes concurrently. A failed
// health check is recorded on the Status; a failed listing fails the call.
func (s *Service) Snapshot(ctx context.Context) (*Status, error) {
	var status Status
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		status.Healthy, status.HealthErr = s.Health(gctx)
		return nil
	})
	g.Go(func() error {
		templates, err := s.ListTemplates(gctx)
		if err != nil {
			return err
		}
		status.Templates = templates
		return nil
	})
	g.Go(func() error {
		resumes, err := s.ListResumes(gctx)
		if err != nil {
			return err
		}
		status.Resumes = resumes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &status, nil
}
