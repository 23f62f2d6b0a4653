package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/validate"
)

// ErrMissingID is returned by Like for an empty blog id.
var ErrMissingID = errors.New("service: missing id")

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	backend Backend
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(backend Backend) SubmissionService {
	return &submissionServiceImpl{backend: backend}
}

func (s *submissionServiceImpl) Contact(ctx context.Context, msg model.ContactMessage, privacyAgreed bool) error {
	msg = trimContact(msg)
	if err := validate.Contact(msg, privacyAgreed); err != nil {
		return err
	}
	if err := s.backend.Contact.Submit(ctx, msg).Err; err != nil {
		slog.WarnContext(ctx, "contact submit failed", "error", err)
		return fmt.Errorf("submit contact: %w", err)
	}
	return nil
}

func (s *submissionServiceImpl) Subscribe(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Subscribe(email); err != nil {
		return "", err
	}
	res := s.backend.Subscriptions.Subscribe(ctx, email)
	if res.Err != nil {
		slog.WarnContext(ctx, "subscribe failed", "error", res.Err)
		return "", fmt.Errorf("subscribe: %w", res.Err)
	}
	if res.Message == "" {
		return MsgSubscribed, nil
	}
	return res.Message, nil
}

func (s *submissionServiceImpl) Feedback(ctx context.Context, fb model.Feedback) error {
	fb.Name = strings.TrimSpace(fb.Name)
	fb.Email = strings.TrimSpace(fb.Email)
	fb.Comment = strings.TrimSpace(fb.Comment)
	// 掲載可否は管理者が決める
	fb.Featured = false
	if err := validate.Feedback(fb); err != nil {
		return err
	}
	if err := s.backend.Feedback.Submit(ctx, fb).Err; err != nil {
		slog.WarnContext(ctx, "feedback submit failed", "error", err)
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}

func (s *submissionServiceImpl) Apply(ctx context.Context, app model.TeamApplication, termsAgreed bool) error {
	app.Name = strings.TrimSpace(app.Name)
	app.Email = strings.TrimSpace(app.Email)
	app.Phone = strings.TrimSpace(app.Phone)
	app.LinkedIn = strings.TrimSpace(app.LinkedIn)
	if err := validate.Application(app, termsAgreed); err != nil {
		return err
	}
	if err := s.backend.Team.Apply(ctx, app).Err; err != nil {
		slog.WarnContext(ctx, "team application failed", "error", err)
		return fmt.Errorf("submit application: %w", err)
	}
	return nil
}

func (s *submissionServiceImpl) Report(ctx context.Context, r model.ProjectReport, termsAgreed bool) error {
	r.Title = strings.TrimSpace(r.Title)
	r.ReporterName = strings.TrimSpace(r.ReporterName)
	r.ReporterEmail = strings.TrimSpace(r.ReporterEmail)
	r.ProjectURL = strings.TrimSpace(r.ProjectURL)
	if err := validate.Report(r, termsAgreed); err != nil {
		return err
	}
	if err := s.backend.Reports.Submit(ctx, r).Err; err != nil {
		slog.WarnContext(ctx, "project report failed", "error", err)
		return fmt.Errorf("submit report: %w", err)
	}
	return nil
}

func (s *submissionServiceImpl) Like(ctx context.Context, blogID string) error {
	if blogID == "" {
		return ErrMissingID
	}
	if err := s.backend.Blogs.Like(ctx, blogID).Err; err != nil {
		return fmt.Errorf("like blog %s: %w", blogID, err)
	}
	return nil
}

func trimContact(m model.ContactMessage) model.ContactMessage {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
	return m
}
