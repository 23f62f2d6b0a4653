package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/validate"
	"github.com/cyberpit/site/pkg/api"
)

// setupDefaults seeds a resource's default rows on the backend and reloads.
func setupDefaults[T crud.Keyed](res *resource[T], call func(ctx context.Context) api.Result[api.Empty], okMsg, failMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, viewID, ok := res.controller(w, r)
		if !ok {
			return
		}
		err := ctrl.Perform(r.Context(), func(ctx context.Context) error {
			return call(ctx).Err
		}, okMsg, failMsg)
		res.done(w, r, viewID, err, nil)
	}
}

type videoPanel struct {
	Types []string
	MaxMB int
}

// uploadVideo handles POST /admin/videos/upload. The file is checked before
// anything is streamed; the backend deactivates the previous video of the
// same type, so the list is reloaded afterwards.
func uploadVideo(s *Server, res *resource[model.Video]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, validate.MaxVideoBytes+1<<20)
		parseErr := r.ParseMultipartForm(32 << 20)

		ctrl, viewID, ok := res.controller(w, r)
		if !ok {
			return
		}
		if parseErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(parseErr, &tooLarge) {
				ctrl.Reject(parseErr, "File size must be less than 150MB")
			} else {
				ctrl.Reject(parseErr, "Please select a valid video file")
			}
			res.done(w, r, viewID, nil, nil)
			return
		}

		kind := r.FormValue("type")
		file, header, err := r.FormFile("video")
		if err != nil {
			ctrl.Reject(err, "Please select a video file")
			res.done(w, r, viewID, nil, nil)
			return
		}
		defer file.Close()

		contentType := partType(header)
		if err := validate.Video(kind, contentType, header.Size); err != nil {
			ctrl.Reject(err, "Please select a valid video file")
			res.done(w, r, viewID, nil, nil)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = header.Filename
		}
		upload := api.VideoUpload{
			Type:   kind,
			Name:   name,
			Upload: api.Upload{Filename: header.Filename, ContentType: contentType, Body: file},
		}
		err = ctrl.Perform(r.Context(), func(ctx context.Context) error {
			return s.client.Admin.Videos.Upload(ctx, upload).Err
		}, fmt.Sprintf("%s video uploaded successfully!", kind), "Failed to upload video")
		res.done(w, r, viewID, err, nil)
	}
}

type bulkEmailPanel struct {
	Active int
	Total  int
}

// sendBulkEmail handles POST /admin/subscriptions/bulk-email.
func sendBulkEmail(s *Server, res *resource[model.Subscription]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, viewID, ok := res.controller(w, r)
		if !ok {
			return
		}
		mail := model.BulkEmail{
			Subject: strings.TrimSpace(r.FormValue("subject")),
			Body:    strings.TrimSpace(r.FormValue("body")),
		}
		if err := validate.BulkEmail(mail); err != nil {
			ctrl.Reject(err, "Please provide both subject and message")
			res.done(w, r, viewID, nil, nil)
			return
		}
		if ctrl.Count(func(sub model.Subscription) bool { return sub.IsActive }) == 0 {
			ctrl.Inform(crud.NoticeError, "No active subscribers found")
			res.done(w, r, viewID, nil, nil)
			return
		}

		result := s.client.Admin.Subscriptions.SendBulkEmail(r.Context(), mail)
		if result.Err != nil {
			if s.handleAuthError(w, r, result.Err) {
				return
			}
			ctrl.Reject(result.Err, "Failed to send email")
			res.done(w, r, viewID, result.Err, nil)
			return
		}
		ctrl.Inform(crud.NoticeSuccess, fmt.Sprintf("✅ Email sent successfully to %d subscribers!", result.Value.Sent))
		res.done(w, r, viewID, nil, nil)
	}
}
