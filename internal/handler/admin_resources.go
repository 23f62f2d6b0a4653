package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/model"
	"github.com/cyberpit/site/internal/validate"
)

// adminResources lists the dashboard sections in navigation order.
func (s *Server) adminResources() []adminResource {
	a := s.client.Admin
	return []adminResource{
		&resource[model.Feedback]{
			Name:     "feedback",
			Title:    "Feedback",
			Endpoint: a.Feedback,
			Options: crud.Options[model.Feedback]{
				Noun:     "Feedback",
				Validate: validate.AdminFeedback,
			},
			Columns: []column[model.Feedback]{
				{"Name", func(f model.Feedback) string { return f.Name }},
				{"Role", func(f model.Feedback) string { return joinNonEmpty(" @ ", f.Role, f.Workplace) }},
				{"Rating", func(f model.Feedback) string { return stars(f.Rating) }},
				{"Comment", func(f model.Feedback) string { return truncate(f.Comment, 80) }},
			},
			Form: []formField{
				{Name: "name", Label: "Name", Kind: "text", Required: true},
				{Name: "email", Label: "Email", Kind: "email", Required: true},
				{Name: "role", Label: "Role", Kind: "text"},
				{Name: "workplace", Label: "Workplace", Kind: "text"},
				{Name: "comment", Label: "Comment", Kind: "textarea", Required: true},
				{Name: "rating", Label: "Rating (1-5)", Kind: "number"},
				{Name: "featured", Kind: "hidden"},
			},
			Values: func(f model.Feedback) map[string]string {
				return map[string]string{
					"name": f.Name, "email": f.Email, "role": f.Role, "workplace": f.Workplace,
					"comment": f.Comment, "rating": intValue(f.Rating), "featured": checkbox(f.Featured),
				}
			},
			Parse: func(r *http.Request) model.Feedback {
				return model.Feedback{
					ID:        r.FormValue("id"),
					Name:      strings.TrimSpace(r.FormValue("name")),
					Email:     strings.TrimSpace(r.FormValue("email")),
					Role:      strings.TrimSpace(r.FormValue("role")),
					Workplace: strings.TrimSpace(r.FormValue("workplace")),
					Comment:   strings.TrimSpace(r.FormValue("comment")),
					Rating:    formInt(r, "rating"),
					Featured:  formBool(r, "featured"),
				}
			},
			Toggles: []toggle[model.Feedback]{{
				Label: "Featured",
				BoolField: crud.BoolField[model.Feedback]{
					Name:           "featured",
					Get:            func(f model.Feedback) bool { return f.Featured },
					Set:            func(f *model.Feedback, v bool) { f.Featured = v },
					Ceiling:        model.MaxFeaturedFeedback,
					CeilingMessage: fmt.Sprintf("You can only feature up to %d feedback items", model.MaxFeaturedFeedback),
					Enabled:        "Feedback featured on the home page",
					Disabled:       "Feedback removed from the home page",
				},
			}},
		},

		&resource[model.TeamMember]{
			Name:     "team",
			Title:    "Team Members",
			Endpoint: a.Team,
			Options: crud.Options[model.TeamMember]{
				Noun:     "Team member",
				Validate: validate.TeamMember,
			},
			Columns: []column[model.TeamMember]{
				{"Name", func(m model.TeamMember) string { return m.Name }},
				{"Role", func(m model.TeamMember) string { return m.Role }},
				{"Order", func(m model.TeamMember) string { return strconv.Itoa(m.Order) }},
			},
			Form: []formField{
				{Name: "name", Label: "Name", Kind: "text", Required: true},
				{Name: "role", Label: "Role", Kind: "text", Required: true},
				{Name: "image", Label: "Image URL", Kind: "url"},
				{Name: "imageFile", Label: "Or upload an image", Kind: "file"},
				{Name: "bio", Label: "Bio", Kind: "textarea", Required: true},
				{Name: "order", Label: "Display order", Kind: "number"},
			},
			Values: func(m model.TeamMember) map[string]string {
				return map[string]string{
					"name": m.Name, "role": m.Role, "image": m.Image, "bio": m.Bio, "order": intValue(m.Order),
				}
			},
			Parse: func(r *http.Request) model.TeamMember {
				return model.TeamMember{
					ID:    r.FormValue("id"),
					Name:  strings.TrimSpace(r.FormValue("name")),
					Role:  strings.TrimSpace(r.FormValue("role")),
					Image: strings.TrimSpace(r.FormValue("image")),
					Bio:   strings.TrimSpace(r.FormValue("bio")),
					Order: formInt(r, "order"),
				}
			},
			Image: &imageUpload[model.TeamMember]{
				Upload: a.Team.UploadImage,
				Set:    func(m *model.TeamMember, u string) { m.Image = u },
			},
			Panels: []string{"setup-defaults"},
			Extra: func(mux *http.ServeMux, s *Server, res *resource[model.TeamMember]) {
				mux.Handle("POST "+res.base()+"/setup-defaults", s.gate.Require(setupDefaults(res, a.Team.SetupDefaults,
					"Default team members created successfully", "Failed to set up default team members")))
			},
		},

		&resource[model.Project]{
			Name:     "projects",
			Title:    "Projects",
			Endpoint: a.Projects,
			Options: crud.Options[model.Project]{
				Noun:     "Project",
				Validate: validate.Project,
			},
			Columns: []column[model.Project]{
				{"Title", func(p model.Project) string { return p.Title }},
				{"Category", func(p model.Project) string { return p.Category }},
				{"Date", func(p model.Project) string { return p.Date }},
				{"Status", func(p model.Project) string { return p.Status }},
			},
			Form: []formField{
				{Name: "title", Label: "Title", Kind: "text", Required: true},
				{Name: "date", Label: "Date", Kind: "text", Required: true},
				{Name: "category", Label: "Category", Kind: "text", Required: true},
				{Name: "description", Label: "Description", Kind: "textarea", Required: true},
				{Name: "image", Label: "Image URL", Kind: "url"},
				{Name: "imageFile", Label: "Or upload an image", Kind: "file"},
				{Name: "tags", Label: "Tags (comma separated)", Kind: "text"},
				{Name: "link", Label: "Link", Kind: "url"},
				{Name: "status", Label: "Status", Kind: "select", Options: model.ProjectStatuses},
				{Name: "order", Label: "Display order", Kind: "number"},
				{Name: "featured", Label: "Featured", Kind: "checkbox"},
			},
			Values: func(p model.Project) map[string]string {
				return map[string]string{
					"title": p.Title, "date": p.Date, "category": p.Category, "description": p.Description,
					"image": p.Image, "tags": strings.Join(p.Tags, ", "), "link": p.Link,
					"status": p.Status, "order": intValue(p.Order), "featured": checkbox(p.Featured),
				}
			},
			Parse: func(r *http.Request) model.Project {
				status := r.FormValue("status")
				if status == "" {
					status = model.ProjectActive
				}
				return model.Project{
					ID:          r.FormValue("id"),
					Title:       strings.TrimSpace(r.FormValue("title")),
					Date:        strings.TrimSpace(r.FormValue("date")),
					Category:    strings.TrimSpace(r.FormValue("category")),
					Description: strings.TrimSpace(r.FormValue("description")),
					Image:       strings.TrimSpace(r.FormValue("image")),
					Tags:        formTags(r, "tags"),
					Link:        strings.TrimSpace(r.FormValue("link")),
					Status:      status,
					Order:       formInt(r, "order"),
					Featured:    formBool(r, "featured"),
				}
			},
			Image: &imageUpload[model.Project]{
				Upload: a.Projects.UploadImage,
				Set:    func(p *model.Project, u string) { p.Image = u },
			},
			Toggles: []toggle[model.Project]{{
				Label: "Featured",
				BoolField: crud.BoolField[model.Project]{
					Name: "featured",
					Get:  func(p model.Project) bool { return p.Featured },
					Set:  func(p *model.Project, v bool) { p.Featured = v },
				},
			}},
			Panels: []string{"setup-defaults"},
			Extra: func(mux *http.ServeMux, s *Server, res *resource[model.Project]) {
				mux.Handle("POST "+res.base()+"/setup-defaults", s.gate.Require(setupDefaults(res, a.Projects.SetupDefaults,
					"Default projects created successfully", "Failed to set up default projects")))
			},
		},

		&resource[model.BlogPost]{
			Name:  "blog",
			Title: "Blog Posts",
			NewEndpoint: func() crud.Lister[model.BlogPost] {
				return newBlogPages(a.Blogs)
			},
			Options: crud.Options[model.BlogPost]{
				Noun:     "Blog post",
				Validate: validate.BlogPost,
			},
			Columns: []column[model.BlogPost]{
				{"Title", func(b model.BlogPost) string { return b.Title }},
				{"Author", func(b model.BlogPost) string { return b.Author }},
				{"Category", func(b model.BlogPost) string { return b.Category }},
				{"Likes", func(b model.BlogPost) string { return strconv.Itoa(b.Likes) }},
			},
			Form: []formField{
				{Name: "title", Label: "Title", Kind: "text", Required: true},
				{Name: "author", Label: "Author", Kind: "text", Required: true},
				{Name: "category", Label: "Category", Kind: "select", Options: model.BlogCategories, Required: true},
				{Name: "content", Label: "Content", Kind: "textarea"},
				{Name: "blogUrl", Label: "External URL (instead of content)", Kind: "url"},
				{Name: "tags", Label: "Tags (comma separated)", Kind: "text"},
				{Name: "imageUrl", Label: "Cover image URL", Kind: "url"},
				{Name: "imageFile", Label: "Or upload a cover image", Kind: "file"},
				{Name: "readTime", Label: "Read time (minutes)", Kind: "number"},
				{Name: "isPublished", Label: "Published", Kind: "checkbox"},
				{Name: "isFeatured", Label: "Featured", Kind: "checkbox"},
			},
			Values: func(b model.BlogPost) map[string]string {
				return map[string]string{
					"title": b.Title, "author": b.Author, "category": b.Category, "content": b.Content,
					"blogUrl": b.BlogURL, "tags": strings.Join(b.Tags, ", "), "imageUrl": b.ImageURL,
					"readTime": intValue(b.ReadTime), "isPublished": checkbox(b.IsPublished),
					"isFeatured": checkbox(b.IsFeatured),
				}
			},
			Parse: func(r *http.Request) model.BlogPost {
				return model.BlogPost{
					ID:          r.FormValue("id"),
					Title:       strings.TrimSpace(r.FormValue("title")),
					Author:      strings.TrimSpace(r.FormValue("author")),
					Category:    r.FormValue("category"),
					Content:     r.FormValue("content"),
					BlogURL:     strings.TrimSpace(r.FormValue("blogUrl")),
					Tags:        formTags(r, "tags"),
					ImageURL:    strings.TrimSpace(r.FormValue("imageUrl")),
					ReadTime:    formInt(r, "readTime"),
					IsPublished: formBool(r, "isPublished"),
					IsFeatured:  formBool(r, "isFeatured"),
				}
			},
			Image: &imageUpload[model.BlogPost]{
				Upload: a.Blogs.UploadImage,
				Set:    func(b *model.BlogPost, u string) { b.ImageURL = u },
			},
			Toggles: []toggle[model.BlogPost]{
				{
					Label: "Published",
					BoolField: crud.BoolField[model.BlogPost]{
						Name:     "isPublished",
						Get:      func(b model.BlogPost) bool { return b.IsPublished },
						Set:      func(b *model.BlogPost, v bool) { b.IsPublished = v },
						Enabled:  "Blog post published",
						Disabled: "Blog post unpublished",
					},
				},
				{
					Label: "Featured",
					BoolField: crud.BoolField[model.BlogPost]{
						Name: "isFeatured",
						Get:  func(b model.BlogPost) bool { return b.IsFeatured },
						Set:  func(b *model.BlogPost, v bool) { b.IsFeatured = v },
					},
				},
			},
		},

		&resource[model.ContactMessage]{
			Name:     "messages",
			Title:    "Messages",
			Endpoint: a.Contacts,
			Options: crud.Options[model.ContactMessage]{
				Noun:     "Message",
				Messages: crud.Messages{Cleared: "All messages deleted successfully"},
			},
			Columns: []column[model.ContactMessage]{
				{"Name", func(m model.ContactMessage) string { return m.Name }},
				{"Email", func(m model.ContactMessage) string { return m.Email }},
				{"Subject", func(m model.ContactMessage) string { return subjectLabel(m.Subject) }},
				{"Received", func(m model.ContactMessage) string { return formatDate(m.CreatedAt) }},
			},
			Status: &crud.StatusField[model.ContactMessage]{
				Name:    "status",
				Allowed: model.ContactStatuses,
				Set:     func(m *model.ContactMessage, v string) { m.Status = v },
			},
			StatusOf: func(m model.ContactMessage) string { return m.Status },
			Detail: func(m model.ContactMessage) []detailRow {
				rows := []detailRow{
					{Label: "From", Value: m.Name},
					{Label: "Email", Value: m.Email},
					{Label: "Subject", Value: subjectLabel(m.Subject)},
					{Label: "Received", Value: formatDate(m.CreatedAt)},
					{Label: "Message", Value: m.Message, Long: true},
				}
				if m.AdminResponse != "" {
					rows = append(rows, detailRow{Label: "Admin response", Value: m.AdminResponse, Long: true})
				}
				return rows
			},
			// 未読メッセージは開いた時点で既読にする
			OnOpen: func(m model.ContactMessage) (string, bool) {
				return model.ContactRead, m.Status == "" || m.Status == model.ContactUnread
			},
		},

		&resource[model.Video]{
			Name:     "videos",
			Title:    "Videos",
			Endpoint: a.Videos,
			Options: crud.Options[model.Video]{
				Noun:     "Video",
				Messages: crud.Messages{Deleted: "Video deleted successfully!"},
			},
			Columns: []column[model.Video]{
				{"Name", func(v model.Video) string { return v.Name }},
				{"Type", func(v model.Video) string { return v.Type }},
				{"File", func(v model.Video) string { return v.OriginalName }},
				{"Size", func(v model.Video) string { return formatSize(v.Size) }},
				{"Active", func(v model.Video) string { return yesNo(v.IsActive) }},
			},
			Panels: []string{"video-upload"},
			PanelData: func(v crud.View[model.Video]) any {
				return videoPanel{Types: []string{model.VideoDesktop, model.VideoMobile}, MaxMB: validate.MaxVideoBytes >> 20}
			},
			Extra: func(mux *http.ServeMux, s *Server, res *resource[model.Video]) {
				mux.Handle("POST "+res.base()+"/upload", s.gate.Require(uploadVideo(s, res)))
			},
		},

		&resource[model.Subscription]{
			Name:     "subscriptions",
			Title:    "Subscriptions",
			Endpoint: a.Subscriptions,
			Options: crud.Options[model.Subscription]{
				Noun: "Subscription",
				Messages: crud.Messages{
					DeletedMany: "%d subscriptions deleted successfully",
					Cleared:     "All subscriptions deleted successfully",
				},
			},
			Columns: []column[model.Subscription]{
				{"Email", func(sub model.Subscription) string { return sub.Email }},
				{"Subscribed", func(sub model.Subscription) string { return formatDate(sub.CreatedAt) }},
			},
			Toggles: []toggle[model.Subscription]{{
				Label: "Active",
				BoolField: crud.BoolField[model.Subscription]{
					Name:     "isActive",
					Get:      func(sub model.Subscription) bool { return sub.IsActive },
					Set:      func(sub *model.Subscription, v bool) { sub.IsActive = v },
					Enabled:  "Subscription activated successfully",
					Disabled: "Subscription deactivated successfully",
				},
			}},
			Selectable: true,
			Panels:     []string{"bulk-email"},
			PanelData: func(v crud.View[model.Subscription]) any {
				active := 0
				for _, sub := range v.Items {
					if sub.IsActive {
						active++
					}
				}
				return bulkEmailPanel{Active: active, Total: len(v.Items)}
			},
			Extra: func(mux *http.ServeMux, s *Server, res *resource[model.Subscription]) {
				mux.Handle("POST "+res.base()+"/bulk-email", s.gate.Require(sendBulkEmail(s, res)))
			},
		},

		&resource[model.ProjectReport]{
			Name:     "reports",
			Title:    "Project Reports",
			Endpoint: a.Reports,
			Options: crud.Options[model.ProjectReport]{
				Noun:     "Report",
				Messages: crud.Messages{Cleared: "All reports deleted successfully"},
			},
			Columns: []column[model.ProjectReport]{
				{"Title", func(p model.ProjectReport) string { return p.Title }},
				{"Reporter", func(p model.ProjectReport) string { return p.ReporterName }},
				{"Category", func(p model.ProjectReport) string { return p.Category }},
				{"Submitted", func(p model.ProjectReport) string { return formatDate(p.CreatedAt) }},
			},
			Status: &crud.StatusField[model.ProjectReport]{
				Name:    "status",
				Allowed: model.ReportStatuses,
				Set:     func(p *model.ProjectReport, v string) { p.Status = v },
			},
			StatusOf: func(p model.ProjectReport) string { return p.Status },
			Detail: func(p model.ProjectReport) []detailRow {
				return []detailRow{
					{Label: "Title", Value: p.Title},
					{Label: "Reporter", Value: p.ReporterName},
					{Label: "Email", Value: p.ReporterEmail},
					{Label: "Category", Value: p.Category},
					{Label: "Project URL", Value: p.ProjectURL},
					{Label: "Description", Value: p.Description, Long: true},
					{Label: "Admin notes", Value: p.AdminNotes, Long: true},
				}
			},
		},

		&resource[model.TeamApplication]{
			Name:     "applications",
			Title:    "Team Applications",
			Endpoint: a.Applications,
			Options: crud.Options[model.TeamApplication]{
				Noun:     "Application",
				Messages: crud.Messages{Cleared: "All applications deleted successfully"},
			},
			Columns: []column[model.TeamApplication]{
				{"Name", func(p model.TeamApplication) string { return p.Name }},
				{"Email", func(p model.TeamApplication) string { return p.Email }},
				{"Interest", func(p model.TeamApplication) string { return p.Interest }},
				{"Applied", func(p model.TeamApplication) string { return formatDate(p.CreatedAt) }},
			},
			Status: &crud.StatusField[model.TeamApplication]{
				Name:    "status",
				Allowed: model.ApplicationStatuses,
				Set:     func(p *model.TeamApplication, v string) { p.Status = v },
			},
			StatusOf: func(p model.TeamApplication) string { return p.Status },
			Detail: func(p model.TeamApplication) []detailRow {
				return []detailRow{
					{Label: "Name", Value: p.Name},
					{Label: "Email", Value: p.Email},
					{Label: "Phone", Value: p.Phone},
					{Label: "LinkedIn", Value: p.LinkedIn},
					{Label: "Interest", Value: p.Interest},
					{Label: "Comment", Value: p.Comment, Long: true},
				}
			},
		},
	}
}
