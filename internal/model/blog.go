package model

import "time"

// BlogCategories are the categories offered by the admin blog editor.
var BlogCategories = []string{
	"Web Security", "Network Security", "Penetration Testing",
	"Malware Analysis", "CTF", "Research", "Tools", "Other",
}

type BlogPost struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	BlogURL     string    `json:"blogUrl,omitempty"` // set when the post lives on an external site
	IsPublished bool      `json:"isPublished"`
	IsFeatured  bool      `json:"isFeatured"`
	ReadTime    int       `json:"readTime,omitempty"` // minutes
	Views       int       `json:"views,omitempty"`
	Likes       int       `json:"likes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

func (b BlogPost) Key() string { return b.ID }

// Pagination is the page metadata returned by paginated list endpoints.
// It is rendered as received and never recomputed locally.
type Pagination struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// BlogQuery carries the list parameters sent to the blog endpoints.
// Empty Search and Category are omitted from the request.
type BlogQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// BlogPage is one page of blog posts with its pagination metadata.
type BlogPage struct {
	Blogs      []BlogPost `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}
