// Package validate holds the client-side form rules. A failing rule set
// returns *Errors and the form is never sent to the backend.
package validate

import (
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// std runs the tag rules. A *validator.Validate caches struct and tag
// parsing and is safe for concurrent use.
var std = validator.New()

const (
	tagRequired = "required"
	tagEmail    = "email"
	// httpURL accepts absolute http and https URLs only.
	tagHTTPURL = "url,startswith=http://|startswith=https://"
)

// Errors maps form field names to their messages.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "".
func (e *Errors) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// Summary is the single-line banner text used by forms that show one message.
func (e *Errors) Summary(fallback string) string {
	if e == nil || len(e.Fields) != 1 {
		return fallback
	}
	for _, msg := range e.Fields {
		return msg
	}
	return fallback
}

type checker struct {
	fields map[string]string
}

func (c *checker) fail(field, msg string) {
	if c.fields == nil {
		c.fields = map[string]string{}
	}
	if _, exists := c.fields[field]; !exists {
		c.fields[field] = msg
	}
}

// rule records msg for field when value fails the validator tag.
func (c *checker) rule(field string, value any, tag, msg string) bool {
	if err := std.Var(value, tag); err != nil {
		c.fail(field, msg)
		return false
	}
	return true
}

func (c *checker) required(field, value string) bool {
	return c.rule(field, strings.TrimSpace(value), tagRequired, "This field is required")
}

func (c *checker) email(field, value string) {
	if c.required(field, value) {
		c.rule(field, strings.TrimSpace(value), tagEmail, "Enter a valid email address")
	}
}

func (c *checker) url(field, value string) {
	if value == "" {
		return
	}
	c.rule(field, value, tagHTTPURL, "Enter a valid URL")
}

// between checks an integer range expressed as validator min/max tags.
func (c *checker) between(field string, n int, tag, msg string) {
	c.rule(field, n, tag, msg)
}

// oneOf checks membership in an option list. Option labels may contain
// spaces, which the oneof tag cannot carry.
func (c *checker) oneOf(field, value string, allowed []string) {
	if value == "" {
		return
	}
	if !slices.Contains(allowed, value) {
		c.fail(field, "Choose one of the listed options")
	}
}

func (c *checker) agreed(field string, ok bool, msg string) {
	if !ok {
		c.fail(field, msg)
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Errors{Fields: c.fields}
}
