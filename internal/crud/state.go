package crud

import (
	"errors"
	"time"
)

// Phase is the controller's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	LoadError
	Submitting
	SubmitError
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case LoadError:
		return "load-error"
	case Submitting:
		return "submitting"
	case SubmitError:
		return "submit-error"
	default:
		return "unknown"
	}
}

// Confirmation is the user's answer to a destructive-action prompt.
type Confirmation int

const (
	NotConfirmed Confirmation = iota
	Confirmed
	// StronglyConfirmed is required for clearing a whole collection.
	StronglyConfirmed
)

// ClearPhrase must be typed to strongly confirm a clear-all.
const ClearPhrase = "DELETE ALL"

// ConfirmationFrom maps a submitted confirm form to a Confirmation.
func ConfirmationFrom(confirmed bool, phrase string) Confirmation {
	switch {
	case confirmed && phrase == ClearPhrase:
		return StronglyConfirmed
	case confirmed:
		return Confirmed
	default:
		return NotConfirmed
	}
}

var (
	ErrUnsupported  = errors.New("crud: operation not supported by endpoint")
	ErrNotConfirmed = errors.New("crud: action not confirmed")
	ErrSuperseded   = errors.New("crud: load superseded by a newer request")
	ErrNotFound     = errors.New("crud: item not in collection")
	ErrCeiling      = errors.New("crud: limit reached")
	ErrInvalidValue = errors.New("crud: value not allowed")
	ErrPartial      = errors.New("crud: some items were not deleted")
)

// NoticeKind is the banner style.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a banner shown after an operation. DismissAfter 0 means it stays
// until the next action.
type Notice struct {
	Kind         NoticeKind
	Text         string
	DismissAfter time.Duration
}

// Messages are a resource's banner texts.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	DeletedMany  string // formatted with the number deleted
	Cleared      string
	LoadFailed   string
	SaveFailed   string
	UpdateFailed string
	DeleteFailed string
	ClearFailed  string
	// DismissAfter applies to success banners. Defaults to 3s.
	DismissAfter time.Duration
}

func (m Messages) withDefaults(noun string) Messages {
	set := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	set(&m.Created, noun+" added successfully")
	set(&m.Updated, noun+" updated successfully")
	set(&m.Deleted, noun+" deleted successfully")
	set(&m.DeletedMany, "%d items deleted successfully")
	set(&m.Cleared, "All items deleted")
	set(&m.LoadFailed, "Failed to load "+noun+" list")
	set(&m.SaveFailed, "Failed to save "+noun)
	set(&m.UpdateFailed, "Failed to update "+noun)
	set(&m.DeleteFailed, "Failed to delete "+noun)
	set(&m.ClearFailed, "Failed to clear items")
	if m.DismissAfter <= 0 {
		m.DismissAfter = 3 * time.Second
	}
	return m
}
