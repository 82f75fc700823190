package dispatch

import (
	"errors"
	"time"

	"paramibot/internal/content"
	kit "paramibot/internal/transport"
)

// ErrNoItems is the cause recorded when a source returns an empty list.
var ErrNoItems = errors.New("no items")

// LanguageResult is the outcome of the broadcast for one language.
type LanguageResult struct {
	Language    content.Language
	Destination kit.ChatTarget
	Sent        bool
	// Title of the chosen item (empty when nothing was chosen).
	Title string
	Err   error
}

func (r LanguageResult) Reason() string { return Reason(r.Err) }

// BroadcastReport holds one result per configured language, in table order.
type BroadcastReport struct {
	Started  time.Time
	Finished time.Time
	Results  []LanguageResult
}

func (r BroadcastReport) SentCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Sent {
			n++
		}
	}
	return n
}

func (r BroadcastReport) Failed() []LanguageResult {
	var out []LanguageResult
	for _, res := range r.Results {
		if !res.Sent {
			out = append(out, res)
		}
	}
	return out
}

func (r BroadcastReport) Result(lang content.Language) (LanguageResult, bool) {
	for _, res := range r.Results {
		if res.Language == lang {
			return res, true
		}
	}
	return LanguageResult{}, false
}

// ListState tracks one ListAll call.
type ListState string

const (
	StateValidating       ListState = "validating"
	StateLoading          ListState = "loading"
	StateRendering        ListState = "rendering"
	StateChunking         ListState = "chunking"
	StateSending          ListState = "sending"
	StateCompleted        ListState = "completed"
	StatePartiallyFailed  ListState = "partially_failed"
	StateValidationFailed ListState = "validation_failed"
	StateLoadFailed       ListState = "load_failed"
)

func (s ListState) Terminal() bool {
	switch s {
	case StateCompleted, StatePartiallyFailed, StateValidationFailed, StateLoadFailed:
		return true
	}
	return false
}

// ListReport is the outcome of ListAll. Sent counts chunks delivered before
// the first failure; Total is the number of chunks produced.
type ListReport struct {
	Language  content.Language
	Requester kit.ChatTarget
	State     ListState
	Items     int
	Sent      int
	Total     int
	Err       error
}

// Reason classifies a dispatch error for reports and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, content.ErrUnsupportedLanguage):
		return "unsupported_language"
	case errors.Is(err, content.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, kit.ErrDeliveryFailed):
		return "delivery_failed"
	default:
		return "error"
	}
}
