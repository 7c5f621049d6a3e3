package history

import (
	"time"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/model"
)

// Snapshot is a point-in-time copy of a Store's visible state.
type Snapshot struct {
	Category   model.Category          `json:"category"`
	Records    []model.OperationRecord `json:"content"`
	Page       int                     `json:"number"`
	Size       int                     `json:"size"`
	TotalPages int                     `json:"totalPages"`
	Range      filter.Range            `json:"range"`
	Loading    bool                    `json:"loading"`
	Error      string                  `json:"error,omitempty"`
	UpdatedAt  time.Time               `json:"updatedAt"`
	Seq        uint64                  `json:"seq"`
}

// Pages is the page count to display. A reported total of 0 shows as 1.
func (s Snapshot) Pages() int {
	if s.TotalPages < 1 {
		return 1
	}
	return s.TotalPages
}

// CanGoTo reports whether n is inside [0, TotalPages). With TotalPages 0 no page
// is reachable.
func (s Snapshot) CanGoTo(n int) bool {
	return n >= 0 && n < s.TotalPages
}

func (s Snapshot) HasPrev() bool { return s.CanGoTo(s.Page - 1) }

func (s Snapshot) HasNext() bool { return s.CanGoTo(s.Page + 1) }

// Filtered reports whether a committed range restricts the page.
func (s Snapshot) Filtered() bool { return !s.Range.IsZero() }
