package model

import "time"

// CardFilter holds criteria for querying cards on a board. Zero values
// mean "no constraint". Matching cards are returned in board order
// (column order, then position) unless Sort names an explicit key.
type CardFilter struct {
	ColumnID  string     `json:"columnId,omitempty"`
	Priority  []Priority `json:"priority,omitempty"` // any of
	Tags      []string   `json:"tags,omitempty"`     // card must carry all
	Search    string     `json:"search,omitempty"`   // free text over title/content
	DueBefore *time.Time `json:"dueBefore,omitempty"`
	DueAfter  *time.Time `json:"dueAfter,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	Blocked   *bool      `json:"blocked,omitempty"`
	Sort      string     `json:"sort,omitempty"` // e.g. "-priority", "created_at"; prefix "-" = descending
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
