package domain

import (
	"strings"
	"time"
)

// Content is the landing page hero copy. Only the oldest record is shown.
type Content struct {
	ID        string    `json:"id"`
	Header    string    `json:"header"`
	Subheader string    `json:"subheader"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Content) Validate() error {
	if strings.TrimSpace(c.Header) == "" {
		return Invalid("header is required")
	}
	if strings.TrimSpace(c.Subheader) == "" {
		return Invalid("subheader is required")
	}
	return nil
}
