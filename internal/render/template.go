// Package render implements the render-template catalog: the HTML documents
// that render steps instantiate to produce the final translated PDF. Template
// HTML passes through a sanitizer before persistence; downstream code treats
// the stored HTML as an opaque safe string.
package render

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable render template managed by super-admins.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveCommand carries the writable fields for create and update.
type SaveCommand struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// Validate enforces a non-empty name and HTML body.
func (c *SaveCommand) Validate() error {
	if c.Name == "" || c.HTML == "" {
		return ErrInvalid
	}
	return nil
}
