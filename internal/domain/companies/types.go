package companies

import (
	"time"

	"souq/internal/i18n"
)

type Company struct {
	ID          int64     `json:"id"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	VideoURL    string    `json:"video_url"`
	ButtonText  i18n.Text `json:"button_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
