package events

import (
	"time"

	"github.com/phambaophuc/showcase/internal/models"
)

const EventShowcaseCreated = "showcase.created"

// ShowcaseEvent announces a stored showcase. Image payloads are never
// included.
type ShowcaseEvent struct {
	Event     string          `json:"event"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      models.Category `json:"type"`
	Date      string          `json:"date"`
	Path      string          `json:"path"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewShowcaseCreated(record *models.ClientRecord, at time.Time) ShowcaseEvent {
	return ShowcaseEvent{
		Event:     EventShowcaseCreated,
		ID:        record.ID,
		Name:      record.Name,
		Type:      record.Type,
		Date:      record.Date,
		Path:      record.ShowcasePath(),
		CreatedAt: at.UTC(),
	}
}
