package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/producthub/pkg/messaging"
	"github.com/google/uuid"
)

// ProductEventType is the kind of mutation a ProductEvent reports.
type ProductEventType string

const (
	ProductCreated ProductEventType = "created"
	ProductUpdated ProductEventType = "updated"
	ProductDeleted ProductEventType = "deleted"
)

type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  uuid.UUID        `json:"product_id"`
	Name       string           `json:"name"`
	Stock      int32            `json:"stock"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (e ProductEvent) Subject() string {
	switch e.Type {
	case ProductCreated:
		return messaging.ProductsCreatedSubject
	case ProductDeleted:
		return messaging.ProductsDeletedSubject
	default:
		return messaging.ProductsUpdatedSubject
	}
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
