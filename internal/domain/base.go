package domain

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel holds the common columns shared by all persisted entities.
// Deletion is physical in this service, so there is no DeletedAt column.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamp;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updated_at"`
}
