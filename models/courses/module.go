package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module — раздел курса. Порядок прохождения задается серийным номером.
type Module struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	SerialNumber int       `json:"serialNumber" gorm:"uniqueIndex;not null"`
	Videos       []Video   `json:"videos,omitempty" gorm:"foreignKey:ModuleID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
