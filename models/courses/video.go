package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video принадлежит ровно одному модулю. Порядок видео внутри модуля —
// по времени создания записи в каталоге.
type Video struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ModuleID  uuid.UUID `json:"moduleId" gorm:"type:uuid;not null;index"`
	Module    *Module   `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	URL       string    `json:"url" gorm:"size:500;not null"`
	Duration  int       `json:"duration"` // длительность видео в секундах
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
