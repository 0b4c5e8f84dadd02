package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoProgress — состояние просмотра видео пользователем.
// На пару (пользователь, видео) существует не более одной записи.
// CreatedAt определяет позицию записи в последовательности просмотра.
type VideoProgress struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_video"`
	VideoID      uuid.UUID  `json:"videoId" gorm:"type:uuid;not null;uniqueIndex:idx_user_video"`
	Video        *Video     `json:"video,omitempty" gorm:"foreignKey:VideoID"`
	LastPosition float64    `json:"lastPosition" gorm:"not null;default:0"`
	Completed    bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt  *time.Time `json:"completedAt"` // заполняется только при completed = true
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (p *VideoProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
