package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillstream-backend/models/courses"
)

// ProgressService отвечает за продвижение пользователя по курсу:
// процент прохождения, текущее видео, строгое обновление прогресса
// и переход к следующему модулю.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// ProgressSummary — сводка прохождения курса.
type ProgressSummary struct {
	ProgressPercentage float64 `json:"progressPercentage"`
	VideosCompleted    int64   `json:"videosCompleted"`
	TotalVideos        int64   `json:"totalVideos"`
}

// Summary считает долю завершенных видео от всего каталога.
func (s *ProgressService) Summary(userID uuid.UUID) (*ProgressSummary, error) {
	var completed int64
	if err := s.db.Model(&courses.VideoProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&courses.Video{}).Count(&total).Error; err != nil {
		return nil, err
	}

	summary := &ProgressSummary{
		VideosCompleted: completed,
		TotalVideos:     total,
	}
	// Пустой каталог: процент равен нулю, деления на ноль быть не должно
	if total > 0 {
		summary.ProgressPercentage = float64(completed) / float64(total) * 100
	}
	return summary, nil
}

// WatchedVideos возвращает завершенные записи прогресса вместе с видео,
// в порядке завершения.
func (s *ProgressService) WatchedVideos(userID uuid.UUID) ([]courses.VideoProgress, error) {
	var watched []courses.VideoProgress
	if err := s.db.Where("user_id = ? AND completed = ?", userID, true).
		Preload("Video").
		Order("completed_at ASC").
		Find(&watched).Error; err != nil {
		return nil, err
	}
	return watched, nil
}

// CurrentModule находит текущее видео пользователя — самую раннюю
// незавершенную запись прогресса — и модуль, которому оно принадлежит.
func (s *ProgressService) CurrentModule(userID uuid.UUID) (*courses.Module, *courses.VideoProgress, error) {
	var progress courses.VideoProgress
	err := s.db.Where("user_id = ? AND completed = ?", userID, false).
		Order("created_at ASC").
		Preload("Video.Module").
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoCurrentProgress
		}
		return nil, nil, err
	}

	return progress.Video.Module, &progress, nil
}

// UpdateProgressInput — поля запроса обновления прогресса.
// Указатели отличают отсутствующее поле от нулевого значения.
type UpdateProgressInput struct {
	VideoID      string   `json:"videoId"`
	LastPosition *float64 `json:"lastPosition"`
	Completed    *bool    `json:"completed"`
}

func (in *UpdateProgressInput) Validate() error {
	v := &ValidationError{}
	if _, err := uuid.Parse(in.VideoID); err != nil {
		v.add("videoId", "must be a valid uuid")
	}
	if in.LastPosition == nil {
		v.add("lastPosition", "is required")
	} else if *in.LastPosition < 0 {
		v.add("lastPosition", "must be greater than or equal to 0")
	}
	if in.Completed == nil {
		v.add("completed", "is required")
	}
	return v.errOrNil()
}

// Update обновляет позицию и отметку о завершении текущего видео.
// Обновлять разрешено только текущее видео: запрос к любому другому
// отклоняется с ErrCannotSkip, записи при этом не меняются.
func (s *ProgressService) Update(userID uuid.UUID, in UpdateProgressInput) (*courses.VideoProgress, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	videoID, _ := uuid.Parse(in.VideoID)

	var current courses.VideoProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND completed = ?", userID, false).
			Order("created_at ASC").
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCannotSkip
			}
			return err
		}
		if current.VideoID != videoID {
			return ErrCannotSkip
		}

		var completedAt *time.Time
		if *in.Completed {
			now := time.Now()
			completedAt = &now
		}

		// Условие completed = false в WHERE: если запись успели завершить
		// параллельным запросом, она уже не текущая и не перезаписывается
		res := tx.Model(&courses.VideoProgress{}).
			Where("id = ? AND completed = ?", current.ID, false).
			Updates(map[string]interface{}{
				"last_position": *in.LastPosition,
				"completed":     *in.Completed,
				"completed_at":  completedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCannotSkip
		}

		current.LastPosition = *in.LastPosition
		current.Completed = *in.Completed
		current.CompletedAt = completedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &current, nil
}

// NextModule находит модуль со следующим серийным номером и запись прогресса
// пользователя в нем. Если записи еще нет, она создается для первого видео
// модуля — это и есть зачисление в модуль.
func (s *ProgressService) NextModule(userID uuid.UUID, currentSerialNumber int) (*courses.Module, *courses.VideoProgress, error) {
	var module courses.Module
	err := s.db.Where("serial_number = ?", currentSerialNumber+1).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.created_at ASC")
		}).
		First(&module).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoNextModule
		}
		return nil, nil, err
	}

	if len(module.Videos) == 0 {
		return nil, nil, ErrModuleHasNoVideos
	}

	videoIDs := make([]uuid.UUID, len(module.Videos))
	for i, v := range module.Videos {
		videoIDs[i] = v.ID
	}

	var progress courses.VideoProgress
	err = s.db.Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Order("created_at ASC").
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = courses.VideoProgress{
			UserID:       userID,
			VideoID:      module.Videos[0].ID,
			LastPosition: 0,
			Completed:    false,
		}
		if err := s.db.Create(&progress).Error; err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	return &module, &progress, nil
}
