package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GenerateUUID 生成批次ID，随机测验的多条记录共用同一个
func GenerateUUID() string {
	return uuid.New().String()
}

// Models 需要自动迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Lesson{},
		&QuizAttempt{},
		&LessonProgress{},
		&XpEvent{},
	}
}
