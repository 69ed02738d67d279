package model

import "time"

// LessonProgress 用户在某课程上的最好成绩，(user_id, lesson_id) 唯一
// swagger:model LessonProgress
type LessonProgress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID  uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`
	Percent   int       `gorm:"not null;default:0" json:"percent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
