package model

import "time"

// QuizAttempt 一次评分的记录，只追加不修改
// swagger:model QuizAttempt
type QuizAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	LessonID       uint      `gorm:"index;not null" json:"lesson_id"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	BatchID        *string   `gorm:"size:36;index" json:"batch_id,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
