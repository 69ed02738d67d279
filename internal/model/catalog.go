package model

import (
	"gorm.io/datatypes"
)

// Category 课程分类
// swagger:model Category
type Category struct {
	BaseModel
	Slug        string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Emoji       string `gorm:"size:16" json:"emoji"`
}

func (Category) TableName() string {
	return "categories"
}

// Lesson 课程，Content 保存完整的课程文档（含 quiz.items），对测验引擎只读
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CategoryID uint           `gorm:"not null;index;uniqueIndex:idx_category_title" json:"category_id"`
	Title      string         `gorm:"size:200;not null;uniqueIndex:idx_category_title" json:"title"`
	Difficulty string         `gorm:"size:10;default:'A1'" json:"difficulty"`
	WordCount  int            `gorm:"default:0" json:"word_count"`
	Content    datatypes.JSON `json:"content,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
