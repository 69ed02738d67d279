package model

import "time"

// XpEvent 经验值流水
// swagger:model XpEvent
type XpEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:255" json:"reason"`
	BatchID   *string   `gorm:"size:36" json:"batch_id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (XpEvent) TableName() string {
	return "xp_events"
}
