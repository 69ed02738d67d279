package model

// swagger:model User
type User struct {
	BaseModel
	Username    string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string `gorm:"size:254" json:"email"`
	Password    string `gorm:"size:100;not null" json:"-"`
	DisplayName string `gorm:"size:80" json:"display_name"`
}

func (User) TableName() string {
	return "users"
}
