package model

import "time"

// Profile mirrors the identity provider's profiles side table, keyed by the
// provider's user id. The service only ever reads it.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	Username  string    `gorm:"type:varchar(128);index" json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
