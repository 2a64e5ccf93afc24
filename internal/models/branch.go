package models

import "time"

type Branch struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Location  string `gorm:"size:255"`
	Contact   string `gorm:"size:50"` // optional
	CreatedAt time.Time
	UpdatedAt time.Time

	Members []Member
	Users   []User
}
