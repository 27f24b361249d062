package models

import "time"

type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	DeviceToken string    `json:"-"` // FCM registration token
	Addresses   []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Address is a delivery address owned by a user. Orders only keep a reference.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	Label      string    `json:"label"`
	Country    string    `json:"country"`
	City       string    `json:"city"`
	Street     string    `json:"street"`
	Building   string    `json:"building"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}
