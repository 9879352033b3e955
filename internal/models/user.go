package models

import (
	"time"
)

// User IDs are UUID strings in postgres and memory stores and ObjectID hex
// strings in mongo. Password holds a bcrypt hash and never leaves the server.
type User struct {
	ID        string    `json:"_id" gorm:"type:uuid;primaryKey"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedOn time.Time `json:"createdOn" gorm:"not null"`
}
