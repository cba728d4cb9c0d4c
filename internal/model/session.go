package model

import "time"

// Session is the server-side record of an issued session token. The ID
// is a random identifier embedded in the token payload; the record
// exists solely so a session can be revoked (logout, password reset)
// before its token expires on its own.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    int64     `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
