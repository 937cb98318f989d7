package models

import (
	"strconv"
	"time"
)

// User represents a Telegram user in the system. A user is created lazily
// on first interaction and is never mutated or deleted afterwards.
type User struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID string    `json:"telegram_id" db:"telegram_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ChatID returns the numeric Telegram chat identifier used for message
// delivery. The stored identifier is opaque text, so conversion can fail
// for rows that did not come from the bot itself.
func (u *User) ChatID() (int64, error) {
	return strconv.ParseInt(u.TelegramID, 10, 64)
}
