package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationStatus is the delivery state of one queued push message.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSent      NotificationStatus = "sent"
	NotificationFailed    NotificationStatus = "failed"
	NotificationCancelled NotificationStatus = "cancelled"
)

// Notification is a queued outbound push message awaiting delivery.
// Rows stay pending until the dispatcher records a terminal outcome or the
// recipient cancels them. Retry counting is bookkeeping only; the decision
// to stop retrying belongs to the dispatcher's caller.
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Body        string

	Status       NotificationStatus `gorm:"size:20;not null;default:'pending';index"`
	ErrorMessage string
	SentAt       *time.Time
	RetryCount   int `gorm:"not null;default:0"`

	Recipient User `gorm:"foreignKey:RecipientID"`
}
