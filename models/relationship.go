// File: /models/relationship.go
package models

import "time"

// Relationship is a directed friend link between two users. While a request
// is awaiting acceptance Pending holds true; on acceptance it is set to SQL
// NULL (never false), so an accepted friendship is any row with pending NULL.
type Relationship struct {
	ID          string     `json:"id" gorm:"primaryKey;size:191"`
	SenderID    string     `json:"sender_id" gorm:"not null;size:191;index"`
	ReceiverID  string     `json:"receiver_id" gorm:"not null;size:191;index"`
	Pending     *bool      `json:"pending,omitempty" gorm:"index"`
	RequestedAt time.Time  `json:"requested_at" gorm:"not null"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`

	Sender   User `json:"-" gorm:"foreignKey:SenderID"`
	Receiver User `json:"-" gorm:"foreignKey:ReceiverID"`
}

// EnrichedRelationship is a relationship joined with the public profiles of
// both parties, as returned to API callers.
type EnrichedRelationship struct {
	RequestID string                 `json:"request_id"`
	Sender    map[string]interface{} `json:"sender"`
	Receiver  map[string]interface{} `json:"receiver"`
}

// SenderUsername reads the username off the enriched sender profile. Empty
// when the field was deny-listed away.
func (e EnrichedRelationship) SenderUsername() string {
	if username, ok := e.Sender["username"].(string); ok {
		return username
	}
	return ""
}
