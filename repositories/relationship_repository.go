// File: /repositories/relationship_repository.go
package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"friends-api/models"
)

// RelationshipRepository is the persistent store for friend relationships.
// Callers must not assume any result order beyond pagination stability.
type RelationshipRepository struct {
	db         *gorm.DB
	denyFields []string
}

func NewRelationshipRepository(db *gorm.DB, denyFields []string) *RelationshipRepository {
	return &RelationshipRepository{
		db:         db,
		denyFields: denyFields,
	}
}

// ListRelationships returns relationships where the user is sender or
// receiver, filtered by pending state (pendingOnly selects requests,
// otherwise accepted friendships), enriched with both public profiles.
func (r *RelationshipRepository) ListRelationships(userID string, pendingOnly bool, limit, offset int) ([]models.EnrichedRelationship, error) {
	query := r.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID)

	if pendingOnly {
		query = query.Where("pending = ?", true)
	} else {
		query = query.Where("pending IS NULL")
	}

	var relationships []models.Relationship
	if err := query.Offset(offset).Limit(limit).Find(&relationships).Error; err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedRelationship, 0, len(relationships))
	for _, rel := range relationships {
		enriched = append(enriched, models.EnrichedRelationship{
			RequestID: rel.ID,
			Sender:    rel.Sender.Profile(r.denyFields),
			Receiver:  rel.Receiver.Profile(r.denyFields),
		})
	}

	return enriched, nil
}

// ExistsBetween reports whether any relationship, pending or accepted,
// exists between the two users in either direction.
func (r *RelationshipRepository) ExistsBetween(a, b string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Relationship{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertPending creates a new pending relationship and returns its id. The
// store itself does not enforce pair uniqueness; callers check
// ExistsBetween first.
func (r *RelationshipRepository) InsertPending(senderID, receiverID string) (string, error) {
	pending := true
	relationship := models.Relationship{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Pending:     &pending,
		RequestedAt: time.Now(),
	}

	if err := r.db.Create(&relationship).Error; err != nil {
		return "", err
	}
	return relationship.ID, nil
}

// Accept marks a pending request addressed to receiverID as accepted. The
// mutation is a single conditional UPDATE, so concurrent accepts of the
// same request resolve to exactly one winner. Returns whether a row was
// modified.
func (r *RelationshipRepository) Accept(requestID, receiverID string) (bool, error) {
	result := r.db.Model(&models.Relationship{}).
		Where("id = ? AND receiver_id = ? AND pending = ?", requestID, receiverID, true).
		Updates(map[string]interface{}{
			"pending":     nil,
			"accepted_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindReceivable looks up a relationship by id where the user is the
// receiver, in any state. Returns nil when no row matches.
func (r *RelationshipRepository) FindReceivable(requestID, receiverID string) (*models.Relationship, error) {
	var relationship models.Relationship
	err := r.db.Where("id = ? AND receiver_id = ?", requestID, receiverID).First(&relationship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &relationship, nil
}

// FindPendingReceivable is FindReceivable restricted to pending requests.
// Used to tell a decline apart from a cancel or unfriend before deleting.
func (r *RelationshipRepository) FindPendingReceivable(requestID, receiverID string) (*models.Relationship, error) {
	var relationship models.Relationship
	err := r.db.Where("id = ? AND receiver_id = ? AND pending = ?", requestID, receiverID, true).
		First(&relationship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &relationship, nil
}

// Delete removes the relationship if the requester is its sender or
// receiver. Returns whether a row was deleted.
func (r *RelationshipRepository) Delete(requestID, requesterID string) (bool, error) {
	result := r.db.Where("id = ? AND (sender_id = ? OR receiver_id = ?)", requestID, requesterID, requesterID).
		Delete(&models.Relationship{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
