// File: /services/friend_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"friends-api/models"
)

// RelationshipStore is the persistent relation store consumed by the
// friend graph service.
type RelationshipStore interface {
	ListRelationships(userID string, pendingOnly bool, limit, offset int) ([]models.EnrichedRelationship, error)
	ExistsBetween(a, b string) (bool, error)
	InsertPending(senderID, receiverID string) (string, error)
	Accept(requestID, receiverID string) (bool, error)
	FindReceivable(requestID, receiverID string) (*models.Relationship, error)
	FindPendingReceivable(requestID, receiverID string) (*models.Relationship, error)
	Delete(requestID, requesterID string) (bool, error)
}

// UserResolver looks up users owned by the identity subsystem.
type UserResolver interface {
	ResolveIdentifier(identifier string) (*models.User, error)
	ResolveID(id string) (*models.User, error)
}

// RequestCache mirrors cache.RequestCache; declared here so the service
// depends only on what it consumes.
type RequestCache interface {
	GetRecentSender(receiverID string) (string, bool)
	MarkRequested(receiverID, senderID string, ttl time.Duration)
}

// Notifier accepts fire-and-forget templated notifications. Implementations
// must never block the caller or report delivery failures back.
type Notifier interface {
	Enqueue(template, recipientEmail string, params map[string]string)
}

// Notification template names.
const (
	TemplateFriendRequest         = "FriendRequest"
	TemplateFriendRequestAccepted = "FriendRequestAccepted"
	TemplateFriendRequestRejected = "FriendRequestRejected"
)

type FriendService struct {
	store    RelationshipStore
	users    UserResolver
	cache    RequestCache
	notifier Notifier
	dedupTTL time.Duration
}

func NewFriendService(store RelationshipStore, users UserResolver, cache RequestCache, notifier Notifier, dedupTTL time.Duration) *FriendService {
	return &FriendService{
		store:    store,
		users:    users,
		cache:    cache,
		notifier: notifier,
		dedupTTL: dedupTTL,
	}
}

// RequestLists partitions a user's pending requests: outgoing are those the
// user sent, ingoing everything else.
type RequestLists struct {
	Outgoing []models.EnrichedRelationship `json:"outgoing"`
	Ingoing  []models.EnrichedRelationship `json:"ingoing"`
}

// SendRequest sends a friend request from the user identified by senderID
// to the user matching identifier (username or email). Returns the new
// request id.
func (s *FriendService) SendRequest(senderID, identifier string) (string, error) {
	sender, err := s.users.ResolveID(senderID)
	if err != nil {
		return "", fmt.Errorf("resolving sender: %w", err)
	}
	if sender == nil {
		return "", fmt.Errorf("sender %s: %w", senderID, ErrNotFound)
	}

	target, err := s.users.ResolveIdentifier(identifier)
	if err != nil {
		return "", fmt.Errorf("resolving target: %w", err)
	}
	if target == nil {
		return "", fmt.Errorf("friend not found: %w", ErrNotFound)
	}

	if target.ID == sender.ID {
		return "", fmt.Errorf("cannot befriend yourself: %w", ErrInvalidOperation)
	}

	exists, err := s.store.ExistsBetween(sender.ID, target.ID)
	if err != nil {
		return "", fmt.Errorf("checking existing relationship: %w", err)
	}
	if exists {
		return "", fmt.Errorf("friend (request) already exists: %w", ErrConflict)
	}

	if recentSender, ok := s.cache.GetRecentSender(target.ID); ok && recentSender == sender.ID {
		return "", fmt.Errorf("friend request recently sent: %w", ErrRateLimited)
	}

	requestID, err := s.store.InsertPending(sender.ID, target.ID)
	if err != nil {
		return "", fmt.Errorf("inserting request: %w", err)
	}

	s.cache.MarkRequested(target.ID, sender.ID, s.dedupTTL)
	s.notifier.Enqueue(TemplateFriendRequest, target.Email, map[string]string{
		"username": sender.Username,
	})

	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"sender":     sender.ID,
		"receiver":   target.ID,
	}).Info("friend request sent")

	return requestID, nil
}

// AcceptRequest accepts a pending request addressed to the user identified
// by receiverID.
func (s *FriendService) AcceptRequest(receiverID, requestID string) error {
	if _, err := uuid.Parse(requestID); err != nil {
		return fmt.Errorf("request id %q: %w", requestID, ErrInvalidID)
	}

	receiver, err := s.users.ResolveID(receiverID)
	if err != nil {
		return fmt.Errorf("resolving receiver: %w", err)
	}
	if receiver == nil {
		return fmt.Errorf("receiver %s: %w", receiverID, ErrNotFound)
	}

	accepted, err := s.store.Accept(requestID, receiver.ID)
	if err != nil {
		return fmt.Errorf("accepting request: %w", err)
	}
	if !accepted {
		return fmt.Errorf("friend request not found: %w", ErrNotFound)
	}

	// Derive the original sender to notify them. Failures past this point
	// never undo the accept.
	relationship, err := s.store.FindReceivable(requestID, receiver.ID)
	if err != nil || relationship == nil {
		logrus.WithField("request_id", requestID).WithError(err).
			Warn("accepted request vanished before notification lookup")
		return nil
	}

	sender, err := s.users.ResolveID(relationship.SenderID)
	if err != nil || sender == nil {
		logrus.WithField("sender_id", relationship.SenderID).WithError(err).
			Warn("could not resolve sender for acceptance notification")
		return nil
	}

	s.notifier.Enqueue(TemplateFriendRequestAccepted, sender.Email, map[string]string{
		"username": receiver.Username,
	})

	return nil
}

// RemoveOrDecline deletes the relationship: a decline when the requester is
// the receiver of a still-pending request, otherwise a cancel or unfriend.
// Only the decline path notifies the original sender.
func (s *FriendService) RemoveOrDecline(requesterID, requestID string) error {
	if _, err := uuid.Parse(requestID); err != nil {
		return fmt.Errorf("request id %q: %w", requestID, ErrInvalidID)
	}

	requester, err := s.users.ResolveID(requesterID)
	if err != nil {
		return fmt.Errorf("resolving requester: %w", err)
	}
	if requester == nil {
		return fmt.Errorf("requester %s: %w", requesterID, ErrNotFound)
	}

	declined, err := s.store.FindPendingReceivable(requestID, requester.ID)
	if err != nil {
		return fmt.Errorf("checking pending request: %w", err)
	}

	deleted, err := s.store.Delete(requestID, requester.ID)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	if !deleted {
		return fmt.Errorf("friend (request) not found: %w", ErrNotFound)
	}

	if declined != nil {
		sender, err := s.users.ResolveID(declined.SenderID)
		if err != nil || sender == nil {
			logrus.WithField("sender_id", declined.SenderID).WithError(err).
				Warn("could not resolve sender for rejection notification")
			return nil
		}
		s.notifier.Enqueue(TemplateFriendRequestRejected, sender.Email, map[string]string{
			"username": requester.Username,
		})
	}

	return nil
}

// ListFriends returns the user's accepted friendships, enriched and
// paginated.
func (s *FriendService) ListFriends(userID string, limit, offset int) ([]models.EnrichedRelationship, error) {
	return s.store.ListRelationships(userID, false, limit, offset)
}

// ListRequests returns all pending requests touching the user, split into
// outgoing and ingoing. Ids are hidden from enriched records, so the split
// compares usernames, which are equally unique.
func (s *FriendService) ListRequests(userID string, limit, offset int) (*RequestLists, error) {
	user, err := s.users.ResolveID(userID)
	if err != nil {
		return nil, fmt.Errorf("resolving user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	requests, err := s.store.ListRelationships(user.ID, true, limit, offset)
	if err != nil {
		return nil, err
	}

	lists := &RequestLists{
		Outgoing: make([]models.EnrichedRelationship, 0),
		Ingoing:  make([]models.EnrichedRelationship, 0),
	}
	for _, request := range requests {
		if request.SenderUsername() == user.Username {
			lists.Outgoing = append(lists.Outgoing, request)
		} else {
			lists.Ingoing = append(lists.Ingoing, request)
		}
	}

	return lists, nil
}
