// File: /services/friend_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"friends-api/cache"
	"friends-api/models"
	"friends-api/repositories"
)

type sentNotification struct {
	Template  string
	Recipient string
	Params    map[string]string
}

// recordingNotifier captures enqueued notifications for assertions.
type recordingNotifier struct {
	mutex sync.Mutex
	sent  []sentNotification
}

func (n *recordingNotifier) Enqueue(template, recipientEmail string, params map[string]string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.sent = append(n.sent, sentNotification{Template: template, Recipient: recipientEmail, Params: params})
}

func (n *recordingNotifier) byTemplate(template string) []sentNotification {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	var matched []sentNotification
	for _, s := range n.sent {
		if s.Template == template {
			matched = append(matched, s)
		}
	}
	return matched
}

type serviceFixture struct {
	service  *FriendService
	store    *repositories.RelationshipRepository
	notifier *recordingNotifier
	db       *gorm.DB
}

func newServiceFixture(t *testing.T, dedupTTL time.Duration) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Relationship{}))

	users := []models.User{
		{ID: "user-a", Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "hash"},
		{ID: "user-b", Username: "bob", Email: "bob@example.com", Name: "Bob", Password: "hash"},
		{ID: "user-c", Username: "carol", Email: "carol@example.com", Name: "Carol", Password: "hash"},
	}
	for _, user := range users {
		require.NoError(t, db.Create(&user).Error)
	}

	store := repositories.NewRelationshipRepository(db, []string{"password", "email"})
	notifier := &recordingNotifier{}
	service := NewFriendService(store, repositories.NewUserRepository(db), cache.NewMemoryRequestCache(), notifier, dedupTTL)

	return &serviceFixture{service: service, store: store, notifier: notifier, db: db}
}

func TestSendAndAcceptEstablishesFriendship(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)
	require.NotEmpty(t, requestID)

	// The receiver was notified with the sender's username.
	requests := f.notifier.byTemplate(TemplateFriendRequest)
	require.Len(t, requests, 1)
	assert.Equal(t, "bob@example.com", requests[0].Recipient)
	assert.Equal(t, "alice", requests[0].Params["username"])

	require.NoError(t, f.service.AcceptRequest("user-b", requestID))

	exists, err := f.store.ExistsBetween("user-a", "user-b")
	require.NoError(t, err)
	assert.True(t, exists)

	var relationship models.Relationship
	require.NoError(t, f.db.First(&relationship, "id = ?", requestID).Error)
	assert.Nil(t, relationship.Pending)
	require.NotNil(t, relationship.AcceptedAt)

	// The sender was notified with the accepter's username.
	accepted := f.notifier.byTemplate(TemplateFriendRequestAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, "alice@example.com", accepted[0].Recipient)
	assert.Equal(t, "bob", accepted[0].Params["username"])
}

func TestSendRequestByEmailIdentifier(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
}

func TestSendRequestToSelfFails(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	_, err := f.service.SendRequest("user-a", "alice")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = f.service.SendRequest("user-a", "alice@example.com")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestSendRequestToUnknownUserFails(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	_, err := f.service.SendRequest("user-a", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendRequestConflictsWhilePairExists(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	_, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	// Same direction.
	_, err = f.service.SendRequest("user-a", "bob")
	assert.ErrorIs(t, err, ErrConflict)

	// Reverse direction while pending.
	_, err = f.service.SendRequest("user-b", "alice")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSendRequestRateLimitedWithinWindow(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	// Cancel so no relationship blocks the resend; the cache entry alone
	// must throttle it.
	require.NoError(t, f.service.RemoveOrDecline("user-a", requestID))

	_, err = f.service.SendRequest("user-a", "bob")
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different sender inside the window is not throttled.
	_, err = f.service.SendRequest("user-c", "bob")
	assert.NoError(t, err)
}

func TestSendRequestSucceedsAfterWindowExpires(t *testing.T) {
	f := newServiceFixture(t, 30*time.Millisecond)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)
	require.NoError(t, f.service.RemoveOrDecline("user-a", requestID))

	time.Sleep(50 * time.Millisecond)

	_, err = f.service.SendRequest("user-a", "bob")
	assert.NoError(t, err)
}

func TestAcceptRequestValidation(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	err := f.service.AcceptRequest("user-b", "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	// Not addressed to carol.
	err = f.service.AcceptRequest("user-c", requestID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The sender cannot accept their own request.
	err = f.service.AcceptRequest("user-a", requestID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.service.AcceptRequest("user-b", requestID))

	// Accepting twice finds no pending request.
	err = f.service.AcceptRequest("user-b", requestID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeclineNotifiesSenderExactlyOnce(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveOrDecline("user-b", requestID))

	rejected := f.notifier.byTemplate(TemplateFriendRequestRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "alice@example.com", rejected[0].Recipient)
	assert.Equal(t, "bob", rejected[0].Params["username"])

	exists, err := f.store.ExistsBetween("user-a", "user-b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCancelBySenderNotifiesNobody(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveOrDecline("user-a", requestID))

	assert.Empty(t, f.notifier.byTemplate(TemplateFriendRequestRejected))
}

func TestUnfriendAfterAcceptanceNotifiesNobody(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest("user-b", requestID))

	// Either party can unfriend; the request is no longer pending, so no
	// rejection notification fires.
	require.NoError(t, f.service.RemoveOrDecline("user-b", requestID))

	assert.Empty(t, f.notifier.byTemplate(TemplateFriendRequestRejected))
}

func TestRemoveOrDeclineValidation(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	err := f.service.RemoveOrDecline("user-a", "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	requestID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	// A third party cannot delete the relationship.
	err = f.service.RemoveOrDecline("user-c", requestID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.service.RemoveOrDecline("user-a", requestID))

	// Deleting an already-deleted request id.
	err = f.service.RemoveOrDecline("user-a", requestID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRequestsPartition(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	outgoingID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)

	ingoingID, err := f.service.SendRequest("user-c", "alice")
	require.NoError(t, err)

	lists, err := f.service.ListRequests("user-a", 100, 0)
	require.NoError(t, err)

	require.Len(t, lists.Outgoing, 1)
	assert.Equal(t, outgoingID, lists.Outgoing[0].RequestID)
	assert.Equal(t, "bob", lists.Outgoing[0].Receiver["username"])

	require.Len(t, lists.Ingoing, 1)
	assert.Equal(t, ingoingID, lists.Ingoing[0].RequestID)
	assert.Equal(t, "carol", lists.Ingoing[0].Sender["username"])

	// Every pending relationship touching the user lands in exactly one
	// bucket.
	assert.NotEqual(t, lists.Outgoing[0].RequestID, lists.Ingoing[0].RequestID)
}

func TestListFriendsOnlyAccepted(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	acceptedID, err := f.service.SendRequest("user-a", "bob")
	require.NoError(t, err)
	require.NoError(t, f.service.AcceptRequest("user-b", acceptedID))

	_, err = f.service.SendRequest("user-c", "alice")
	require.NoError(t, err)

	friends, err := f.service.ListFriends("user-a", 100, 0)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, acceptedID, friends[0].RequestID)

	// Deny-listed fields stay hidden in friend listings too.
	assert.NotContains(t, friends[0].Sender, "password")
	assert.NotContains(t, friends[0].Receiver, "email")
}
