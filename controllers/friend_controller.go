// File: /controllers/friend_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"friends-api/services"
	"friends-api/utils"
)

type FriendController struct {
	friendService *services.FriendService
}

func NewFriendController(friendService *services.FriendService) *FriendController {
	return &FriendController{friendService: friendService}
}

type addFriendRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type requestIDBody struct {
	RequestID string `json:"request_id" binding:"required"`
}

// GetFriends returns the caller's accepted friendships.
func (fc *FriendController) GetFriends(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit, offset := pagination(c)

	friends, err := fc.friendService.ListFriends(userID, limit, offset)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch friends")
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends, "page": page, "limit": limit})
}

// GetFriendRequests returns the caller's pending requests, split into
// outgoing and ingoing.
func (fc *FriendController) GetFriendRequests(c *gin.Context) {
	userID := c.GetString("user_id")
	_, limit, offset := pagination(c)

	lists, err := fc.friendService.ListRequests(userID, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch friend requests")
		return
	}

	c.JSON(http.StatusOK, lists)
}

// AddFriend sends a friend request to the user matching the identifier.
func (fc *FriendController) AddFriend(c *gin.Context) {
	userID := c.GetString("user_id")

	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	requestID, err := fc.friendService.SendRequest(userID, req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Friend not found")
		case errors.Is(err, services.ErrInvalidOperation):
			utils.SendError(c, http.StatusBadRequest, "You should already be friends with yourself :)")
		case errors.Is(err, services.ErrConflict):
			utils.SendError(c, http.StatusConflict, "Friend (request) already exists")
		case errors.Is(err, services.ErrRateLimited):
			utils.SendError(c, http.StatusTooManyRequests, "Slow down. You already sent a friend request to this user previously. Please try again later")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to send friend request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"request_id": requestID})
}

// AcceptFriendRequest accepts a pending request addressed to the caller.
func (fc *FriendController) AcceptFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")

	var req requestIDBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := fc.friendService.AcceptRequest(userID, req.RequestID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			utils.SendError(c, http.StatusBadRequest, "Invalid request ID")
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Friend request not found")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to accept friend request")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveFriend declines an ingoing request, cancels an outgoing one, or
// removes an accepted friend, depending on who the caller is.
func (fc *FriendController) RemoveFriend(c *gin.Context) {
	userID := c.GetString("user_id")

	var req requestIDBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := fc.friendService.RemoveOrDecline(userID, req.RequestID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			utils.SendError(c, http.StatusBadRequest, "Invalid request ID")
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Friend (request) not found")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to remove friend")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}
