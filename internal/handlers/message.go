package handlers

import (
	"net/http"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GetConversations returns active conversations (by most recent message),
// with each counterpart's unread flag from the tracker.
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var messages []models.Message
	err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	unread := make(map[string]bool)
	for _, id := range Unread.UnreadConversations(c.Request.Context(), userID) {
		unread[id] = true
	}

	// Messages are newest-first, so the first message per counterpart is the
	// latest one.
	seen := make(map[string]bool)
	var conversations []gin.H
	for _, msg := range messages {
		counterpartID := msg.SenderID
		if counterpartID == userID {
			counterpartID = msg.RecipientID
		}
		if seen[counterpartID] {
			continue
		}
		seen[counterpartID] = true

		var counterpart models.User
		if err := database.DB.Select("id", "username", "name", "avatar_url").First(&counterpart, "id = ?", counterpartID).Error; err != nil {
			continue
		}

		conversations = append(conversations, gin.H{
			"user":        counterpart,
			"lastMessage": msg,
			"hasUnread":   unread[counterpartID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages returns the DM history with one counterpart and marks that
// conversation read.
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	var messages []models.Message
	err := database.DB.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		currentUserID, otherUserID, otherUserID, currentUserID,
	).Order("created_at asc").Preload("Sender").Preload("Recipient").Find(&messages).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Opening a conversation clears its unread flag
	if err := Unread.MarkConversationRead(c.Request.Context(), currentUserID, otherUserID); err != nil {
		logger.Warn().Err(err).Str("user_id", currentUserID).Msg("Failed to mark conversation read")
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage handles sending a text message
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)
	var req struct {
		RecipientID string `json:"recipientId" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.RecipientID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	var recipient models.User
	if err := database.DB.Select("id").First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to send message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Populate relations for return
	database.DB.Preload("Sender").Preload("Recipient").First(&msg, "id = ?", msg.ID)

	// Real-time emission
	if SocketServer != nil {
		data := map[string]interface{}{
			"message": msg,
		}
		// Send to recipient
		SocketServer.BroadcastToRoom("/", msg.RecipientID, "receive_message", data)
		// Optionally send to sender for multi-device sync
		SocketServer.BroadcastToRoom("/", msg.SenderID, "receive_message", data)
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// GetUnreadConversations returns the unread counterpart set and its size.
func GetUnreadConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	ids := Unread.UnreadConversations(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"unreadConversations": ids,
		"count":               len(ids),
	})
}

// RefreshUnreadConversations forces an immediate unread check, for a manual
// refresh action. A failure here keeps the previous state.
func RefreshUnreadConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	if err := Unread.Refresh(c.Request.Context(), userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Unread refresh failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to refresh unread messages"})
		return
	}

	ids := Unread.UnreadConversations(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"unreadConversations": ids,
		"count":               len(ids),
	})
}

// MarkAllMessagesRead empties the unread set. Used when the user opens the
// conversation list without selecting a conversation.
func MarkAllMessagesRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	if err := Unread.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All conversations marked read"})
}

// MarkConversationRead removes one counterpart from the unread set.
func MarkConversationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	counterpartID := c.Param("counterpartId")

	if err := Unread.MarkConversationRead(c.Request.Context(), userID, counterpartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark conversation read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked read"})
}
