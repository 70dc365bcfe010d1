package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/state"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB and wires the shared
// services against it.
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.SavedPost{},
		&models.PostView{},
		&models.Message{},
		&models.Rating{},
		&models.Notification{},
	)
	InitServices(db, state.NewMemoryStore())
}

func TestGetConversations_UnreadFlag(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{ID: "me_conv", Username: "me_conv", Email: "me_conv@example.com"}
	other := models.User{ID: "other_conv", Username: "other_conv", Email: "other_conv@example.com"}
	database.DB.Create(&me)
	database.DB.Create(&other)

	database.DB.Create(&models.Message{
		ID: "m_conv_1", SenderID: "other_conv", RecipientID: "me_conv",
		Content: "hey", CreatedAt: time.Now().Add(-time.Minute),
	})

	// Populate the unread set before listing
	err := Unread.Refresh(context.Background(), "me_conv")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/messages/conversations", nil)
	c.Set("userId", "me_conv")

	GetConversations(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Conversations []struct {
			HasUnread bool `json:"hasUnread"`
			User      struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"conversations"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Len(t, response.Conversations, 1)
	if len(response.Conversations) == 1 {
		assert.Equal(t, "other_conv", response.Conversations[0].User.ID)
		assert.True(t, response.Conversations[0].HasUnread)
	}
}

func TestGetMessages_MarksConversationRead(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{ID: "me_read", Username: "me_read", Email: "me_read@example.com"}
	other := models.User{ID: "other_read", Username: "other_read", Email: "other_read@example.com"}
	database.DB.Create(&me)
	database.DB.Create(&other)

	database.DB.Create(&models.Message{
		ID: "m_read_1", SenderID: "other_read", RecipientID: "me_read",
		Content: "unread", CreatedAt: time.Now().Add(-time.Minute),
	})

	assert.NoError(t, Unread.Refresh(context.Background(), "me_read"))
	assert.Contains(t, Unread.UnreadConversations(context.Background(), "me_read"), "other_read")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/messages?userId=other_read", nil)
	c.Set("userId", "me_read")

	GetMessages(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, Unread.UnreadConversations(context.Background(), "me_read"), "other_read")
}

func TestSendMessage_CreatesRow(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	sender := models.User{ID: "send_a", Username: "send_a", Email: "send_a@example.com"}
	recipient := models.User{ID: "send_b", Username: "send_b", Email: "send_b@example.com"}
	database.DB.Create(&sender)
	database.DB.Create(&recipient)

	body, _ := json.Marshal(map[string]string{
		"recipientId": "send_b",
		"content":     "salaam",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/messages", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "send_a")

	SendMessage(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.Message{}).Where("sender_id = ? AND recipient_id = ?", "send_a", "send_b").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSendMessage_RejectsSelf(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	u := models.User{ID: "self_msg", Username: "self_msg", Email: "self_msg@example.com"}
	database.DB.Create(&u)

	body, _ := json.Marshal(map[string]string{
		"recipientId": "self_msg",
		"content":     "hi me",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/messages", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "self_msg")

	SendMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAllMessagesRead_EmptiesUnreadSet(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{ID: "me_all", Username: "me_all", Email: "me_all@example.com"}
	a := models.User{ID: "all_a", Username: "all_a", Email: "all_a@example.com"}
	b := models.User{ID: "all_b", Username: "all_b", Email: "all_b@example.com"}
	database.DB.Create(&me)
	database.DB.Create(&a)
	database.DB.Create(&b)

	database.DB.Create(&models.Message{ID: "m_all_1", SenderID: "all_a", RecipientID: "me_all", Content: "x", CreatedAt: time.Now().Add(-2 * time.Minute)})
	database.DB.Create(&models.Message{ID: "m_all_2", SenderID: "all_b", RecipientID: "me_all", Content: "y", CreatedAt: time.Now().Add(-time.Minute)})

	assert.NoError(t, Unread.Refresh(context.Background(), "me_all"))
	assert.Len(t, Unread.UnreadConversations(context.Background(), "me_all"), 2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/messages/read-all", nil)
	c.Set("userId", "me_all")

	MarkAllMessagesRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, Unread.UnreadConversations(context.Background(), "me_all"))
}
