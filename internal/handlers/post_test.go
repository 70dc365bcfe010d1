package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreatePost_ResolvesCategorySlug(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	author := models.User{ID: "post_author", Username: "post_author", Email: "post_author@example.com"}
	database.DB.Create(&author)

	category := models.Category{ID: "cat_webdev", Name: "Web Development"}
	database.DB.Create(&category)

	body, _ := json.Marshal(map[string]string{
		"title":    "First post",
		"content":  "Hello",
		"category": "web-development",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/posts", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "post_author")

	CreatePost(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Post models.Post `json:"post"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if assert.NotNil(t, response.Post.CategoryID) {
		assert.Equal(t, "cat_webdev", *response.Post.CategoryID)
	}
}

func TestGetPost_MissingRendersNotFound(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.GET("/api/posts/:id", GetPost)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/posts/no_such_post", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Post not found", response["error"])
}

func TestUpdatePost_RemoveMediaClearsBackup(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	author := models.User{ID: "upd_author", Username: "upd_author", Email: "upd_author@example.com"}
	database.DB.Create(&author)

	media := "https://cdn.example.com/pic.png"
	post := models.Post{ID: "upd_post", Title: "t", Content: "c", AuthorID: "upd_author", MediaURL: &media}
	database.DB.Create(&post)

	// Seed the last-known-good view
	Posts.NormalizePost(post, map[string]models.Category{})

	empty := ""
	body, _ := json.Marshal(map[string]*string{"mediaUrl": &empty})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/posts/upd_post", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "upd_post"}}
	c.Set("userId", "upd_author")

	UpdatePost(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Post
	database.DB.First(&stored, "id = ?", "upd_post")
	assert.Nil(t, stored.MediaURL)

	// The removal must stick through normalization
	normalized := Posts.NormalizePost(stored, map[string]models.Category{})
	assert.Nil(t, normalized.MediaURL)
}

func TestToggleLike_IncrementsAndDecrements(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	author := models.User{ID: "like_author", Username: "like_author", Email: "like_author@example.com"}
	liker := models.User{ID: "like_user", Username: "like_user", Email: "like_user@example.com"}
	database.DB.Create(&author)
	database.DB.Create(&liker)

	post := models.Post{ID: "like_post", Title: "t", Content: "c", AuthorID: "like_author"}
	database.DB.Create(&post)

	like := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("POST", "/api/posts/like_post/like", nil)
		c.Params = gin.Params{{Key: "id", Value: "like_post"}}
		c.Set("userId", "like_user")
		ToggleLike(c)
		return w
	}

	w := like()
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Post
	database.DB.First(&stored, "id = ?", "like_post")
	assert.Equal(t, 1, stored.LikeCount)

	// Author gets a notification for the like
	var notifCount int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND type = ?", "like_author", models.NotificationTypeLike).Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)

	// Second toggle removes the like
	w = like()
	assert.Equal(t, http.StatusOK, w.Code)

	database.DB.First(&stored, "id = ?", "like_post")
	assert.Equal(t, 0, stored.LikeCount)
}

func TestRecordPostView_OncePerUser(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	author := models.User{ID: "view_author", Username: "view_author", Email: "view_author@example.com"}
	viewer := models.User{ID: "view_user", Username: "view_user", Email: "view_user@example.com"}
	database.DB.Create(&author)
	database.DB.Create(&viewer)

	post := models.Post{ID: "view_post", Title: "t", Content: "c", AuthorID: "view_author"}
	database.DB.Create(&post)

	view := func() {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("POST", "/api/posts/view_post/view", nil)
		c.Params = gin.Params{{Key: "id", Value: "view_post"}}
		c.Set("userId", "view_user")
		RecordPostView(c)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	view()
	view()

	var stored models.Post
	database.DB.First(&stored, "id = ?", "view_post")
	assert.Equal(t, 1, stored.ViewCount)
}

func TestCreateComment_IncrementsCountAndNotifies(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	author := models.User{ID: "cmt_author", Username: "cmt_author", Email: "cmt_author@example.com"}
	commenter := models.User{ID: "cmt_user", Username: "cmt_user", Email: "cmt_user@example.com"}
	database.DB.Create(&author)
	database.DB.Create(&commenter)

	post := models.Post{ID: "cmt_post", Title: "t", Content: "c", AuthorID: "cmt_author"}
	database.DB.Create(&post)

	body, _ := json.Marshal(map[string]string{"content": "nice one"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/posts/cmt_post/comments", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "cmt_post"}}
	c.Set("userId", "cmt_user")

	CreateComment(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var stored models.Post
	database.DB.First(&stored, "id = ?", "cmt_post")
	assert.Equal(t, 1, stored.CommentCount)

	var notifCount int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND type = ?", "cmt_author", models.NotificationTypeComment).Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}
