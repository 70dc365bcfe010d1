package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/services"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/errors"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -- Inputs --

type CreatePostInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"` // canonical id, short-code or slug
	MediaURL string `json:"mediaUrl"`
	PostType string `json:"postType"`
}

type UpdatePostInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category *string `json:"category"` // nil = unchanged, "" = remove
	MediaURL *string `json:"mediaUrl"` // nil = unchanged, "" = remove
}

// -- Handlers --

// ListPosts handles GET /posts with filter, search, sort and pagination.
// Results go through the reconciler, so repeated fetches never regress a
// post's media or category to null.
func ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	query := services.PostQuery{
		Page:      page,
		PageSize:  pageSize,
		Category:  c.Query("category"),
		PostType:  c.Query("type"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "created_at"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}

	result, err := Posts.FetchPosts(c.Request.Context(), query)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      result.Items,
		"totalCount": result.TotalCount,
		"page":       query.Page,
		"pageSize":   query.PageSize,
	})
}

// GetPost handles GET /posts/:id
func GetPost(c *gin.Context) {
	id := c.Param("id")

	var post models.Post
	if result := database.DB.Preload("Author").Preload("Category").First(&post, "id = ?", id); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.Error(errors.NotFound("Post not found"))
		} else {
			c.Error(errors.Internal("Database error"))
		}
		return
	}

	categoriesByID, err := Categories.CategoriesByID(c.Request.Context())
	if err != nil {
		categoriesByID = map[string]models.Category{}
	}
	post = Posts.NormalizePost(post, categoriesByID)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost handles POST /posts
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content must not be empty"})
		return
	}

	post := models.Post{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		AuthorID: userID.(string),
		PostType: input.PostType,
	}
	if post.PostType == "" {
		post.PostType = "discussion"
	}
	if input.MediaURL != "" {
		post.MediaURL = &input.MediaURL
	}

	if input.Category != "" {
		categoryID, outcome := Categories.ResolveCategoryID(c.Request.Context(), input.Category)
		if outcome != services.ResolutionUnchanged {
			post.CategoryID = &categoryID
		}
	}

	if result := database.DB.Create(&post); result.Error != nil {
		logger.Error().Err(result.Error).Msg("Failed to create post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	Posts.InvalidateListCaches(c.Request.Context(), post.CategoryID)

	database.DB.Preload("Author").Preload("Category").First(&post, "id = ?", post.ID)

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost handles PUT /posts/:id
func UpdatePost(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userId")

	var post models.Post
	if result := database.DB.First(&post, "id = ?", id); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	var input UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldCategoryID := post.CategoryID

	if input.Title != "" {
		post.Title = strings.TrimSpace(input.Title)
	}
	if input.Content != "" {
		post.Content = input.Content
	}

	fieldRemoved := false
	if input.MediaURL != nil {
		if *input.MediaURL == "" {
			post.MediaURL = nil
			fieldRemoved = true
		} else {
			post.MediaURL = input.MediaURL
		}
	}
	if input.Category != nil {
		if *input.Category == "" {
			post.CategoryID = nil
			post.Category = nil
			fieldRemoved = true
		} else {
			categoryID, outcome := Categories.ResolveCategoryID(c.Request.Context(), *input.Category)
			if outcome != services.ResolutionUnchanged {
				post.CategoryID = &categoryID
				post.Category = nil
			}
		}
	}

	if err := database.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	// An explicit removal must not be masked by the last-known-good values.
	if fieldRemoved {
		Posts.ForgetPost(post.ID)
	}
	Posts.InvalidateListCaches(c.Request.Context(), oldCategoryID, post.CategoryID)

	database.DB.Preload("Author").Preload("Category").First(&post, "id = ?", post.ID)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost handles DELETE /posts/:id
func DeletePost(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userId")

	var post models.Post
	if result := database.DB.First(&post, "id = ?", id); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	database.DB.Delete(&post)

	Posts.ForgetPost(post.ID)
	Posts.InvalidateListCaches(c.Request.Context(), post.CategoryID)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleLike handles POST /posts/:id/like
func ToggleLike(c *gin.Context) {
	postID := c.Param("id")
	userID := c.MustGet("userId").(string)

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	liked := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var like models.PostLike
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like)

		if result.Error == nil {
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("like_count", gorm.Expr("like_count - 1")).Error
		}

		liked = true
		if err := tx.Create(&models.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	if liked && post.AuthorID != userID {
		CreateNotification(database.DB, models.Notification{
			UserID:  post.AuthorID,
			ActorID: userID,
			Type:    models.NotificationTypeLike,
			Message: "liked your post",
			PostID:  &post.ID,
		})
	}

	Posts.InvalidateListCaches(c.Request.Context(), post.CategoryID)

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// ToggleSave handles POST /posts/:id/save
func ToggleSave(c *gin.Context) {
	postID := c.Param("id")
	userID := c.MustGet("userId").(string)

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var saved models.SavedPost
	result := database.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&saved)

	if result.Error == nil {
		database.DB.Delete(&saved)
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}

	if err := database.DB.Create(&models.SavedPost{UserID: userID, PostID: postID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ListSavedPosts handles GET /posts/saved
func ListSavedPosts(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var saved []models.SavedPost
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved posts"})
		return
	}

	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.PostID)
	}

	var posts []models.Post
	if len(ids) > 0 {
		if err := database.DB.Preload("Author").Preload("Category").Where("id IN ?", ids).Find(&posts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved posts"})
			return
		}
	}

	categoriesByID, err := Categories.CategoriesByID(c.Request.Context())
	if err != nil {
		categoriesByID = map[string]models.Category{}
	}
	for i := range posts {
		posts[i] = Posts.NormalizePost(posts[i], categoriesByID)
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// RecordPostView handles POST /posts/:id/view
// Increments the view count ONLY ONCE per user
func RecordPostView(c *gin.Context) {
	postID := c.Param("id")
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var view models.PostView
		result := tx.Where("user_id = ? AND post_id = ?", userID.(string), postID).First(&view)

		if result.Error == nil {
			// Already viewed, do nothing (success)
			return nil
		}

		if err := tx.Create(&models.PostView{UserID: userID.(string), PostID: postID}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("view_count", gorm.Expr("view_count + 1")).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "View recorded"})
}
