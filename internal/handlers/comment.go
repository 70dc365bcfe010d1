package handlers

import (
	"net/http"
	"strings"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListComments handles GET /posts/:id/comments
func ListComments(c *gin.Context) {
	postID := c.Param("id")

	var comments []models.Comment
	if err := database.DB.Preload("User").Where("post_id = ?", postID).Order("created_at asc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment handles POST /posts/:id/comments
func CreateComment(c *gin.Context) {
	postID := c.Param("id")
	userID := c.MustGet("userId").(string)

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment must not be empty"})
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		Content: input.Content,
		UserID:  userID,
		PostID:  postID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if post.AuthorID != userID {
		CreateNotification(database.DB, models.Notification{
			UserID:  post.AuthorID,
			ActorID: userID,
			Type:    models.NotificationTypeComment,
			Message: "commented on your post",
			PostID:  &post.ID,
		})
	}

	Posts.InvalidateListCaches(c.Request.Context(), post.CategoryID)

	database.DB.Preload("User").First(&comment, "id = ?", comment.ID)

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /comments/:id
func DeleteComment(c *gin.Context) {
	commentID := c.Param("id")
	userID := c.MustGet("userId").(string)

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
