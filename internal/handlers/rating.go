package handlers

import (
	"net/http"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RateUserInput struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RateUser handles POST /users/:username/rate
// One rating per rater; rating the same user again updates the existing row.
func RateUser(c *gin.Context) {
	raterID := c.MustGet("userId").(string)

	var rated models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&rated).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	ratedID := rated.ID

	if raterID == ratedID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot rate yourself"})
		return
	}

	var input RateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 5"})
		return
	}

	var rating models.Rating
	err := database.DB.Where("rater_id = ? AND rated_id = ?", raterID, ratedID).First(&rating).Error
	isNew := err == gorm.ErrRecordNotFound

	rating.RaterID = raterID
	rating.RatedID = ratedID
	rating.Score = input.Score
	rating.Comment = input.Comment

	if err := database.DB.Save(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	if isNew {
		CreateNotification(database.DB, models.Notification{
			UserID:  ratedID,
			ActorID: raterID,
			Type:    models.NotificationTypeRating,
			Message: "rated your profile",
		})
	}

	database.DB.Preload("Rater").First(&rating, "id = ?", rating.ID)

	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// GetUserRatings handles GET /users/:username/ratings
func GetUserRatings(c *gin.Context) {
	var rated models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&rated).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	ratedID := rated.ID

	var ratings []models.Rating
	if err := database.DB.Preload("Rater").Where("rated_id = ?", ratedID).Order("created_at desc").Find(&ratings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	average, count := ratingSummary(ratedID)

	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
		"average": average,
		"count":   count,
	})
}

// DeleteRating handles DELETE /users/:username/rate
func DeleteRating(c *gin.Context) {
	raterID := c.MustGet("userId").(string)

	var rated models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&rated).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	result := database.DB.Where("rater_id = ? AND rated_id = ?", raterID, rated.ID).Delete(&models.Rating{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating removed"})
}

// ratingSummary computes the live average and count for a profile.
func ratingSummary(userID string) (float64, int64) {
	var result struct {
		Average float64
		Count   int64
	}
	database.DB.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) as average, COUNT(*) as count").
		Where("rated_id = ?", userID).
		Scan(&result)
	return result.Average, result.Count
}
