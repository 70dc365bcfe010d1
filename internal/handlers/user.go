package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// GetProfile handles GET /users/:username
// Private profiles are only visible to their owner.
func GetProfile(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	query := database.DB.Where("username = ?", username)
	if utils.IsUUID(username) {
		query = database.DB.Where("id = ? OR username = ?", username, username)
	}
	if err := query.First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	viewerID, _ := c.Get("userId")
	if user.Visibility == models.VisibilityPrivate && viewerID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.RatingAverage, user.RatingCount = ratingSummary(user.ID)

	var postCount int64
	database.DB.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&postCount)

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"postCount": postCount,
		"isOnline":  IsUserOnline(user.ID),
	})
}

type UpdateProfileInput struct {
	Name              *string  `json:"name"`
	Bio               *string  `json:"bio"`
	Location          *string  `json:"location"`
	AvatarURL         *string  `json:"avatarUrl"`
	GithubURL         *string  `json:"githubUrl"`
	WebsiteURL        *string  `json:"websiteUrl"`
	Skills            []string `json:"skills"`
	Interests         []string `json:"interests"`
	YearsOfExperience *int     `json:"yearsOfExperience"`
	Visibility        *string  `json:"visibility"`
}

// UpdateProfile handles PUT /users/me
func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Bio != nil {
		updates["bio"] = utils.SanitizeHTML(*input.Bio)
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.GithubURL != nil {
		updates["github_url"] = *input.GithubURL
	}
	if input.WebsiteURL != nil {
		updates["website_url"] = *input.WebsiteURL
	}
	if input.Skills != nil {
		updates["skills"] = pq.StringArray(input.Skills)
	}
	if input.Interests != nil {
		updates["interests"] = pq.StringArray(input.Interests)
	}
	if input.YearsOfExperience != nil {
		updates["years_of_experience"] = *input.YearsOfExperience
	}
	if input.Visibility != nil {
		v := models.Visibility(*input.Visibility)
		if v != models.VisibilityPublic && v != models.VisibilityPrivate {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility"})
			return
		}
		updates["visibility"] = v
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	database.DB.First(&user, "id = ?", userID)
	user.RatingAverage, user.RatingCount = ratingSummary(user.ID)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListDevelopers handles GET /users — the directory listing.
// Supports search by name/username/skill and pagination. Private and blocked
// profiles are excluded.
func ListDevelopers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := database.DB.Model(&models.User{}).
		Where("visibility = ?", models.VisibilityPublic).
		Where("is_blocked = ?", false)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := utils.SanitizeSearchQuery(search)
		query = query.Where(
			"name ILIKE ? OR username ILIKE ? OR skills::text ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if location := strings.TrimSpace(c.Query("location")); location != "" {
		query = query.Where("location ILIKE ?", utils.SanitizeSearchQuery(location))
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch developers"})
		return
	}

	for i := range users {
		users[i].RatingAverage, users[i].RatingCount = ratingSummary(users[i].ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"developers": users,
		"totalCount": total,
		"page":       page,
		"pageSize":   pageSize,
	})
}

// GetUserPosts handles GET /users/:username/posts
func GetUserPosts(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var posts []models.Post
	if err := database.DB.Preload("Author").Preload("Category").
		Where("author_id = ?", user.ID).Order("created_at desc").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
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
