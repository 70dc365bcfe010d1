package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUpdateProfile_SkillsRoundTrip(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	u := models.User{ID: "skills_user", Username: "skills_user", Email: "skills_user@example.com"}
	database.DB.Create(&u)

	body, _ := json.Marshal(map[string]interface{}{
		"skills":    []string{"Go", "React", "PostgreSQL"},
		"interests": []string{"Open Source"},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/users/me", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "skills_user")

	UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	database.DB.First(&stored, "id = ?", "skills_user")
	assert.Equal(t, pq.StringArray{"Go", "React", "PostgreSQL"}, stored.Skills)
	assert.Equal(t, pq.StringArray{"Open Source"}, stored.Interests)

	var response struct {
		User struct {
			Skills []string `json:"skills"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, []string{"Go", "React", "PostgreSQL"}, response.User.Skills)
}

func TestUpdateProfile_OmittedSkillsUnchanged(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	u := models.User{
		ID: "skills_keep", Username: "skills_keep", Email: "skills_keep@example.com",
		Skills: pq.StringArray{"Rust"},
	}
	database.DB.Create(&u)

	name := "New Name"
	body, _ := json.Marshal(map[string]*string{"name": &name})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/users/me", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "skills_keep")

	UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	database.DB.First(&stored, "id = ?", "skills_keep")
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, pq.StringArray{"Rust"}, stored.Skills)
}
