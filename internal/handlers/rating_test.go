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
	"github.com/stretchr/testify/assert"
)

func rateRequest(t *testing.T, raterID, username string, score int) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{"score": score})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/users/"+username+"/rate", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "username", Value: username}}
	c.Set("userId", raterID)

	RateUser(c)
	return w
}

func TestRateUser_UpsertsSingleRow(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	rater := models.User{ID: "rater_1", Username: "rater_1", Email: "rater_1@example.com"}
	rated := models.User{ID: "rated_1", Username: "rated_1", Email: "rated_1@example.com"}
	database.DB.Create(&rater)
	database.DB.Create(&rated)

	w := rateRequest(t, "rater_1", "rated_1", 5)
	assert.Equal(t, http.StatusOK, w.Code)

	// Re-rating updates in place instead of adding a second row
	w = rateRequest(t, "rater_1", "rated_1", 3)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.Rating{}).Where("rated_id = ?", "rated_1").Count(&count)
	assert.Equal(t, int64(1), count)

	average, n := ratingSummary("rated_1")
	assert.Equal(t, 3.0, average)
	assert.Equal(t, int64(1), n)
}

func TestRateUser_RejectsSelfRating(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	u := models.User{ID: "self_rate", Username: "self_rate", Email: "self_rate@example.com"}
	database.DB.Create(&u)

	w := rateRequest(t, "self_rate", "self_rate", 4)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateUser_RejectsOutOfRangeScore(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	rater := models.User{ID: "rater_oor", Username: "rater_oor", Email: "rater_oor@example.com"}
	rated := models.User{ID: "rated_oor", Username: "rated_oor", Email: "rated_oor@example.com"}
	database.DB.Create(&rater)
	database.DB.Create(&rated)

	w := rateRequest(t, "rater_oor", "rated_oor", 6)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRating_RemovesRow(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	rater := models.User{ID: "rater_del", Username: "rater_del", Email: "rater_del@example.com"}
	rated := models.User{ID: "rated_del", Username: "rated_del", Email: "rated_del@example.com"}
	database.DB.Create(&rater)
	database.DB.Create(&rated)

	rateRequest(t, "rater_del", "rated_del", 4)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("DELETE", "/api/users/rated_del/rate", nil)
	c.Params = gin.Params{{Key: "username", Value: "rated_del"}}
	c.Set("userId", "rater_del")

	DeleteRating(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.Rating{}).Where("rated_id = ?", "rated_del").Count(&count)
	assert.Equal(t, int64(0), count)
}
