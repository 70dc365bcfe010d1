package services

import (
	"context"
	"testing"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Category{}))
	return db
}

const webDevID = "11111111-1111-1111-1111-111111111111"

func seedCategories(t *testing.T, db *gorm.DB) {
	t.Helper()
	categories := []models.Category{
		{ID: webDevID, Name: "Web Development", Description: "Frontend and backend web"},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Mobile", Description: "iOS and Android"},
		{ID: "33333333-3333-3333-3333-333333333333", Name: "Web3", Description: "Blockchain"},
		{ID: "44444444-4444-4444-4444-444444444444", Name: "DevOps", Description: "Infra and tooling"},
	}
	for i := range categories {
		assert.NoError(t, db.Create(&categories[i]).Error)
	}
}

func TestResolveCategoryID_CanonicalID(t *testing.T) {
	db := setupCatalogDB(t)
	seedCategories(t, db)
	resolver := NewCategoryResolver(db)

	id, outcome := resolver.ResolveCategoryID(context.Background(), webDevID)
	assert.Equal(t, webDevID, id)
	assert.Equal(t, ResolutionResolved, outcome)
}

func TestResolveCategoryID_ShortCodeMatchesName(t *testing.T) {
	db := setupCatalogDB(t)
	seedCategories(t, db)
	resolver := NewCategoryResolver(db)

	// "web-development" normalizes to the exact name "Web Development".
	id, outcome := resolver.ResolveCategoryID(context.Background(), "web-development")
	assert.Equal(t, webDevID, id)
	assert.Equal(t, ResolutionResolved, outcome)

	// "web-dev" is a substring of "Web Development" only.
	id, outcome = resolver.ResolveCategoryID(context.Background(), "web-dev")
	assert.Equal(t, webDevID, id)
	assert.Equal(t, ResolutionFallback, outcome)
}

func TestResolveCategoryID_SubstringTieBreak(t *testing.T) {
	db := setupCatalogDB(t)
	seedCategories(t, db)
	resolver := NewCategoryResolver(db)

	// "web" substring-matches both "Web Development" and "Web3"; the shortest
	// name wins deterministically.
	id, outcome := resolver.ResolveCategoryID(context.Background(), "web")
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", id)
	assert.Equal(t, ResolutionFallback, outcome)
}

func TestResolveCategoryID_UnknownFallsBackToExisting(t *testing.T) {
	db := setupCatalogDB(t)
	seedCategories(t, db)
	resolver := NewCategoryResolver(db)

	id, outcome := resolver.ResolveCategoryID(context.Background(), "quantum-basket-weaving")
	assert.Equal(t, ResolutionFallback, outcome)
	// Alphabetically first category.
	assert.Equal(t, "44444444-4444-4444-4444-444444444444", id)
}

func TestResolveCategoryID_EmptyStoreReturnsInputUnchanged(t *testing.T) {
	db := setupCatalogDB(t)
	resolver := NewCategoryResolver(db)

	id, outcome := resolver.ResolveCategoryID(context.Background(), "web-dev")
	assert.Equal(t, "web-dev", id)
	assert.Equal(t, ResolutionUnchanged, outcome)
}

func TestCategories_CachedAcrossCalls(t *testing.T) {
	db := setupCatalogDB(t)
	seedCategories(t, db)
	resolver := NewCategoryResolver(db)

	first, err := resolver.Categories(context.Background())
	assert.NoError(t, err)
	assert.Len(t, first, 4)

	// A row added behind the cache is invisible until Invalidate.
	assert.NoError(t, db.Create(&models.Category{Name: "AI"}).Error)

	second, err := resolver.Categories(context.Background())
	assert.NoError(t, err)
	assert.Len(t, second, 4)

	resolver.Invalidate()
	third, err := resolver.Categories(context.Background())
	assert.NoError(t, err)
	assert.Len(t, third, 5)
}
