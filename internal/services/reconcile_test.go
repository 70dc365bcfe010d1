package services

import (
	"context"
	"testing"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/state"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReconcilerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Post{}))
	return db
}

func newTestReconciler(t *testing.T) (*PostReconciler, *gorm.DB) {
	t.Helper()
	db := setupReconcilerDB(t)
	return NewPostReconciler(db, NewCategoryResolver(db), state.NewMemoryStore()), db
}

func strptr(s string) *string { return &s }

func TestNormalizePost_NonRegression(t *testing.T) {
	reconciler, _ := newTestReconciler(t)
	web := &models.Category{ID: "c1", Name: "Web"}

	first := reconciler.NormalizePost(models.Post{
		ID:       "p1",
		MediaURL: strptr("http://x/img.png"),
		Category: web,
	}, nil)
	assert.Equal(t, "http://x/img.png", *first.MediaURL)

	// Re-fetch after a sort change comes back with both fields null.
	second := reconciler.NormalizePost(models.Post{ID: "p1"}, nil)
	assert.NotNil(t, second.MediaURL)
	assert.Equal(t, "http://x/img.png", *second.MediaURL)
	assert.NotNil(t, second.Category)
	assert.Equal(t, "Web", second.Category.Name)
}

func TestNormalizePost_CategoryLookupFallback(t *testing.T) {
	reconciler, _ := newTestReconciler(t)

	byID := map[string]models.Category{
		"c9": {ID: "c9", Name: "DevOps"},
	}

	// No relation loaded, but the raw category id is known.
	post := reconciler.NormalizePost(models.Post{ID: "p2", CategoryID: strptr("c9")}, byID)
	assert.NotNil(t, post.Category)
	assert.Equal(t, "DevOps", post.Category.Name)

	// The lookup result is now the last known good value.
	again := reconciler.NormalizePost(models.Post{ID: "p2"}, nil)
	assert.NotNil(t, again.Category)
	assert.Equal(t, "DevOps", again.Category.Name)
}

func TestNormalizePost_UnknownStaysNil(t *testing.T) {
	reconciler, _ := newTestReconciler(t)

	post := reconciler.NormalizePost(models.Post{ID: "p3"}, nil)
	assert.Nil(t, post.MediaURL)
	assert.Nil(t, post.Category)
}

func TestForgetPost_AllowsExplicitRemoval(t *testing.T) {
	reconciler, _ := newTestReconciler(t)

	reconciler.NormalizePost(models.Post{
		ID:       "p4",
		MediaURL: strptr("http://x/a.png"),
		Category: &models.Category{ID: "c1", Name: "Web"},
	}, nil)

	// The author edited the post and removed the media.
	reconciler.ForgetPost("p4")

	post := reconciler.NormalizePost(models.Post{ID: "p4"}, nil)
	assert.Nil(t, post.MediaURL)
	assert.Nil(t, post.Category)
}

func TestFetchPosts_ReturnsPage(t *testing.T) {
	reconciler, db := newTestReconciler(t)

	author := models.User{ID: "u1", Username: "amina", Email: "amina@example.com"}
	assert.NoError(t, db.Create(&author).Error)
	cat := models.Category{ID: "c1", Name: "Web Development"}
	assert.NoError(t, db.Create(&cat).Error)

	for i := 0; i < 3; i++ {
		post := models.Post{
			Title:      "Post",
			Content:    "Body",
			AuthorID:   "u1",
			CategoryID: strptr("c1"),
			CreatedAt:  time.Now().Add(time.Duration(-i) * time.Hour),
		}
		assert.NoError(t, db.Create(&post).Error)
	}

	page, err := reconciler.FetchPosts(context.Background(), PostQuery{Page: 1, PageSize: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Len(t, page.Items, 2)
	// Relations are reconciled onto the view.
	assert.Equal(t, "amina", page.Items[0].Author.Username)
}

func TestFetchPosts_CacheHitSkipsDatabase(t *testing.T) {
	reconciler, db := newTestReconciler(t)

	assert.NoError(t, db.Create(&models.User{ID: "u1", Username: "amina", Email: "a@example.com"}).Error)
	assert.NoError(t, db.Create(&models.Post{Title: "One", Content: "x", AuthorID: "u1"}).Error)

	query := PostQuery{Page: 1, PageSize: 10}

	first, err := reconciler.FetchPosts(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalCount)

	// A row written behind the cache must not show up while the page is fresh.
	assert.NoError(t, db.Create(&models.Post{Title: "Two", Content: "y", AuthorID: "u1"}).Error)

	cached, err := reconciler.FetchPosts(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalCount)
}

func TestFetchPosts_WriteInvalidatesCache(t *testing.T) {
	reconciler, db := newTestReconciler(t)

	assert.NoError(t, db.Create(&models.User{ID: "u1", Username: "amina", Email: "a@example.com"}).Error)
	assert.NoError(t, db.Create(&models.Post{Title: "One", Content: "x", AuthorID: "u1"}).Error)

	query := PostQuery{Page: 1, PageSize: 10}
	_, err := reconciler.FetchPosts(context.Background(), query)
	assert.NoError(t, err)

	assert.NoError(t, db.Create(&models.Post{Title: "Two", Content: "y", AuthorID: "u1"}).Error)
	reconciler.InvalidateListCaches(context.Background())

	fresh, err := reconciler.FetchPosts(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalCount)
}

func TestFetchPosts_CategoryCachesAreIndependent(t *testing.T) {
	reconciler, db := newTestReconciler(t)

	assert.NoError(t, db.Create(&models.User{ID: "u1", Username: "amina", Email: "a@example.com"}).Error)
	web := models.Category{ID: "11111111-1111-1111-1111-111111111111", Name: "Web Development"}
	mobile := models.Category{ID: "22222222-2222-2222-2222-222222222222", Name: "Mobile"}
	assert.NoError(t, db.Create(&web).Error)
	assert.NoError(t, db.Create(&mobile).Error)

	assert.NoError(t, db.Create(&models.Post{Title: "W", Content: "x", AuthorID: "u1", CategoryID: &web.ID}).Error)
	assert.NoError(t, db.Create(&models.Post{Title: "M", Content: "y", AuthorID: "u1", CategoryID: &mobile.ID}).Error)

	webPage, err := reconciler.FetchPosts(context.Background(), PostQuery{Page: 1, PageSize: 10, Category: web.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), webPage.TotalCount)

	// Invalidate only the mobile category plus the unfiltered view; the web
	// page stays cached.
	assert.NoError(t, db.Create(&models.Post{Title: "W2", Content: "z", AuthorID: "u1", CategoryID: &web.ID}).Error)
	reconciler.InvalidateListCaches(context.Background(), &mobile.ID)

	webAgain, err := reconciler.FetchPosts(context.Background(), PostQuery{Page: 1, PageSize: 10, Category: web.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), webAgain.TotalCount)

	reconciler.InvalidateListCaches(context.Background(), &web.ID)
	webFresh, err := reconciler.FetchPosts(context.Background(), PostQuery{Page: 1, PageSize: 10, Category: web.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), webFresh.TotalCount)
}
