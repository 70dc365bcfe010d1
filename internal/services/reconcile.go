package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/state"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/utils"
	"gorm.io/gorm"
)

// PostQuery describes one post list request.
type PostQuery struct {
	Page      int
	PageSize  int
	Category  string // canonical id, short-code or slug; resolved before querying
	PostType  string
	Search    string
	SortBy    string // created_at | like_count | comment_count | view_count
	SortOrder string // asc | desc
}

// PostPage is one page of reconciled posts.
type PostPage struct {
	Items      []models.Post `json:"items"`
	TotalCount int64         `json:"totalCount"`
}

// Cache freshness windows. The unfiltered view tolerates more staleness than
// a single category view.
const (
	allPostsCacheTTL = 60 * time.Second
	categoryCacheTTL = 30 * time.Second
)

// lastKnownGood is the per-post side table entry masking transient null
// media/category responses.
type lastKnownGood struct {
	MediaURL *string
	Category *models.Category
}

// PostReconciler produces consistent post views: media and category fields
// never regress to null within a session once observed, and list responses
// are cached per filter signature.
type PostReconciler struct {
	db       *gorm.DB
	resolver *CategoryResolver
	cache    state.Store

	mu        sync.Mutex
	lastKnown map[string]lastKnownGood
}

func NewPostReconciler(db *gorm.DB, resolver *CategoryResolver, cache state.Store) *PostReconciler {
	return &PostReconciler{
		db:        db,
		resolver:  resolver,
		cache:     cache,
		lastKnown: make(map[string]lastKnownGood),
	}
}

// NormalizePost fills null media/category fields from the last non-null value
// seen for this post id, falling back to a categoriesByID lookup for the raw
// category id. Reads and updates of the side table happen under one lock
// hold, so concurrent normalizations of the same post cannot apply a stale
// backup.
func (r *PostReconciler) NormalizePost(post models.Post, categoriesByID map[string]models.Category) models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := r.lastKnown[post.ID]

	if post.MediaURL != nil && *post.MediaURL != "" {
		known.MediaURL = post.MediaURL
	} else if known.MediaURL != nil {
		post.MediaURL = known.MediaURL
	}

	if post.Category != nil {
		known.Category = post.Category
	} else if known.Category != nil {
		post.Category = known.Category
	} else if post.CategoryID != nil {
		if cat, ok := categoriesByID[*post.CategoryID]; ok {
			post.Category = &cat
			known.Category = &cat
		}
	}

	r.lastKnown[post.ID] = known
	return post
}

// ForgetPost drops the side-table entry for a post. Called when an edit
// explicitly removes media or category, so the old values do not resurrect,
// and on delete.
func (r *PostReconciler) ForgetPost(postID string) {
	r.mu.Lock()
	delete(r.lastKnown, postID)
	r.mu.Unlock()
}

// FetchPosts returns one reconciled page for the query. A cached page younger
// than its freshness window is served without touching the database. On error
// the previous cached state is left untouched and an empty page is returned
// alongside the error.
func (r *PostReconciler) FetchPosts(ctx context.Context, q PostQuery) (PostPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}

	categoryID := ""
	if q.Category != "" {
		categoryID, _ = r.resolver.ResolveCategoryID(ctx, q.Category)
	}

	key := r.cacheKey(q, categoryID)

	var cached PostPage
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	page, err := r.queryPosts(ctx, q, categoryID)
	if err != nil {
		return PostPage{Items: []models.Post{}}, err
	}

	ttl := allPostsCacheTTL
	if categoryID != "" {
		ttl = categoryCacheTTL
	}
	if err := r.cache.Set(ctx, key, page, ttl); err != nil {
		// Serving the fresh result matters more than caching it.
		return page, nil
	}

	return page, nil
}

// InvalidateListCaches drops cached pages touched by a write: the unfiltered
// view plus every category the post moved between.
func (r *PostReconciler) InvalidateListCaches(ctx context.Context, categoryIDs ...*string) {
	_ = r.cache.DeletePattern(ctx, "posts:all:*")
	seen := make(map[string]bool)
	for _, id := range categoryIDs {
		if id == nil || *id == "" || seen[*id] {
			continue
		}
		seen[*id] = true
		_ = r.cache.DeletePattern(ctx, "posts:category_"+*id+":*")
	}
}

func (r *PostReconciler) cacheKey(q PostQuery, categoryID string) string {
	scope := "all"
	if categoryID != "" {
		scope = "category_" + categoryID
	}
	return fmt.Sprintf("posts:%s:type=%s:search=%s:sort=%s_%s:page=%d:size=%d",
		scope, q.PostType, q.Search, q.SortBy, q.SortOrder, q.Page, q.PageSize)
}

func (r *PostReconciler) queryPosts(ctx context.Context, q PostQuery, categoryID string) (PostPage, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("Author").
		Preload("Category")

	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if q.PostType != "" {
		query = query.Where("post_type = ?", q.PostType)
	}
	if q.Search != "" {
		searchLike := utils.SanitizeSearchQuery(q.Search)
		query = query.Where("title ILIKE ? OR content ILIKE ?", searchLike, searchLike)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PostPage{}, err
	}

	query = query.Order(orderClause(q.SortBy, q.SortOrder)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return PostPage{}, err
	}

	categoriesByID, err := r.resolver.CategoriesByID(ctx)
	if err != nil {
		categoriesByID = map[string]models.Category{}
	}

	items := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		items = append(items, r.NormalizePost(post, categoriesByID))
	}

	return PostPage{Items: items, TotalCount: total}, nil
}

// orderClause whitelists sortable columns; anything else falls back to
// newest-first.
func orderClause(sortBy, sortOrder string) string {
	switch sortBy {
	case "like_count", "comment_count", "view_count", "created_at":
	default:
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return sortBy + " " + sortOrder
}
