package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/utils"
	"gorm.io/gorm"
)

// Resolution tags how a category id was resolved, so callers can distinguish
// a confident match from a guess.
type Resolution string

const (
	// ResolutionResolved means the input matched a category by id or exact name.
	ResolutionResolved Resolution = "RESOLVED"
	// ResolutionFallback means the input was mapped by substring match or to an
	// arbitrary existing category.
	ResolutionFallback Resolution = "FALLBACK"
	// ResolutionUnchanged means no categories exist; the input passes through.
	ResolutionUnchanged Resolution = "UNCHANGED"
)

// CategoryResolver maps canonical ids, short-code ids ("web-dev") and
// free-text slugs to the canonical category id the database expects.
// Categories change rarely, so the full list is cached per process.
type CategoryResolver struct {
	db *gorm.DB

	mu        sync.Mutex
	cached    []models.Category
	fetchedAt time.Time
	ttl       time.Duration
}

func NewCategoryResolver(db *gorm.DB) *CategoryResolver {
	return &CategoryResolver{db: db, ttl: 5 * time.Minute}
}

// Categories returns all categories, served from the process cache while
// fresh.
func (r *CategoryResolver) Categories(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.fetchedAt) < r.ttl {
		return r.cached, nil
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		if r.cached != nil {
			// Stale list beats no list for a best-effort resolver.
			return r.cached, nil
		}
		return nil, err
	}

	r.cached = categories
	r.fetchedAt = time.Now()
	return categories, nil
}

// CategoriesByID returns the cached categories as a lookup table.
func (r *CategoryResolver) CategoriesByID(ctx context.Context) (map[string]models.Category, error) {
	categories, err := r.Categories(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	return byID, nil
}

// Invalidate drops the cached category list. Called after an admin creates a
// category.
func (r *CategoryResolver) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// ResolveCategoryID maps raw — a canonical id, a short-code id, or a free-text
// slug — to a canonical category id. Best effort: it never fails for an
// unknown input, it degrades through the tiers below.
//
//  1. canonical id shape that exists -> Resolved
//  2. exact name match (case-insensitive, slug-normalized) -> Resolved
//  3. substring match; ties broken by shortest name, then alphabetical -> Fallback
//  4. any existing category (alphabetically first) -> Fallback
//  5. no categories at all -> input unchanged, Unchanged
func (r *CategoryResolver) ResolveCategoryID(ctx context.Context, raw string) (string, Resolution) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw, ResolutionUnchanged
	}

	categories, err := r.Categories(ctx)
	if err != nil || len(categories) == 0 {
		return raw, ResolutionUnchanged
	}

	// Tier 1: canonical id
	if utils.IsUUID(raw) {
		for _, cat := range categories {
			if cat.ID == raw {
				return cat.ID, ResolutionResolved
			}
		}
	}

	phrase := utils.SlugToWords(raw)

	// Tier 2: exact name
	for _, cat := range categories {
		if strings.ToLower(cat.Name) == phrase {
			return cat.ID, ResolutionResolved
		}
	}

	// Tier 3: substring, either direction
	var matches []models.Category
	for _, cat := range categories {
		name := strings.ToLower(cat.Name)
		if strings.Contains(name, phrase) || strings.Contains(phrase, name) {
			matches = append(matches, cat)
		}
	}
	if len(matches) > 0 {
		sort.Slice(matches, func(i, j int) bool {
			if len(matches[i].Name) != len(matches[j].Name) {
				return len(matches[i].Name) < len(matches[j].Name)
			}
			return matches[i].Name < matches[j].Name
		})
		return matches[0].ID, ResolutionFallback
	}

	// Tier 4: the list is sorted by name, so this is deterministic
	return categories[0].ID, ResolutionFallback
}
