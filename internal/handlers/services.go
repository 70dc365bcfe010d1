package handlers

import (
	"time"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/config"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/services"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/state"
	"gorm.io/gorm"
)

// Shared service instances, wired once at startup. Handlers read these
// instead of constructing their own so tests can swap in isolated instances.
var (
	Unread     *services.UnreadTracker
	Posts      *services.PostReconciler
	Categories *services.CategoryResolver
)

// InitServices constructs the unread tracker and post reconciler on top of
// the given database handle and key-value store.
func InitServices(db *gorm.DB, kv state.Store) {
	cfg := config.AppConfig

	lookback := 30 * 24 * time.Hour
	pollInterval := 60 * time.Second
	if cfg != nil {
		if cfg.UnreadLookbackDays > 0 {
			lookback = time.Duration(cfg.UnreadLookbackDays) * 24 * time.Hour
		}
		if cfg.UnreadPollSeconds > 0 {
			pollInterval = time.Duration(cfg.UnreadPollSeconds) * time.Second
		}
	}

	Unread = services.NewUnreadTracker(kv, &services.GormMessageLister{DB: db},
		services.WithLookback(lookback),
		services.WithPollInterval(pollInterval),
	)
	Categories = services.NewCategoryResolver(db)
	Posts = services.NewPostReconciler(db, Categories, kv)
}
