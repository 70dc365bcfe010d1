package main

import (
	"log"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/config"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
	database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.SavedPost{},
		&models.PostView{},
		&models.Message{},
		&models.Rating{},
		&models.Notification{},
	)

	if _, err := seeds.GetOrCreateSystemUser(); err != nil {
		log.Fatalf("❌ Failed to seed system user: %v", err)
	}

	if err := seeds.SeedCategories(); err != nil {
		log.Fatalf("❌ Failed to seed categories: %v", err)
	}

	if err := seeds.SeedDemoDevelopers(); err != nil {
		log.Fatalf("❌ Failed to seed demo developers: %v", err)
	}

	log.Println("✅ Seeding complete")
}
