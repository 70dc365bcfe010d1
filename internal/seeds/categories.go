package seeds

import (
	"log"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
)

var defaultCategories = []models.Category{
	{Name: "Web Development", Description: "Frontend, backend and full-stack web"},
	{Name: "Mobile Development", Description: "iOS, Android and cross-platform apps"},
	{Name: "DevOps", Description: "CI/CD, infrastructure and deployment"},
	{Name: "Data Science", Description: "Analytics, ML and data engineering"},
	{Name: "Game Development", Description: "Games and interactive media"},
	{Name: "Cybersecurity", Description: "Security, pentesting and defense"},
	{Name: "Career", Description: "Jobs, interviews and growth"},
	{Name: "General", Description: "Everything else"},
}

// SeedCategories inserts the default feed categories, skipping any that
// already exist by name.
func SeedCategories() error {
	log.Println("📂 Seeding categories...")

	for _, c := range defaultCategories {
		var existing models.Category
		if err := database.DB.Where("name = ?", c.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&c).Error; err != nil {
			return err
		}
		log.Printf("   ✅ Created category: %s", c.Name)
	}
	return nil
}
