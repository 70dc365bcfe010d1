package seeds

import (
	"log"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/database"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// GetOrCreateSystemUser returns the official platform account, creating it on
// first run.
func GetOrCreateSystemUser() (models.User, error) {
	log.Println("👤 Checking system user...")

	username := "somalidev"
	email := "official@somalidev.com"

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err == nil {
		log.Printf("   ✅ System user found: %s", user.Username)
		return user, nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("SomaliDevOfficial2026!"), bcrypt.DefaultCost)

	user = models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		Name:      "SomaliDev Team",
		Bio:       "Official SomaliDev account. Announcements and community updates.",
		AvatarURL: "https://api.dicebear.com/7.x/identicon/svg?seed=somalidev",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	log.Printf("   ✅ System user created: %s", user.Username)
	return user, nil
}

var demoDevelopers = []models.User{
	{
		Username: "ayaan_dev", Email: "ayaan@example.com", Name: "Ayaan Mohamed",
		Bio: "Full-stack developer from Mogadishu", Location: "Mogadishu",
		Skills: pq.StringArray{"Go", "React", "PostgreSQL"},
	},
	{
		Username: "hodan_codes", Email: "hodan@example.com", Name: "Hodan Ali",
		Bio: "Mobile developer, Flutter and Kotlin", Location: "Hargeisa",
		Skills: pq.StringArray{"Flutter", "Kotlin", "Firebase"},
	},
	{
		Username: "abdi_ops", Email: "abdi@example.com", Name: "Abdi Hassan",
		Bio: "DevOps engineer, Kubernetes and Terraform", Location: "Nairobi",
		Skills: pq.StringArray{"Kubernetes", "Terraform", "AWS"},
	},
}

// SeedDemoDevelopers inserts a few sample profiles for local development,
// skipping any that already exist.
func SeedDemoDevelopers() error {
	log.Println("👥 Seeding demo developers...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)

	for _, u := range demoDevelopers {
		var existing models.User
		if err := database.DB.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			continue
		}
		u.Password = string(hash)
		u.AvatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + u.Username
		if err := database.DB.Create(&u).Error; err != nil {
			return err
		}
		log.Printf("   ✅ Created demo developer: %s", u.Username)
	}
	return nil
}
