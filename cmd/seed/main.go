package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"authportal/internal/config"
	"authportal/internal/db"
	"authportal/internal/model"
)

// Seeds a couple of demo users: one credentials account and one
// provider-only account without a password hash.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Account{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	hash := string(hashed)

	users := []model.User{
		{
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Email:        "ada@example.com",
			PasswordHash: &hash,
			Role:         model.RoleAdmin,
		},
		{
			FirstName: "Linus",
			LastName:  "Hedgehog",
			Email:     "linus@example.com",
			Role:      model.RoleUser,
			Image:     "https://example.com/avatars/linus.png",
		},
	}

	for i := range users {
		if err := gormDB.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			log.Printf("seed user %s: %v", users[i].Email, err)
			continue
		}
		log.Printf("seeded user %s (%s)", users[i].Email, users[i].ID)
	}
}
