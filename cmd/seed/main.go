package main

import (
	"log"
	"strings"

	"github.com/wiruacademy/clubsite/internal/config"
	"github.com/wiruacademy/clubsite/internal/database"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"gorm.io/gorm"
)

// Seeds the first superadmin account and, on an empty database, a starter
// set of public content. Re-running is harmless.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.SuperadminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("Missing environment variables: SUPERADMIN_EMAIL, ADMIN_PASSWORD")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.SuperadminEmail))

	var admin models.User
	result := db.Where("email = ?", email).First(&admin)
	if result.Error == nil {
		if !admin.HasSuperadminRights() {
			admin.Role = models.RoleSuperadmin
			admin.IsAdmin = true
			admin.IsSuperadmin = true
			if err := db.Save(&admin).Error; err != nil {
				log.Fatalf("Failed to elevate existing account: %v", err)
			}
			log.Println("Existing account elevated to superadmin:", admin.Email)
		} else {
			log.Println("Superadmin already exists:", admin.Email)
		}
	} else {
		passwordHash, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		admin = models.User{
			Email:        email,
			PasswordHash: passwordHash,
			Role:         models.RoleSuperadmin,
			IsActive:     true,
			IsAdmin:      true,
			IsSuperadmin: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create superadmin: %v", err)
		}
		log.Println("Superadmin created:", admin.Email)
	}

	seedContent(db)
}

// seedContent fills in starter content so a fresh install does not render
// empty public pages. Only touches empty tables.
func seedContent(db *gorm.DB) {
	trainerRepo := repository.NewTrainerRepository(db)
	if count, err := trainerRepo.Count(); err == nil && count == 0 {
		trainers := []*models.Trainer{
			{Name: "Head Coach", Bio: "Boxing, 15 years of competitive experience."},
			{Name: "Wrestling Coach", Bio: "Freestyle wrestling, youth and adult groups."},
		}
		for _, tr := range trainers {
			if err := trainerRepo.Create(tr); err != nil {
				log.Printf("Failed to seed trainer %q: %v", tr.Name, err)
			}
		}
		log.Printf("Seeded %d trainers", len(trainers))
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	if count, err := scheduleRepo.Count(); err == nil && count == 0 {
		boxing := "boxing"
		wrestling := "wrestling"
		entries := []*models.Schedule{
			{DayOfWeek: 0, Time: "18:00", Activity: "Boxing", Discipline: &boxing},
			{DayOfWeek: 2, Time: "18:00", Activity: "Boxing", Discipline: &boxing},
			{DayOfWeek: 1, Time: "19:00", Activity: "Wrestling", Discipline: &wrestling},
			{DayOfWeek: 3, Time: "19:00", Activity: "Wrestling", Discipline: &wrestling},
		}
		for _, entry := range entries {
			if err := scheduleRepo.Create(entry); err != nil {
				log.Printf("Failed to seed schedule entry: %v", err)
			}
		}
		log.Printf("Seeded %d schedule entries", len(entries))
	}

	newsRepo := repository.NewNewsRepository(db)
	if count, err := newsRepo.Count(); err == nil && count == 0 {
		welcome := &models.News{
			Title: "Welcome to the club",
			Body:  "Training schedule and trial signups are now online.",
		}
		if err := newsRepo.Create(welcome); err != nil {
			log.Printf("Failed to seed news: %v", err)
		} else {
			log.Println("Seeded welcome news item")
		}
	}
}
