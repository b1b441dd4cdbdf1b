//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/lindenpm/linden/internal/auth"
	"github.com/lindenpm/linden/internal/database"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/pkg/config"
	"github.com/lindenpm/linden/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "manager@example.com"
	}
	if password == "" {
		password = "Changeme1!"
	}
	if name == "" {
		name = "Property Manager"
	}

	resp, err := authService.Signup(context.Background(), auth.SignupInput{
		Email:    email,
		Password: password,
		Name:     name,
		UserType: models.UserTypeManager,
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Manager account already exists: %s\n", email)
		} else {
			log.Fatalf("failed to create manager account: %v", err)
		}
	} else {
		if err := authService.PromoteToAdmin(context.Background(), email); err != nil {
			log.Fatalf("failed to promote manager: %v", err)
		}
		fmt.Printf("Manager account created: %s\n", resp.User.Email)
	}

	// Demo owner with two properties, for local development.
	var owner models.PropertyOwner
	err = db.Where("name = ?", "Linden Demo Holdings").First(&owner).Error
	if err == nil {
		fmt.Println("Demo owner already seeded")
		return
	}

	owner = models.PropertyOwner{
		Name:    "Linden Demo Holdings",
		Email:   "holdings@example.com",
		Address: "1 Demo Plaza",
	}
	if err := db.Create(&owner).Error; err != nil {
		log.Fatalf("failed to create demo owner: %v", err)
	}

	properties := []models.Property{
		{
			OwnerID:    owner.ID,
			Name:       "Maple Court 2B",
			Type:       models.PropertyTypeResidential,
			SquareFeet: 850,
			RentCents:  150000,
			Status:     models.PropertyStatusAvailable,
			Address:    "22 Maple Ct",
		},
		{
			OwnerID:    owner.ID,
			Name:       "Birch Street Storefront",
			Type:       models.PropertyTypeCommercial,
			SquareFeet: 2400,
			RentCents:  420000,
			Status:     models.PropertyStatusUnderRemodel,
			Address:    "104 Birch St",
		},
	}
	for i := range properties {
		if err := db.Create(&properties[i]).Error; err != nil {
			log.Fatalf("failed to create demo property: %v", err)
		}
	}

	fmt.Printf("Seeded demo owner %q with %d properties\n", owner.Name, len(properties))
}
