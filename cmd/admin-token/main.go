package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
	"tourist-hub-api/internal/services"
)

// Bootstraps the first SystemAdmin account and prints a token for it. Safe to
// re-run: an existing account with the given email is reused.
func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (required when creating)")
	firstName := flag.String("first-name", "System", "admin first name")
	lastName := flag.String("last-name", "Admin", "admin last name")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.NewMigrator(db).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	appLogger := logger.NewLogger(cfg)
	userRepo := repositories.NewUserRepository(db)
	authSvc := services.NewAuthenticationService(appLogger, cfg, userRepo)

	ctx := context.Background()
	user, err := userRepo.GetByEmail(ctx, *email)
	if err != nil {
		if *password == "" {
			fmt.Println("No such account; -password is required to create one")
			return
		}

		hash, err := authSvc.HashPassword(*password)
		if err != nil {
			fmt.Printf("Failed to hash password: %v\n", err)
			return
		}
		user = &models.User{
			FirstName:    *firstName,
			LastName:     *lastName,
			Email:        *email,
			PasswordHash: hash,
			Role:         models.RoleSystemAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			fmt.Printf("Failed to create admin account: %v\n", err)
			return
		}
		fmt.Printf("Created SystemAdmin account %s\n", user.ID)
	}

	token, err := authSvc.GenerateJWT(ctx, user)
	if err != nil {
		fmt.Printf("Failed to generate token: %v\n", err)
		return
	}

	fmt.Println(token)
}
