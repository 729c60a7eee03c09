package main

import (
	"context"
	"flag"
	"log"
	"os"

	"forge-ai-be/internal/model"
	"forge-ai-be/internal/repository/implementation"
	"forge-ai-be/internal/seed"
	"forge-ai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	force := flag.Bool("force", false, "Clear existing prompts and recreate all")
	flag.Parse()

	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database: ", err)
	}

	if err := db.AutoMigrate(&model.AiPrompt{}, &model.ForgeSession{}); err != nil {
		log.Fatal("Error: Failed to migrate schema: ", err)
	}

	color.Cyan("🌱 Seeding database with initial AI prompts...")
	if *force {
		color.Yellow("⚠️  Force mode enabled - will clear existing prompts and recreate all")
	}

	repo := implementation.NewPromptRepository(db)
	res, err := seed.Run(context.Background(), repo, *force)
	if err != nil {
		color.Red("❌ Seeding failed: %v", err)
		os.Exit(1)
	}

	if *force {
		color.Yellow("🗑️  Cleared %d existing prompts", res.Cleared)
	}
	if res.Skipped > 0 {
		color.Yellow("⏭️  Skipped %d prompts (already exist)", res.Skipped)
	}
	color.Green("✅ Created %d prompts", res.Created)
	color.Cyan("🎉 Seeding complete!")
}
