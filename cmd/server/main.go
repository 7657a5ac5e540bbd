package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
	"github.com/yazicigil/RateStuff-sub000/internal/server"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := server.NewServer()

	// Dev tokens, e.g. DEV_TOKENS="alice-token:alice:Ada Lovelace,brand-token:brand:Fig Co:verified"
	registerDevTokens(s, os.Getenv("DEV_TOKENS"))

	if os.Getenv("SEED_DEMO") != "" {
		seedDemo(s)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("listening on :%s", port)
	if err := s.Router().Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func registerDevTokens(s *server.Server, raw string) {
	if raw == "" {
		return
	}
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) < 3 {
			log.Printf("skipping malformed DEV_TOKENS entry %q", entry)
			continue
		}
		user := models.User{ID: parts[1], Name: parts[2], CreatedAt: time.Now()}
		if len(parts) > 3 && parts[3] == "verified" {
			user.Verified = true
		}
		s.RegisterUser(parts[0], user)
	}
}

func seedDemo(s *server.Server) {
	now := time.Now()
	s.SeedItem(models.Item{
		ID:          "demo-fig-jam",
		Name:        "Fig Jam",
		Description: "Small-batch fig jam. Goes with everything.",
		Tags:        []string{"sweet", "breakfast"},
		CreatedBy:   "brand",
		CreatedAt:   now.Add(-72 * time.Hour),
		Ratings: []models.Rating{
			{ID: "demo-r1", ItemID: "demo-fig-jam", UserID: "alice", Value: 5, CreatedAt: now.Add(-48 * time.Hour)},
			{ID: "demo-r2", ItemID: "demo-fig-jam", UserID: "bob", Value: 4, CreatedAt: now.Add(-24 * time.Hour)},
		},
	})
	log.Println("demo data seeded")
}
