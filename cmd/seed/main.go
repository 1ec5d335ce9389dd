// Command seed loads a handful of sample events owned by the bootstrap admin.
package main

import (
	"context"
	"log"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/database"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
)

func days(n int) *time.Time {
	t := time.Now().Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func ptr[T any](v T) *T { return &v }

var samples = []event.Input{
	{
		Title:           "Wildlife Safari Adventure",
		Description:     "Experience the thrill of spotting wild animals in their natural habitat",
		Category:        event.CategoryWildlifeSafari,
		Date:            days(7),
		Location:        "Serengeti National Park, Tanzania",
		Coordinates:     &event.Coordinates{Latitude: -2.3333, Longitude: 34.8333},
		Images:          []event.Image{{URL: "https://example.com/safari1.jpg", Alt: "Lion in the wild"}},
		MaxParticipants: ptr(20),
		Price:           ptr(1500.0),
		Duration:        ptr(8.0),
		Difficulty:      event.DifficultyModerate,
		Requirements:    []string{"Comfortable walking shoes", "Camera", "Binoculars"},
		Highlights:      []string{"Lion sightings", "Elephant encounters", "Bird watching"},
		Organizer:       &event.Organizer{Name: "Wildlife Adventures Ltd", Contact: "+255-123-456-789", Email: "info@wildlifeadventures.com"},
	},
	{
		Title:           "Mountain Trek Expedition",
		Description:     "Climb to the summit and enjoy breathtaking panoramic views",
		Category:        event.CategoryNatureTrek,
		Date:            days(14),
		Location:        "Mount Kilimanjaro, Tanzania",
		Coordinates:     &event.Coordinates{Latitude: -3.0674, Longitude: 37.3556},
		MaxParticipants: ptr(15),
		Price:           ptr(2500.0),
		Duration:        ptr(72.0),
		Difficulty:      event.DifficultyChallenging,
		Requirements:    []string{"Hiking boots", "Warm clothing", "Physical fitness"},
		Highlights:      []string{"Summit achievement", "Stunning views", "Team building"},
		Organizer:       &event.Organizer{Name: "Peak Adventures", Contact: "+255-987-654-321", Email: "info@peakadventures.com"},
	},
	{
		Title:           "Bird Watching Paradise",
		Description:     "Discover rare and beautiful bird species in their natural habitat",
		Category:        event.CategoryBirdWatching,
		Date:            days(21),
		Location:        "Lake Manyara, Tanzania",
		Coordinates:     &event.Coordinates{Latitude: -3.5833, Longitude: 35.75},
		MaxParticipants: ptr(12),
		Price:           ptr(800.0),
		Duration:        ptr(6.0),
		Difficulty:      event.DifficultyEasy,
		Requirements:    []string{"Binoculars", "Bird guide book", "Quiet behavior"},
		Highlights:      []string{"Flamingo sightings", "Rare species", "Peaceful environment"},
	},
	{
		Title:           "Mangrove Cleanup Day",
		Description:     "Join local volunteers restoring a mangrove shoreline",
		Category:        event.CategoryConservation,
		Date:            days(10),
		Location:        "Pichavaram, Tamil Nadu",
		MaxParticipants: ptr(40),
		Price:           ptr(0.0),
		Duration:        ptr(4.0),
		Difficulty:      event.DifficultyEasy,
		Requirements:    []string{"Gloves", "Water bottle"},
		Highlights:      []string{"Community work", "Boat ride"},
	},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := db.AutoMigrate(&auth.User{}, &event.Event{}); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}

	users := auth.NewRepository(db)
	if _, err := auth.SeedAdmin(ctx, users, cfg); err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}
	admins, err := users.Recent(ctx, auth.RoleAdmin, 1)
	if err != nil || len(admins) == 0 {
		log.Fatalf("❌ No admin account to own sample events (set ADMIN_EMAIL and ADMIN_PASSWORD)")
	}
	owner := admins[0]

	repo := event.NewRepository(db)
	_, existing, err := repo.List(ctx, event.Filter{CreatedBy: owner.ID, Limit: 1})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if existing > 0 {
		log.Printf("ℹ️ %s already owns %d events, nothing to seed", owner.Email, existing)
		return
	}

	svc := event.NewService(repo, nil)
	for _, in := range samples {
		e, err := svc.Create(ctx, owner.ID, in, "")
		if err != nil {
			log.Fatalf("❌ create %q: %v", in.Title, err)
		}
		log.Printf("✅ Created: %s (%s)", e.Title, e.ID)
	}
	log.Printf("🌿 Seeded %d events for %s", len(samples), owner.Email)
}
