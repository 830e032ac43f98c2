// Comando seed: borra y recarga los datos demo de la casa (residentes Jay y
// Marcus con historial de journals). Solo fixtures, nunca correr en produccion.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"meritmind/internal/config"
	"meritmind/internal/db"
	"meritmind/internal/domain"
	"meritmind/internal/repository"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, "TRUNCATE journals, users"); err != nil {
		logger.Fatal("truncate failed", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	journalRepo := repository.NewPgJournalRepository(pool)

	jay := domain.User{
		ID:      uuid.NewString(),
		Name:    "Jay",
		Avatar:  "👤",
		HouseID: "house-northampton-1",
		MovedIn: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Chores: []string{
			"Clean the kitchen after dinner",
			"Take out the bins on Wednesday",
			"Hoover the communal hallway on Friday",
		},
		Traits: []domain.MonitoredTrait{
			{Name: "Cannabis use", Notes: "Previously regular cannabis user. 2 months clean. Watch for signs of relapse: withdrawal to room, change in sleep patterns, reduced motivation."},
			{Name: "Anxiety", Notes: "Experiences anxiety especially around new situations and crowds. Can lead to avoidance of appointments."},
		},
		CreatedAt: time.Now().UTC(),
	}

	marcus := domain.User{
		ID:      uuid.NewString(),
		Name:    "Marcus",
		Avatar:  "👤",
		HouseID: "house-northampton-1",
		MovedIn: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		Chores: []string{
			"Clean the bathroom on Tuesday",
			"Tidy the garden and outside area on Thursday",
			"Cook house dinner on Saturday",
		},
		Traits: []domain.MonitoredTrait{
			{Name: "Alcohol dependency", Notes: "6 months sober. History of heavy drinking. Watch for mentions of pubs, social drinking, or buying alcohol."},
			{Name: "Anger management", Notes: "Has worked on anger management. Can escalate in confrontational situations. Watch for conflicts with housemates or at work."},
		},
		CreatedAt: time.Now().UTC(),
	}

	seedResident(ctx, logger, userRepo, journalRepo, jay, 15)
	seedResident(ctx, logger, userRepo, journalRepo, marcus, 5)

	logger.Info("seed complete")
}

// seedResident crea el residente con days entradas consecutivas terminando hoy,
// dejando racha y total consistentes con el historial.
func seedResident(
	ctx context.Context,
	logger *zap.Logger,
	users *repository.PgUserRepository,
	journals *repository.PgJournalRepository,
	user domain.User,
	days int,
) {
	user.CurrentStreak = days
	user.TotalJournals = days

	if err := users.Create(ctx, user); err != nil {
		logger.Fatal("create user failed", zap.Error(err), zap.String("name", user.Name))
	}

	for i := days - 1; i >= 0; i-- {
		day := time.Now().UTC().AddDate(0, 0, -i)
		entry := demoEntry(user, day, days-1-i)
		if err := journals.Create(ctx, entry); err != nil {
			logger.Fatal("create journal failed", zap.Error(err), zap.String("name", user.Name))
		}
	}
}

func demoEntry(user domain.User, day time.Time, n int) domain.Journal {
	moods := []domain.Mood{
		{Score: 5, Label: "okay", Description: "Feeling steady, taking things one day at a time."},
		{Score: 6, Label: "good", Description: "A calm day with a few bright spots."},
		{Score: 7, Label: "good", Description: "In good spirits after a productive day."},
		{Score: 4, Label: "mixed", Description: "Some ups and downs but holding on."},
		{Score: 8, Label: "great", Description: "Really pleased with how the day went."},
	}
	themes := [][]string{
		{"daily routine", "steady progress"},
		{"job progress", "pride in achievement"},
		{"family connection"},
		{"anxiety about future", "loneliness"},
		{"house community", "steady progress"},
	}
	mood := moods[n%len(moods)]
	createdAt := time.Date(day.Year(), day.Month(), day.Day(), 21, n%30, 0, 0, time.UTC)

	return domain.Journal{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		UserName:     user.Name,
		Date:         domain.DateOf(day),
		DurationSecs: 240 + 30*(n%5),
		Transcript: []domain.TranscriptMessage{
			{Role: domain.RoleCompanion, Text: fmt.Sprintf("Evening %s, how was your day?", user.Name), Timestamp: createdAt.UnixMilli()},
			{Role: domain.RoleResident, Text: "It was alright, kept myself busy around the house.", Timestamp: createdAt.Add(10 * time.Second).UnixMilli()},
		},
		Insights: domain.Insights{
			Mood:            mood,
			Summary:         fmt.Sprintf("I had a %s day today. Kept up with my routine and stayed on track.", mood.Label),
			Themes:          themes[n%len(themes)],
			Wins:            []string{"Kept up with my chores", "Stayed on track"},
			Struggles:       []string{},
			PeopleMentioned: []string{},
			ConcernLevel:    domain.ConcernNone,
			ConversationQuality: domain.ConversationQuality{
				Openness:     3 + n%3,
				DurationFeel: "moderate",
				Engagement:   "moderate",
			},
		},
		CreatedAt: createdAt,
	}
}
