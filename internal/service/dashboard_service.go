package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/repository"
)

// Ventanas del dashboard: cuantas entradas alimentan cada vista derivada.
const (
	recentEntriesWindow = 30
	moodTrendDays       = 14
	topThemesLimit      = 8
	recentWinsEntries   = 5
	recentWinsLimit     = 10
	recentListLimit     = 10
)

// MoodPoint es un punto de la curva de animo.
type MoodPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Label string `json:"label"`
}

// ThemeCount es un tema con su frecuencia dentro de la ventana.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// DashboardData es la vista agregada de solo lectura de un residente.
// TotalEntries es el conteo de la ventana (tope 30), no el total historico.
type DashboardData struct {
	User          domain.User      `json:"user"`
	MoodTrend     []MoodPoint      `json:"moodTrend"`
	RecentEntries []domain.Journal `json:"recentEntries"`
	TopThemes     []ThemeCount     `json:"topThemes"`
	RecentWins    []string         `json:"recentWins"`
	TotalEntries  int              `json:"totalEntries"`
}

// DashboardService arma vistas derivadas sobre las ultimas entradas de un residente.
type DashboardService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	journals repository.JournalRepository
	cache    *DashboardCache
}

func NewDashboardService(
	logger *zap.Logger,
	users repository.UserRepository,
	journals repository.JournalRepository,
	cache *DashboardCache,
) *DashboardService {
	return &DashboardService{
		logger:   logger,
		users:    users,
		journals: journals,
		cache:    cache,
	}
}

// Build agrega las ultimas 30 entradas del residente en el dashboard.
// Usuario inexistente devuelve ErrUserNotFound, nunca un dashboard parcial.
func (s *DashboardService) Build(ctx context.Context, userID string) (DashboardData, error) {
	if data, ok := s.cache.Get(ctx, userID); ok {
		return data, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DashboardData{}, ErrUserNotFound
		}
		return DashboardData{}, fmt.Errorf("get user: %w", err)
	}

	journals, err := s.journals.ListRecent(ctx, userID, recentEntriesWindow)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list journals: %w", err)
	}

	data := DashboardData{
		User:          user,
		MoodTrend:     buildMoodTrend(journals),
		RecentEntries: firstN(journals, recentListLimit),
		TopThemes:     buildTopThemes(journals),
		RecentWins:    buildRecentWins(journals),
		TotalEntries:  len(journals),
	}

	s.cache.Set(ctx, userID, data)
	return data, nil
}

// buildMoodTrend toma las 14 entradas mas recientes y las reordena en orden
// cronologico ascendente para graficar.
func buildMoodTrend(journals []domain.Journal) []MoodPoint {
	recent := firstN(journals, moodTrendDays)
	trend := make([]MoodPoint, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		j := recent[i]
		trend = append(trend, MoodPoint{
			Date:  j.Date,
			Score: j.Insights.Mood.Score,
			Label: j.Insights.Mood.Label,
		})
	}
	return trend
}

// buildTopThemes cuenta ocurrencias por tema sobre toda la ventana y devuelve
// los 8 mas frecuentes.
func buildTopThemes(journals []domain.Journal) []ThemeCount {
	counts := make(map[string]int)
	for _, j := range journals {
		for _, theme := range j.Insights.Themes {
			counts[theme]++
		}
	}

	themes := make([]ThemeCount, 0, len(counts))
	for theme, count := range counts {
		themes = append(themes, ThemeCount{Theme: theme, Count: count})
	}
	sort.Slice(themes, func(a, b int) bool {
		if themes[a].Count != themes[b].Count {
			return themes[a].Count > themes[b].Count
		}
		return themes[a].Theme < themes[b].Theme
	})

	if len(themes) > topThemesLimit {
		themes = themes[:topThemesLimit]
	}
	return themes
}

// buildRecentWins aplana los wins de las 5 entradas mas recientes, tope 10.
func buildRecentWins(journals []domain.Journal) []string {
	wins := make([]string, 0, recentWinsLimit)
	for _, j := range firstN(journals, recentWinsEntries) {
		wins = append(wins, j.Insights.Wins...)
	}
	if len(wins) > recentWinsLimit {
		wins = wins[:recentWinsLimit]
	}
	return wins
}

func firstN(journals []domain.Journal, n int) []domain.Journal {
	if len(journals) > n {
		return journals[:n]
	}
	return journals
}
