package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flockwood/Offside-Tool/internal/database"
	"github.com/flockwood/Offside-Tool/internal/models"
	"github.com/flockwood/Offside-Tool/internal/repository"
	"github.com/flockwood/Offside-Tool/internal/scraper"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fakeScraper serves canned profiles keyed by the requested name.
type fakeScraper struct {
	players map[string]*models.PlayerCreate
	err     error
}

func (f *fakeScraper) ScrapePlayer(ctx context.Context, name string) (*models.PlayerCreate, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.players[name]
	if !ok {
		return nil, scraper.ErrNotFound
	}
	return p, nil
}

func scrapedProfile(first, last string, goals, matches int) *models.PlayerCreate {
	return &models.PlayerCreate{
		FirstName:     first,
		LastName:      last,
		Position:      models.PositionForward,
		Goals:         goals,
		MatchesPlayed: matches,
	}
}

func TestRecalculateRating(t *testing.T) {
	tests := []struct {
		name    string
		goals   int
		assists int
		matches int
		want    float64
		ok      bool
	}{
		{"no matches", 10, 5, 0, 0, false},
		{"average output", 10, 10, 100, 5.35, true},
		{"capped contributions", 300, 300, 100, 10, true},
		{"goals only", 50, 0, 100, 6, true},
		{"scoreless", 0, 0, 100, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Player{Goals: tt.goals, Assists: tt.assists, MatchesPlayed: tt.matches}
			got, ok := RecalculateRating(p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdatePlayerRatings(t *testing.T) {
	db := setupTestDB(t)
	playerRepo := repository.NewPlayerRepository(db)
	runner := NewRunner(db, playerRepo, &fakeScraper{})

	rated := &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward, Goals: 50, MatchesPlayed: 100}
	unrated := &models.Player{FirstName: "New", LastName: "Signing", Position: models.PositionDefender}
	require.NoError(t, playerRepo.Create(rated))
	require.NoError(t, playerRepo.Create(unrated))

	report, err := runner.UpdatePlayerRatings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Updated)
	assert.Equal(t, "update_player_ratings", report.TaskName)

	reloaded, err := playerRepo.GetByID(rated.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Rating)
	assert.Equal(t, 6.0, *reloaded.Rating)

	untouched, err := playerRepo.GetByID(unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.Rating)
}

func TestCleanupOldData(t *testing.T) {
	db := setupTestDB(t)
	playerRepo := repository.NewPlayerRepository(db)
	runner := NewRunner(db, playerRepo, &fakeScraper{})

	stale := &models.Player{FirstName: "Stale", LastName: "Prospect", Position: models.PositionMidfielder}
	fresh := &models.Player{FirstName: "Fresh", LastName: "Prospect", Position: models.PositionMidfielder}
	active := &models.Player{FirstName: "Old", LastName: "Regular", Position: models.PositionForward, MatchesPlayed: 30}
	require.NoError(t, playerRepo.Create(stale))
	require.NoError(t, playerRepo.Create(fresh))
	require.NoError(t, playerRepo.Create(active))

	twoYearsAgo := time.Now().AddDate(-2, 0, 0)
	require.NoError(t, db.Model(&models.Player{}).
		Where("id IN ?", []uint{stale.ID, active.ID}).
		Update("created_at", twoYearsAgo).Error)

	report, err := runner.CleanupOldData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)

	_, err = playerRepo.GetByID(stale.ID)
	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)

	_, err = playerRepo.GetByID(fresh.ID)
	assert.NoError(t, err)
	_, err = playerRepo.GetByID(active.ID)
	assert.NoError(t, err)
}

func TestScrapePlayerListMixedOutcomes(t *testing.T) {
	db := setupTestDB(t)
	playerRepo := repository.NewPlayerRepository(db)

	existing := &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward, Goals: 700}
	require.NoError(t, playerRepo.Create(existing))

	sc := &fakeScraper{players: map[string]*models.PlayerCreate{
		"Leo Messi":      scrapedProfile("Leo", "Messi", 800, 1000),
		"Erling Haaland": scrapedProfile("Erling", "Haaland", 200, 250),
		"Broken Profile": {LastName: "Profile", Position: models.PositionForward},
	}}
	runner := NewRunner(db, playerRepo, sc)

	report := runner.ScrapePlayerList(context.Background(),
		[]string{"Leo Messi", "Erling Haaland", "Broken Profile", "Unknown Player"}, false)

	assert.Equal(t, 4, report.Count)
	assert.Equal(t, 1, report.Summary.Created)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Equal(t, 1, report.Summary.Errors)
	assert.Equal(t, 1, report.Summary.NotFound)
	require.Len(t, report.Results, 4)
	assert.Equal(t, "skipped", report.Results[0].Status)
	assert.Equal(t, "created", report.Results[1].Status)
	assert.Equal(t, "not_found", report.Results[3].Status)

	// skipped means the stored record was left alone
	untouched, err := playerRepo.GetByName("Leo", "Messi")
	require.NoError(t, err)
	assert.Equal(t, 700, untouched.Goals)
}

func TestScrapePlayerListUpdateExisting(t *testing.T) {
	db := setupTestDB(t)
	playerRepo := repository.NewPlayerRepository(db)

	existing := &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward, Goals: 700}
	require.NoError(t, playerRepo.Create(existing))

	sc := &fakeScraper{players: map[string]*models.PlayerCreate{
		"Leo Messi": scrapedProfile("Leo", "Messi", 800, 1000),
	}}
	runner := NewRunner(db, playerRepo, sc)

	report := runner.ScrapePlayerList(context.Background(), []string{"Leo Messi"}, true)

	assert.Equal(t, 1, report.Summary.Updated)
	assert.Equal(t, existing.ID, report.Results[0].PlayerID)

	refreshed, err := playerRepo.GetByName("Leo", "Messi")
	require.NoError(t, err)
	assert.Equal(t, 800, refreshed.Goals)
}

func TestImportPlayersBulk(t *testing.T) {
	db := setupTestDB(t)
	playerRepo := repository.NewPlayerRepository(db)
	runner := NewRunner(db, playerRepo, &fakeScraper{})

	futureDOB := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	records := []models.PlayerCreate{
		*scrapedProfile("Leo", "Messi", 800, 1000),
		*scrapedProfile("Leo", "Messi", 800, 1000),
		{FirstName: "Time", LastName: "Traveler", Position: models.PositionForward, DateOfBirth: &futureDOB},
	}

	report := runner.ImportPlayersBulk(context.Background(), records)

	assert.Equal(t, 3, report.Count)
	assert.Equal(t, 1, report.Summary.Created)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Equal(t, 1, report.Summary.Errors)
	assert.NotEmpty(t, report.TaskID)
}
