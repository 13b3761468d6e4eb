package tasks

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flockwood/Offside-Tool/internal/models"
	"github.com/flockwood/Offside-Tool/internal/repository"
	"github.com/flockwood/Offside-Tool/internal/scraper"
)

// Runner holds the background maintenance operations. Scheduling is the
// caller's concern: each method runs one job to completion and reports a
// per-item summary instead of aborting on the first failure.
type Runner struct {
	db         *gorm.DB
	playerRepo repository.PlayerRepository
	scraper    scraper.Scraper
}

func NewRunner(db *gorm.DB, playerRepo repository.PlayerRepository, sc scraper.Scraper) *Runner {
	return &Runner{
		db:         db,
		playerRepo: playerRepo,
		scraper:    sc,
	}
}

type Summary struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	NotFound int `json:"not_found"`
}

type ItemResult struct {
	PlayerName string `json:"player_name"`
	Status     string `json:"status"`
	PlayerID   uint   `json:"player_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Report struct {
	TaskID    string       `json:"task_id"`
	TaskName  string       `json:"task_name"`
	Timestamp time.Time    `json:"timestamp"`
	Summary   Summary      `json:"summary"`
	Results   []ItemResult `json:"results,omitempty"`
	Count     int          `json:"count"`
}

const (
	statusCreated  = "created"
	statusUpdated  = "updated"
	statusSkipped  = "skipped"
	statusError    = "error"
	statusNotFound = "not_found"
)

// ScrapePlayerList fetches and persists a list of players one at a time.
// A failed item never fails the batch.
func (r *Runner) ScrapePlayerList(ctx context.Context, playerNames []string, updateExisting bool) Report {
	report := newReport("scrape_player_list")

	for _, name := range playerNames {
		result := r.scrapeAndSave(ctx, name, updateExisting)
		report.Results = append(report.Results, result)
		tally(&report.Summary, result.Status)
	}

	report.Count = len(playerNames)
	log.Printf("[Tasks] %s: %+v", report.TaskName, report.Summary)
	return report
}

func (r *Runner) scrapeAndSave(ctx context.Context, name string, updateExisting bool) ItemResult {
	result := ItemResult{PlayerName: name}

	data, err := r.scraper.ScrapePlayer(ctx, name)
	if err != nil {
		if errors.Is(err, scraper.ErrNotFound) {
			result.Status = statusNotFound
			return result
		}
		result.Status = statusError
		result.Error = err.Error()
		return result
	}

	if data.FirstName == "" || data.Position == "" {
		result.Status = statusError
		result.Error = "missing required fields in scraped data"
		return result
	}

	existing, err := r.playerRepo.GetByName(data.FirstName, data.LastName)
	if err != nil {
		result.Status = statusError
		result.Error = err.Error()
		return result
	}

	if existing != nil {
		if !updateExisting {
			result.Status = statusSkipped
			result.PlayerID = existing.ID
			return result
		}
		update := scrapedToUpdate(data)
		if err := update.Apply(existing); err != nil {
			result.Status = statusError
			result.Error = err.Error()
			return result
		}
		if err := r.playerRepo.Update(existing); err != nil {
			result.Status = statusError
			result.Error = err.Error()
			return result
		}
		result.Status = statusUpdated
		result.PlayerID = existing.ID
		return result
	}

	player, err := data.ToPlayer()
	if err != nil {
		result.Status = statusError
		result.Error = err.Error()
		return result
	}
	if err := r.playerRepo.Create(player); err != nil {
		result.Status = statusError
		result.Error = err.Error()
		return result
	}
	result.Status = statusCreated
	result.PlayerID = player.ID
	return result
}

// RecalculateRating derives a 0-10 rating from per-match output. The second
// return is false when the player has no matches to rate.
func RecalculateRating(p *models.Player) (float64, bool) {
	if p.MatchesPlayed == 0 {
		return 0, false
	}

	baseRating := 5.0
	goalsContribution := math.Min(float64(p.Goals)/float64(p.MatchesPlayed)*2, 3.0)
	assistsContribution := math.Min(float64(p.Assists)/float64(p.MatchesPlayed)*1.5, 2.0)

	rating := math.Min(baseRating+goalsContribution+assistsContribution, 10.0)
	return models.Round2(rating), true
}

// UpdatePlayerRatings recalculates every player's rating in one transaction.
func (r *Runner) UpdatePlayerRatings(ctx context.Context) (Report, error) {
	report := newReport("update_player_ratings")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var players []models.Player
		if err := tx.Find(&players).Error; err != nil {
			return err
		}

		for i := range players {
			rating, ok := RecalculateRating(&players[i])
			if !ok {
				continue
			}
			if err := tx.Model(&players[i]).Update("rating", rating).Error; err != nil {
				return err
			}
			report.Summary.Updated++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Count = report.Summary.Updated
	log.Printf("[Tasks] %s: updated %d players", report.TaskName, report.Summary.Updated)
	return report, nil
}

// CleanupOldData deletes players with no recorded matches created over a
// year ago.
func (r *Runner) CleanupOldData(ctx context.Context) (Report, error) {
	report := newReport("cleanup_old_data")
	cutoff := time.Now().AddDate(-1, 0, 0)

	result := r.db.WithContext(ctx).
		Where("matches_played = 0 AND created_at < ?", cutoff).
		Delete(&models.Player{})
	if result.Error != nil {
		return report, result.Error
	}

	report.Count = int(result.RowsAffected)
	log.Printf("[Tasks] %s: deleted %d players", report.TaskName, report.Count)
	return report, nil
}

// ImportPlayersBulk creates players record by record; a single bad record
// only increments the error count.
func (r *Runner) ImportPlayersBulk(ctx context.Context, playersData []models.PlayerCreate) Report {
	report := newReport("import_players_bulk")

	for i := range playersData {
		data := &playersData[i]
		result := ItemResult{PlayerName: data.FirstName + " " + data.LastName}

		player, err := data.ToPlayer()
		if err != nil {
			result.Status = statusError
			result.Error = err.Error()
		} else if err := r.playerRepo.Create(player); err != nil {
			if errors.Is(err, repository.ErrDuplicateName) {
				result.Status = statusSkipped
			} else {
				result.Status = statusError
				result.Error = err.Error()
			}
		} else {
			result.Status = statusCreated
			result.PlayerID = player.ID
		}

		report.Results = append(report.Results, result)
		tally(&report.Summary, result.Status)
	}

	report.Count = len(playersData)
	log.Printf("[Tasks] %s: %+v", report.TaskName, report.Summary)
	return report
}

func scrapedToUpdate(data *models.PlayerCreate) *models.PlayerUpdate {
	return &models.PlayerUpdate{
		DateOfBirth:      data.DateOfBirth,
		Nationality:      data.Nationality,
		HeightCM:         data.HeightCM,
		WeightKG:         data.WeightKG,
		PreferredFoot:    data.PreferredFoot,
		JerseyNumber:     data.JerseyNumber,
		CurrentClub:      data.CurrentClub,
		MarketValueEuros: data.MarketValueEuros,
		ContractExpiry:   data.ContractExpiry,
		Goals:            &data.Goals,
		Assists:          &data.Assists,
		MatchesPlayed:    &data.MatchesPlayed,
		YellowCards:      &data.YellowCards,
		RedCards:         &data.RedCards,
		MinutesPlayed:    &data.MinutesPlayed,
		Rating:           data.Rating,
		Bio:              data.Bio,
		ImageURL:         data.ImageURL,
	}
}

func newReport(taskName string) Report {
	return Report{
		TaskID:    uuid.NewString(),
		TaskName:  taskName,
		Timestamp: time.Now().UTC(),
	}
}

func tally(s *Summary, status string) {
	switch status {
	case statusCreated:
		s.Created++
	case statusUpdated:
		s.Updated++
	case statusSkipped:
		s.Skipped++
	case statusNotFound:
		s.NotFound++
	default:
		s.Errors++
	}
}
