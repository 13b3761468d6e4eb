package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/flockwood/Offside-Tool/internal/models"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrDuplicateName    = errors.New("player with this name already exists")
	ErrInvalidAgeBounds = errors.New("max_age cannot be less than min_age")
)

type PlayerRepository interface {
	GetByID(id uint) (*models.Player, error)
	List(filter models.PlayerFilter, skip, limit int) ([]models.Player, int64, error)
	GetByName(firstName, lastName string) (*models.Player, error)
	Create(player *models.Player) error
	Update(player *models.Player) error
	Delete(id uint) (*models.Player, error)
	AdvancedSearch(params models.AdvancedSearch) ([]models.Player, error)
	SearchByName(query string) ([]models.Player, error)
	GetByClub(clubName string, skip, limit int) ([]models.Player, int64, error)
	GetTopScorers(limit int, position string) ([]models.Player, error)
	GetStatistics() (*models.PlayerStatistics, error)
}

type playerRepo struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepo{db: db}
}

func (r *playerRepo) GetByID(id uint) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	player.ComputeDerived()
	return &player, nil
}

// applyListFilters keeps the all-optional-AND contract in a single place.
// LOWER(...) LIKE keeps case-insensitive matching portable across drivers.
func applyListFilters(tx *gorm.DB, f models.PlayerFilter) *gorm.DB {
	if f.Position != "" {
		tx = tx.Where("position = ?", f.Position)
	}
	if f.Nationality != "" {
		tx = tx.Where("LOWER(nationality) LIKE ?", contains(f.Nationality))
	}
	if f.CurrentClub != "" {
		tx = tx.Where("LOWER(current_club) LIKE ?", contains(f.CurrentClub))
	}
	if f.MinRating != nil {
		tx = tx.Where("rating >= ?", *f.MinRating)
	}
	if f.Search != "" {
		p := contains(f.Search)
		tx = tx.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(current_club) LIKE ?",
			p, p, p,
		)
	}
	return tx
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func (r *playerRepo) List(filter models.PlayerFilter, skip, limit int) ([]models.Player, int64, error) {
	base := applyListFilters(r.db.Model(&models.Player{}), filter)

	// total reflects the filter before pagination
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var players []models.Player
	err := applyListFilters(r.db.Model(&models.Player{}), filter).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, 0, err
	}
	return derived(players), total, nil
}

func (r *playerRepo) GetByName(firstName, lastName string) (*models.Player, error) {
	var player models.Player
	err := r.db.
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(firstName), strings.ToLower(lastName)).
		First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	player.ComputeDerived()
	return &player, nil
}

func (r *playerRepo) Create(player *models.Player) error {
	existing, err := r.GetByName(player.FirstName, player.LastName)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateName
	}

	err = r.db.Create(player).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// the unique index caught a race the pre-check missed
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	player.ComputeDerived()
	return nil
}

func (r *playerRepo) Update(player *models.Player) error {
	err := r.db.Save(player).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	player.ComputeDerived()
	return nil
}

func (r *playerRepo) Delete(id uint) (*models.Player, error) {
	player, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Player{}, id).Error; err != nil {
		return nil, err
	}
	return player, nil
}

func (r *playerRepo) AdvancedSearch(params models.AdvancedSearch) ([]models.Player, error) {
	if params.MinAge != nil && params.MaxAge != nil && *params.MaxAge < *params.MinAge {
		return nil, ErrInvalidAgeBounds
	}

	tx := r.db.Model(&models.Player{})

	if params.Club != nil {
		tx = tx.Where("LOWER(current_club) = ?", strings.ToLower(*params.Club))
	}
	if params.Nationality != nil {
		tx = tx.Where("LOWER(nationality) = ?", strings.ToLower(*params.Nationality))
	}
	if params.Position != nil {
		tx = tx.Where("position = ?", *params.Position)
	}

	today := time.Now()
	if params.MinAge != nil {
		// at least min_age old: born on or before today minus min_age years
		maxDOB := yearsAgo(today, *params.MinAge)
		tx = tx.Where("date_of_birth <= ?", maxDOB)
	}
	if params.MaxAge != nil {
		// at most max_age old: born on or after the day after today minus
		// (max_age + 1) years
		minDOB := yearsAgo(today, *params.MaxAge+1).AddDate(0, 0, 1)
		tx = tx.Where("date_of_birth >= ?", minDOB)
	}

	var players []models.Player
	if err := tx.Order("last_name, first_name").Find(&players).Error; err != nil {
		return nil, err
	}
	return derived(players), nil
}

// yearsAgo subtracts whole calendar years, keeping month and day. A Feb 29
// anchor normalizes to Mar 1 in non-leap years; known edge case, kept as is.
func yearsAgo(t time.Time, years int) time.Time {
	return time.Date(t.Year()-years, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *playerRepo) SearchByName(query string) ([]models.Player, error) {
	p := contains(query)
	var players []models.Player
	err := r.db.
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p).
		Order("last_name, first_name").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return derived(players), nil
}

func (r *playerRepo) GetByClub(clubName string, skip, limit int) ([]models.Player, int64, error) {
	p := contains(clubName)

	var total int64
	if err := r.db.Model(&models.Player{}).
		Where("LOWER(current_club) LIKE ?", p).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var players []models.Player
	err := r.db.
		Where("LOWER(current_club) LIKE ?", p).
		Order("jersey_number").
		Offset(skip).
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, 0, err
	}
	return derived(players), total, nil
}

func (r *playerRepo) GetTopScorers(limit int, position string) ([]models.Player, error) {
	tx := r.db.Model(&models.Player{})
	if position != "" {
		tx = tx.Where("position = ?", position)
	}

	var players []models.Player
	// id as secondary key keeps ties in insertion order
	err := tx.Order("goals DESC, id").Limit(limit).Find(&players).Error
	if err != nil {
		return nil, err
	}
	return derived(players), nil
}

func (r *playerRepo) GetStatistics() (*models.PlayerStatistics, error) {
	stats := &models.PlayerStatistics{
		PlayersByPosition: make(map[string]int64),
	}

	if err := r.db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Player{}).
		Select("COALESCE(SUM(goals), 0)").
		Scan(&stats.TotalGoals).Error; err != nil {
		return nil, err
	}

	var avgRating *float64
	if err := r.db.Model(&models.Player{}).
		Select("AVG(rating)").
		Scan(&avgRating).Error; err != nil {
		return nil, err
	}
	if avgRating != nil {
		stats.AverageRating = models.Round2(*avgRating)
	}

	for _, position := range models.AllPositions() {
		var count int64
		if err := r.db.Model(&models.Player{}).
			Where("position = ?", position).
			Count(&count).Error; err != nil {
			return nil, err
		}
		stats.PlayersByPosition[position] = count
	}

	return stats, nil
}

func derived(players []models.Player) []models.Player {
	if players == nil {
		players = []models.Player{}
	}
	for i := range players {
		players[i].ComputeDerived()
	}
	return players
}
