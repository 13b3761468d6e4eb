package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	PositionGoalkeeper = "goalkeeper"
	PositionDefender   = "defender"
	PositionMidfielder = "midfielder"
	PositionForward    = "forward"
)

const (
	FootLeft  = "left"
	FootRight = "right"
	FootBoth  = "both"
)

const dateLayout = "2006-01-02"

type Player struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null;index" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null;index" json:"last_name"`

	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Nationality *string    `gorm:"type:varchar(100);index" json:"nationality"`

	HeightCM      *int    `json:"height_cm"`
	WeightKG      *int    `json:"weight_kg"`
	PreferredFoot *string `gorm:"type:varchar(10)" json:"preferred_foot"`

	Position     string  `gorm:"type:varchar(20);not null;index" json:"position"`
	JerseyNumber *int    `json:"jersey_number"`
	CurrentClub  *string `gorm:"type:varchar(200);index" json:"current_club"`

	MarketValueEuros *float64   `json:"market_value_euros"`
	ContractExpiry   *time.Time `gorm:"type:date" json:"contract_expiry"`

	Goals         int `gorm:"default:0;not null" json:"goals"`
	Assists       int `gorm:"default:0;not null" json:"assists"`
	MatchesPlayed int `gorm:"default:0;not null" json:"matches_played"`
	YellowCards   int `gorm:"default:0;not null" json:"yellow_cards"`
	RedCards      int `gorm:"default:0;not null" json:"red_cards"`
	MinutesPlayed int `gorm:"default:0;not null" json:"minutes_played"`

	Rating *float64 `json:"rating"`

	Bio      *string `gorm:"type:text" json:"bio"`
	ImageURL *string `gorm:"type:varchar(500)" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived fields, filled by ComputeDerived before responses
	FullName        string  `gorm:"-" json:"full_name"`
	Age             *int    `gorm:"-" json:"age"`
	GoalsPerMatch   float64 `gorm:"-" json:"goals_per_match"`
	AssistsPerMatch float64 `gorm:"-" json:"assists_per_match"`
}

// ComputeDerived fills the computed fields from the stored columns.
func (p *Player) ComputeDerived() {
	p.FullName = p.FirstName + " " + p.LastName
	p.Age = p.AgeAt(time.Now())
	p.GoalsPerMatch = perMatch(p.Goals, p.MatchesPlayed)
	p.AssistsPerMatch = perMatch(p.Assists, p.MatchesPlayed)
}

// AgeAt returns whole years between date_of_birth and now, floored,
// or nil when the date of birth is unknown.
func (p *Player) AgeAt(now time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return &age
}

// perMatch is exactly 0.0 when no matches have been played.
func perMatch(total, matches int) float64 {
	if matches == 0 {
		return 0.0
	}
	return Round2(float64(total) / float64(matches))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type PlayerCreate struct {
	FirstName        string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName         string   `json:"last_name" binding:"required,min=1,max=100"`
	DateOfBirth      *string  `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Nationality      *string  `json:"nationality" binding:"omitempty,max=100"`
	HeightCM         *int     `json:"height_cm" binding:"omitempty,gte=140,lte=230"`
	WeightKG         *int     `json:"weight_kg" binding:"omitempty,gte=40,lte=150"`
	PreferredFoot    *string  `json:"preferred_foot" binding:"omitempty,oneof=left right both"`
	Position         string   `json:"position" binding:"required,oneof=goalkeeper defender midfielder forward"`
	JerseyNumber     *int     `json:"jersey_number" binding:"omitempty,gte=1,lte=99"`
	CurrentClub      *string  `json:"current_club" binding:"omitempty,max=200"`
	MarketValueEuros *float64 `json:"market_value_euros" binding:"omitempty,gte=0"`
	ContractExpiry   *string  `json:"contract_expiry" binding:"omitempty,datetime=2006-01-02"`
	Goals            int      `json:"goals" binding:"gte=0"`
	Assists          int      `json:"assists" binding:"gte=0"`
	MatchesPlayed    int      `json:"matches_played" binding:"gte=0"`
	YellowCards      int      `json:"yellow_cards" binding:"gte=0"`
	RedCards         int      `json:"red_cards" binding:"gte=0"`
	MinutesPlayed    int      `json:"minutes_played" binding:"gte=0"`
	Rating           *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Bio              *string  `json:"bio"`
	ImageURL         *string  `json:"image_url" binding:"omitempty,max=500"`
}

// ToPlayer validates calendar rules and builds the storage model.
func (in *PlayerCreate) ToPlayer() (*Player, error) {
	dob, err := parseBirthDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	expiry, err := parseContractExpiry(in.ContractExpiry)
	if err != nil {
		return nil, err
	}

	return &Player{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		DateOfBirth:      dob,
		Nationality:      in.Nationality,
		HeightCM:         in.HeightCM,
		WeightKG:         in.WeightKG,
		PreferredFoot:    in.PreferredFoot,
		Position:         in.Position,
		JerseyNumber:     in.JerseyNumber,
		CurrentClub:      in.CurrentClub,
		MarketValueEuros: in.MarketValueEuros,
		ContractExpiry:   expiry,
		Goals:            in.Goals,
		Assists:          in.Assists,
		MatchesPlayed:    in.MatchesPlayed,
		YellowCards:      in.YellowCards,
		RedCards:         in.RedCards,
		MinutesPlayed:    in.MinutesPlayed,
		Rating:           in.Rating,
		Bio:              in.Bio,
		ImageURL:         in.ImageURL,
	}, nil
}

type PlayerUpdate struct {
	FirstName        *string  `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName         *string  `json:"last_name" binding:"omitempty,min=1,max=100"`
	DateOfBirth      *string  `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Nationality      *string  `json:"nationality" binding:"omitempty,max=100"`
	HeightCM         *int     `json:"height_cm" binding:"omitempty,gte=140,lte=230"`
	WeightKG         *int     `json:"weight_kg" binding:"omitempty,gte=40,lte=150"`
	PreferredFoot    *string  `json:"preferred_foot" binding:"omitempty,oneof=left right both"`
	Position         *string  `json:"position" binding:"omitempty,oneof=goalkeeper defender midfielder forward"`
	JerseyNumber     *int     `json:"jersey_number" binding:"omitempty,gte=1,lte=99"`
	CurrentClub      *string  `json:"current_club" binding:"omitempty,max=200"`
	MarketValueEuros *float64 `json:"market_value_euros" binding:"omitempty,gte=0"`
	ContractExpiry   *string  `json:"contract_expiry" binding:"omitempty,datetime=2006-01-02"`
	Goals            *int     `json:"goals" binding:"omitempty,gte=0"`
	Assists          *int     `json:"assists" binding:"omitempty,gte=0"`
	MatchesPlayed    *int     `json:"matches_played" binding:"omitempty,gte=0"`
	YellowCards      *int     `json:"yellow_cards" binding:"omitempty,gte=0"`
	RedCards         *int     `json:"red_cards" binding:"omitempty,gte=0"`
	MinutesPlayed    *int     `json:"minutes_played" binding:"omitempty,gte=0"`
	Rating           *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Bio              *string  `json:"bio"`
	ImageURL         *string  `json:"image_url" binding:"omitempty,max=500"`
}

// Apply copies only the provided fields onto an existing player.
func (in *PlayerUpdate) Apply(p *Player) error {
	if in.DateOfBirth != nil {
		dob, err := parseBirthDate(in.DateOfBirth)
		if err != nil {
			return err
		}
		p.DateOfBirth = dob
	}
	if in.ContractExpiry != nil {
		expiry, err := parseContractExpiry(in.ContractExpiry)
		if err != nil {
			return err
		}
		p.ContractExpiry = expiry
	}
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.Nationality != nil {
		p.Nationality = in.Nationality
	}
	if in.HeightCM != nil {
		p.HeightCM = in.HeightCM
	}
	if in.WeightKG != nil {
		p.WeightKG = in.WeightKG
	}
	if in.PreferredFoot != nil {
		p.PreferredFoot = in.PreferredFoot
	}
	if in.Position != nil {
		p.Position = *in.Position
	}
	if in.JerseyNumber != nil {
		p.JerseyNumber = in.JerseyNumber
	}
	if in.CurrentClub != nil {
		p.CurrentClub = in.CurrentClub
	}
	if in.MarketValueEuros != nil {
		p.MarketValueEuros = in.MarketValueEuros
	}
	if in.Goals != nil {
		p.Goals = *in.Goals
	}
	if in.Assists != nil {
		p.Assists = *in.Assists
	}
	if in.MatchesPlayed != nil {
		p.MatchesPlayed = *in.MatchesPlayed
	}
	if in.YellowCards != nil {
		p.YellowCards = *in.YellowCards
	}
	if in.RedCards != nil {
		p.RedCards = *in.RedCards
	}
	if in.MinutesPlayed != nil {
		p.MinutesPlayed = *in.MinutesPlayed
	}
	if in.Rating != nil {
		p.Rating = in.Rating
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	return nil
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	dob, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth: %w", err)
	}
	now := time.Now()
	if dob.After(now) {
		return nil, errors.New("date of birth cannot be in the future")
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 10 {
		return nil, errors.New("player must be at least 10 years old")
	}
	if age > 60 {
		return nil, errors.New("player age cannot exceed 60 years")
	}
	return &dob, nil
}

func parseContractExpiry(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	expiry, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid contract_expiry: %w", err)
	}
	today := time.Now().Truncate(24 * time.Hour)
	if expiry.Before(today) {
		return nil, errors.New("contract expiry cannot be in the past")
	}
	return &expiry, nil
}

// PlayerFilter is the conjunction of independently-optional list predicates.
type PlayerFilter struct {
	Position    string
	Nationality string
	CurrentClub string
	MinRating   *float64
	Search      string
}

type AdvancedSearch struct {
	Club        *string `json:"club" binding:"omitempty,max=200"`
	Nationality *string `json:"nationality" binding:"omitempty,max=100"`
	Position    *string `json:"position" binding:"omitempty,oneof=goalkeeper defender midfielder forward"`
	MinAge      *int    `json:"min_age" binding:"omitempty,gte=10,lte=60"`
	MaxAge      *int    `json:"max_age" binding:"omitempty,gte=10,lte=60"`
}

type PlayerList struct {
	Items      []Player `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// NewPlayerList computes the pagination metadata from skip/limit/total.
func NewPlayerList(items []Player, total int64, skip, limit int) PlayerList {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []Player{}
	}
	return PlayerList{
		Items:      items,
		Total:      total,
		Page:       skip/limit + 1,
		PageSize:   limit,
		TotalPages: totalPages,
	}
}

type PlayerStatistics struct {
	TotalPlayers      int64            `json:"total_players"`
	TotalGoals        int64            `json:"total_goals"`
	AverageRating     float64          `json:"average_rating"`
	PlayersByPosition map[string]int64 `json:"players_by_position"`
}

func AllPositions() []string {
	return []string{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}
}
