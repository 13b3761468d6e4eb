package models

const (
	WinnerPlayer1 = "player_1"
	WinnerPlayer2 = "player_2"
	WinnerTie     = "tie"
)

type ComparisonMetric struct {
	Player1Value *float64 `json:"player_1_value"`
	Player2Value *float64 `json:"player_2_value"`
	Winner       string   `json:"winner"`
}

type PlayerComparisonSummary struct {
	MarketValueEuros ComparisonMetric `json:"market_value_euros"`
	Goals            ComparisonMetric `json:"goals"`
	Assists          ComparisonMetric `json:"assists"`
	GoalsPerMatch    ComparisonMetric `json:"goals_per_match"`
	AssistsPerMatch  ComparisonMetric `json:"assists_per_match"`
}

type ComparisonTotals struct {
	Player1Wins int `json:"player_1_wins"`
	Player2Wins int `json:"player_2_wins"`
	Ties        int `json:"ties"`
}

type PlayerComparisonResponse struct {
	Player1    Player                  `json:"player_1"`
	Player2    Player                  `json:"player_2"`
	Comparison PlayerComparisonSummary `json:"comparison"`
	Summary    ComparisonTotals        `json:"summary"`
}
