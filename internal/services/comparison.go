package services

import (
	"github.com/flockwood/Offside-Tool/internal/models"
)

// ComparePlayers compares two players across a fixed, ordered metric set.
// It is pure: callers must have resolved both players (and rejected equal
// ids) before calling.
func ComparePlayers(player1, player2 *models.Player) models.PlayerComparisonResponse {
	player1.ComputeDerived()
	player2.ComputeDerived()

	comparison := models.PlayerComparisonSummary{
		MarketValueEuros: compareMetric(player1.MarketValueEuros, player2.MarketValueEuros),
		Goals:            compareMetric(floatPtr(float64(player1.Goals)), floatPtr(float64(player2.Goals))),
		Assists:          compareMetric(floatPtr(float64(player1.Assists)), floatPtr(float64(player2.Assists))),
		GoalsPerMatch:    compareMetric(floatPtr(player1.GoalsPerMatch), floatPtr(player2.GoalsPerMatch)),
		AssistsPerMatch:  compareMetric(floatPtr(player1.AssistsPerMatch), floatPtr(player2.AssistsPerMatch)),
	}

	metrics := []models.ComparisonMetric{
		comparison.MarketValueEuros,
		comparison.Goals,
		comparison.Assists,
		comparison.GoalsPerMatch,
		comparison.AssistsPerMatch,
	}

	var summary models.ComparisonTotals
	for _, m := range metrics {
		switch m.Winner {
		case models.WinnerPlayer1:
			summary.Player1Wins++
		case models.WinnerPlayer2:
			summary.Player2Wins++
		default:
			summary.Ties++
		}
	}

	return models.PlayerComparisonResponse{
		Player1:    *player1,
		Player2:    *player2,
		Comparison: comparison,
		Summary:    summary,
	}
}

// compareMetric: both null is a tie, a single null loses, otherwise the
// greater value wins with exact float comparison.
func compareMetric(value1, value2 *float64) models.ComparisonMetric {
	metric := models.ComparisonMetric{
		Player1Value: value1,
		Player2Value: value2,
	}

	switch {
	case value1 == nil && value2 == nil:
		metric.Winner = models.WinnerTie
	case value1 == nil:
		metric.Winner = models.WinnerPlayer2
	case value2 == nil:
		metric.Winner = models.WinnerPlayer1
	case *value1 > *value2:
		metric.Winner = models.WinnerPlayer1
	case *value2 > *value1:
		metric.Winner = models.WinnerPlayer2
	default:
		metric.Winner = models.WinnerTie
	}

	return metric
}

func floatPtr(v float64) *float64 {
	return &v
}
