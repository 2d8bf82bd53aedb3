package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/logger"
	"pocketplan/internal/models"
)

// oracleService is the built-in prediction collaborator. It scores
// transaction descriptions against keyword lexicons per category name and
// produces rule-based insights and trajectory projections. Every call is
// advisory and every answer is logged for later review.
type oracleService struct {
	db    *gorm.DB
	users UserServicer
}

// NewOracleService creates a new OracleServicer.
func NewOracleService(db *gorm.DB, users UserServicer) OracleServicer {
	return &oracleService{db: db, users: users}
}

// categoryLexicon maps a lowercased keyword to the category names it
// suggests. Matching is substring-based against the description.
var categoryLexicon = map[string][]string{
	"rent":       {"Housing"},
	"mortgage":   {"Housing"},
	"lease":      {"Housing"},
	"grocery":    {"Groceries"},
	"groceries":  {"Groceries"},
	"market":     {"Groceries"},
	"supermark":  {"Groceries"},
	"electric":   {"Utilities"},
	"water":      {"Utilities"},
	"internet":   {"Utilities"},
	"gas bill":   {"Utilities"},
	"phone":      {"Utilities"},
	"movie":      {"Entertainment"},
	"cinema":     {"Entertainment"},
	"concert":    {"Entertainment"},
	"game":       {"Entertainment"},
	"streaming":  {"Entertainment"},
	"netflix":    {"Entertainment"},
	"spotify":    {"Entertainment"},
	"restaurant": {"Dining Out"},
	"dinner":     {"Dining Out"},
	"lunch":      {"Dining Out"},
	"cafe":       {"Dining Out"},
	"coffee":     {"Dining Out"},
	"takeout":    {"Dining Out"},
	"pizza":      {"Dining Out"},
	"savings":    {"Goal Contribution"},
	"transfer":   {"Goal Contribution"},
	"deposit":    {"Goal Contribution"},
}

func (s *oracleService) logCall(userID uint, endpoint, input string, output any, predictedID *uint, confidence float64) {
	raw, err := json.Marshal(output)
	if err != nil {
		raw = []byte("{}")
	}
	entry := models.AILog{
		UserID:              userID,
		Endpoint:            endpoint,
		InputText:           input,
		Output:              string(raw),
		PredictedCategoryID: predictedID,
		Confidence:          confidence,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("failed to record oracle call", "endpoint", endpoint, "error", err)
	}
}

// Categorize suggests a category for a transaction description. It requires
// the user's auto-categorization flag and answers with the best keyword
// match among the caller-supplied candidate categories.
func (s *oracleService) Categorize(userID uint, description string, contextCategories map[uint]string) (*CategorizePrediction, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.AutoCategorization {
		return nil, apperrors.WithMessage(apperrors.ErrFeatureDisabled, "auto-categorization is disabled in settings")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if len(contextCategories) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no candidate categories")
	}

	lowered := strings.ToLower(description)
	hits := map[string]int{}
	total := 0
	for keyword, names := range categoryLexicon {
		if strings.Contains(lowered, keyword) {
			for _, name := range names {
				hits[name]++
				total++
			}
		}
	}

	// Score only categories the user actually has, by name.
	byName := map[string]uint{}
	for id, name := range contextCategories {
		byName[name] = id
	}

	var scores []CategoryScore
	for name := range byName {
		count := hits[name]
		score := 0.0
		if total > 0 {
			score = float64(count) / float64(total)
		}
		scores = append(scores, CategoryScore{Label: name, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})

	best := scores[0]
	prediction := &CategorizePrediction{
		PredictedCategoryID: byName[best.Label],
		Confidence:          best.Score,
		RawPredictions:      scores,
	}

	predictedID := prediction.PredictedCategoryID
	s.logCall(userID, "categorize", description, prediction, &predictedID, prediction.Confidence)
	return prediction, nil
}

// Insights turns a spending summary into short rule-based observations. It
// requires the user's AI-insights flag.
func (s *oracleService) Insights(userID uint, spendingSummary string) ([]models.Insight, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.AIInsights {
		return nil, apperrors.WithMessage(apperrors.ErrFeatureDisabled, "insights are disabled in settings")
	}

	budget, categories, err := monthData(s.db, userID, currentMonth())
	if err != nil {
		return nil, err
	}

	var insights []models.Insight
	for i := range categories {
		cat := &categories[i]
		switch {
		case cat.Planned > 0 && cat.Actual > cat.Planned:
			insights = append(insights, models.Insight{
				Type: "warning",
				Text: fmt.Sprintf("%s is over budget by %d", cat.Name, cat.Actual-cat.Planned),
			})
		case cat.Planned > 0 && cat.Actual*2 <= cat.Planned:
			insights = append(insights, models.Insight{
				Type: "positive",
				Text: fmt.Sprintf("%s is under half of its plan; consider moving the slack to a goal", cat.Name),
			})
		}
	}
	if budget.FreeToSpend < 0 {
		insights = append(insights, models.Insight{
			Type: "warning",
			Text: "Free-to-spend is negative; contributions have outrun this month's income",
		})
	}
	if len(insights) == 0 {
		insights = append(insights, models.Insight{
			Type: "positive",
			Text: "Spending is tracking the plan across all categories",
		})
	}

	s.logCall(userID, "insights", spendingSummary, insights, nil, 0)
	return insights, nil
}

// PredictBudgetStatus projects whether the month will land on plan, given
// how far through the month the user is and the variance accumulated so
// far. Pure heuristic thresholds; no per-user state.
func (s *oracleService) PredictBudgetStatus(monthProgressPct, variancePct float64) (*BudgetStatusPrediction, error) {
	if monthProgressPct < 0 || monthProgressPct > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month progress must be between 0 and 100")
	}

	// Positive variancePct means spending ahead of the pro-rata plan.
	drift := variancePct - monthProgressPct
	prediction := &BudgetStatusPrediction{}
	switch {
	case drift > 15:
		prediction.Projection = "projected to overspend"
		prediction.RiskLevel = "high"
	case drift > 5:
		prediction.Projection = "trending over plan"
		prediction.RiskLevel = "medium"
	case drift < -15:
		prediction.Projection = "projected to finish well under plan"
		prediction.RiskLevel = "low"
	default:
		prediction.Projection = "on track"
		prediction.RiskLevel = "low"
	}
	return prediction, nil
}
