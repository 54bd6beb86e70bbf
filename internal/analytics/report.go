// Package analytics turns a normalized sequence of expense transactions into
// derived spending reports: category trends, temporal patterns, a next-month
// forecast, per-category anomalies, budget recommendations, a composite
// financial-health score and rule-based overspending alerts.
//
// All analyzers are pure over their input except Forecaster and
// AnomalyDetector, which share a keyed cache of trained models. Reports are
// value objects: monetary figures are rounded to two decimals at this
// boundary only, and an undersized input produces a well-formed
// insufficient-data report, never an error.
package analytics

import "time"

// Report status values.
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

// Trend labels shared by the trend analyzer and the forecaster.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Budget statuses.
const (
	BudgetOver  = "over_budget"
	BudgetUnder = "under_budget"
)

// Anomaly severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Anomaly report summary codes.
const (
	SummaryAnomaliesFound = "anomalies_found"
	SummarySpendingNormal = "spending_normal"
)

// Locale-neutral insight codes. The presentation layer owns the final text.
const (
	InsightPeakWeekday        = "peak_weekday"
	InsightPeakPeriodEarly    = "peak_period_early_month"
	InsightPeakPeriodMid      = "peak_period_mid_month"
	InsightPeakPeriodLate     = "peak_period_late_month"
	InsightBudgetAfterSalary  = "budget_after_salary_day"
	InsightStrongDiscipline   = "strong_financial_discipline"
	InsightGoodHabits         = "good_habits_can_improve"
	InsightSpendingAttention  = "spending_needs_attention"
	InsightHighVariance       = "high_monthly_variance"
	InsightRisingTrend        = "rising_spending_trend"
	InsightIncomeConsumed     = "income_mostly_consumed"
	InsightAddMoreData        = "add_more_transactions"
)

// CategoryTrend is the month-over-month growth result for one category.
type CategoryTrend struct {
	Category         string  `json:"category"`
	CurrentSpending  float64 `json:"current_spending"`
	PreviousSpending float64 `json:"previous_spending"`
	GrowthRate       float64 `json:"growth_rate"`
	Trend            string  `json:"trend"`
	Transactions     int     `json:"total_transactions"`
}

// TrendReport is the category trend analysis result set, sorted by growth
// rate descending.
type TrendReport struct {
	Status             string          `json:"status"`
	Reason             string          `json:"reason,omitempty"`
	Categories         []CategoryTrend `json:"categories"`
	TopGrowingCategory string          `json:"top_growing_category,omitempty"`
}

// WeekdaySpending aggregates one weekday's observed spending.
type WeekdaySpending struct {
	Day                   string  `json:"day"`
	TotalSpent            float64 `json:"total_spent"`
	Transactions          int     `json:"transactions"`
	AveragePerTransaction float64 `json:"average_per_transaction"`
}

// MonthThirdTotals splits a month into early (1-10), mid (11-20) and late
// (21-31) day ranges.
type MonthThirdTotals struct {
	EarlyTotal float64 `json:"early_month_total"`
	MidTotal   float64 `json:"mid_month_total"`
	LateTotal  float64 `json:"late_month_total"`
	PeakPeriod string  `json:"peak_period"`
}

// PatternReport describes when the user spends: weekday distribution,
// unusually high days of the month, and the dominant month third.
type PatternReport struct {
	Status            string            `json:"status"`
	Reason            string            `json:"reason,omitempty"`
	PeakDayOfWeek     *WeekdaySpending  `json:"peak_day_of_week"`
	WeeklyPattern     []WeekdaySpending `json:"weekly_spending_pattern"`
	HighSpendingDates []int             `json:"high_spending_dates"`
	MonthPeriod       MonthThirdTotals  `json:"monthly_period_analysis"`
	Insights          []string          `json:"insights"`
}

// ForecastReport is the next-period spending projection.
type ForecastReport struct {
	Status            string  `json:"status"`
	Reason            string  `json:"reason,omitempty"`
	PredictedSpending float64 `json:"predicted_spending"`
	Trend             string  `json:"trend,omitempty"`
	Confidence        string  `json:"confidence,omitempty"`
}

// BudgetRecommendation is the derived budget ceiling for one category.
type BudgetRecommendation struct {
	Category           string  `json:"category"`
	RecommendedBudget  float64 `json:"recommended_budget"`
	CurrentSpending    float64 `json:"current_spending"`
	Variance           float64 `json:"variance"`
	VariancePercent    float64 `json:"variance_percent"`
	Status             string  `json:"status"`
	SavingsOpportunity float64 `json:"savings_opportunity"`
}

// BudgetReport lists recommendations sorted worst overspender first.
type BudgetReport struct {
	Status                 string                 `json:"status"`
	Reason                 string                 `json:"reason,omitempty"`
	Recommendations        []BudgetRecommendation `json:"recommendations"`
	TotalRecommendedBudget float64                `json:"total_recommended_budget"`
	TotalCurrentSpending   float64                `json:"total_current_spending"`
}

// Anomaly is one transaction flagged as an outlier within its category.
type Anomaly struct {
	TransactionID int64   `json:"transaction_id"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Severity      string  `json:"severity"`
}

// AnomalyReport aggregates per-category outlier scans.
type AnomalyReport struct {
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	TotalAnomalies int       `json:"total_anomalies"`
	Anomalies      []Anomaly `json:"anomalies"`
	Summary        string    `json:"summary,omitempty"`
}

// HealthBreakdown holds the four weighted sub-scores. They always sum to the
// overall score.
type HealthBreakdown struct {
	Consistency     int `json:"consistency"`
	Trend           int `json:"trend"`
	Diversity       int `json:"diversity"`
	BudgetAdherence int `json:"budget_adherence"`
}

// HealthReport is the 0-100 composite financial-health score.
type HealthReport struct {
	Status       string          `json:"status"`
	Reason       string          `json:"reason,omitempty"`
	OverallScore int             `json:"overall_score"`
	Grade        string          `json:"grade,omitempty"`
	Rating       string          `json:"rating,omitempty"`
	Breakdown    HealthBreakdown `json:"breakdown"`
	Insights     []string        `json:"insights"`
}

// Alert types.
const (
	AlertCritical = "CRITICAL"
	AlertWarning  = "WARNING"
	AlertCategory = "CATEGORY"
	AlertAnomaly  = "ANOMALY"
)

// Alert codes and suggestions (locale-neutral).
const (
	CodeSevereOverspending   = "severe_overspending"
	CodeHighSpending         = "high_spending"
	CodeCategoryOverspending = "category_overspending"
	CodeSpendingSpike        = "spending_spike"

	SuggestReduceDiscretionary = "reduce_discretionary_expenses"
	SuggestTrackExpenses       = "track_expenses_closely"
	SuggestStricterBudget      = "set_stricter_category_budget"
	SuggestReviewLarge         = "review_large_expenses"
)

// Alert is one triggered overspending rule. Ratio and SpikeCount carry the
// computed figures the rule interpolated into Message.
type Alert struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Suggestion  string    `json:"suggestion"`
	Category    string    `json:"category,omitempty"`
	Ratio       float64   `json:"ratio,omitempty"`
	SpikeCount  int       `json:"spike_count,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

func insufficientTrend(reason string) TrendReport {
	return TrendReport{Status: StatusInsufficientData, Reason: reason, Categories: []CategoryTrend{}}
}

func insufficientPattern(reason string) PatternReport {
	return PatternReport{
		Status:            StatusInsufficientData,
		Reason:            reason,
		WeeklyPattern:     []WeekdaySpending{},
		HighSpendingDates: []int{},
		Insights:          []string{},
	}
}

func insufficientForecast(reason string) ForecastReport {
	return ForecastReport{Status: StatusInsufficientData, Reason: reason}
}

func insufficientBudget(reason string) BudgetReport {
	return BudgetReport{Status: StatusInsufficientData, Reason: reason, Recommendations: []BudgetRecommendation{}}
}

func insufficientAnomaly(reason string) AnomalyReport {
	return AnomalyReport{Status: StatusInsufficientData, Reason: reason, Anomalies: []Anomaly{}}
}

func insufficientHealth(reason string) HealthReport {
	return HealthReport{
		Status:   StatusInsufficientData,
		Reason:   reason,
		Insights: []string{InsightAddMoreData},
	}
}
