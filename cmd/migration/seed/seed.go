package seed

import (
	"time"

	"estimator/config"
	. "estimator/internal/models"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const devTokenTTL = 30 * 24 * time.Hour

func stringPtr(s string) *string {
	return &s
}

// Seed loads a demo account with one project's estimates and stages, then logs
// a bearer token for that account so the API can be exercised locally.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	user := User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     stringPtr("ada.lovelace@example.com"),
		Company:   stringPtr("Analytical Renovations"),
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		return log.Err("failed to create user", err)
	}

	validUntil := time.Now().UTC().AddDate(0, 0, 30)
	lapsed := time.Now().UTC().AddDate(0, 0, -1)

	estimates := []Estimate{
		{
			UserID:     user.ID,
			ProjectID:  "kitchen-2026",
			Title:      "Kitchen remodel",
			Status:     EstimateStatusSent,
			ValidUntil: &validUntil,
			LineItems: []LineItem{
				{Description: "Cabinets", Quantity: decimal.NewFromInt(12), Unit: "ea", UnitPrice: decimal.RequireFromString("310.00")},
				{Description: "Countertop", Quantity: decimal.RequireFromString("6.5"), Unit: "m", UnitPrice: decimal.RequireFromString("420.00")},
				{Description: "Labour", Quantity: decimal.NewFromInt(40), Unit: "h", UnitPrice: decimal.RequireFromString("65.00")},
			},
		},
		{
			UserID:     user.ID,
			ProjectID:  "kitchen-2026",
			Title:      "Kitchen remodel (budget)",
			Status:     EstimateStatusDraft,
			ValidUntil: &lapsed,
			LineItems: []LineItem{
				{Description: "Flat-pack cabinets", Quantity: decimal.NewFromInt(12), Unit: "ea", UnitPrice: decimal.RequireFromString("140.00")},
			},
		},
	}
	for i := range estimates {
		estimates[i].Recalculate()
		if err := db.Create(&estimates[i]).Error; err != nil {
			return log.Err("failed to create estimate", err, "title", estimates[i].Title)
		}
	}

	stages := []Stage{
		{ProjectID: "kitchen-2026", Name: "Demolition", Position: 1, Status: StageStatusComplete},
		{ProjectID: "kitchen-2026", Name: "Rough-in", Position: 2, Status: StageStatusActive},
		{ProjectID: "kitchen-2026", Name: "Install", Position: 3, Status: StageStatusPending},
	}
	if err := db.Create(&stages).Error; err != nil {
		return log.Err("failed to create stages", err)
	}

	auth, err := services.NewAuthService(config)
	if err != nil {
		return log.Err("failed to create auth service", err)
	}

	token, err := auth.IssueToken(user.ID, devTokenTTL)
	if err != nil {
		return log.Err("failed to issue development token", err)
	}

	log.Info(
		"Seeded development data",
		"userID", user.ID,
		"estimates", len(estimates),
		"stages", len(stages),
		"token", token,
	)
	return nil
}
