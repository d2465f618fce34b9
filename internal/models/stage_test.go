package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStage_ApplyAndValidate(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	stage := &Stage{}
	stage.Apply(StageRequest{ProjectID: "proj-7", Name: " Framing ", Position: 2})

	assert.Equal(t, "Framing", stage.Name)
	assert.Equal(t, StageStatusPending, stage.Status)
	assert.NoError(t, stage.Validate())

	stage.StartsAt = &start
	stage.EndsAt = &end
	assert.ErrorIs(t, stage.Validate(), ErrValidation)

	assert.ErrorIs(t, (&Stage{Name: "x", Status: StageStatusActive}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Stage{ProjectID: "p", Name: "x", Status: "done"}).Validate(), ErrValidation)
}
