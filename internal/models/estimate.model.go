package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusRejected EstimateStatus = "rejected"
	EstimateStatusExpired  EstimateStatus = "expired"
)

func (s EstimateStatus) Valid() bool {
	switch s {
	case EstimateStatusDraft,
		EstimateStatusSent,
		EstimateStatusAccepted,
		EstimateStatusRejected,
		EstimateStatusExpired:
		return true
	}
	return false
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (l LineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

type Estimate struct {
	BaseUUIDModel
	UserID     uuid.UUID                     `gorm:"type:uuid;not null;index:idx_estimates_user"      json:"userId"`
	ProjectID  string                        `gorm:"type:text;not null;index:idx_estimates_project"   json:"projectId"`
	Title      string                        `gorm:"type:text;not null"                               json:"title"`
	Notes      *string                       `gorm:"type:text"                                        json:"notes,omitempty"`
	Status     EstimateStatus                `gorm:"type:text;not null;default:'draft';index"         json:"status"`
	LineItems  datatypes.JSONSlice[LineItem] `gorm:"type:jsonb"                                       json:"lineItems"`
	Total      decimal.Decimal               `gorm:"type:decimal(14,2);not null;default:0"            json:"total"`
	ValidUntil *time.Time                    `gorm:"type:timestamp"                                   json:"validUntil,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Recalculate sets Total to the sum of every line amount, rounded to cents.
func (e *Estimate) Recalculate() {
	total := decimal.Zero
	for _, item := range e.LineItems {
		total = total.Add(item.Amount())
	}
	e.Total = total.Round(2)
}

// IsStale reports whether an open estimate has passed its validity date.
func (e *Estimate) IsStale(now time.Time) bool {
	if e.ValidUntil == nil {
		return false
	}
	if e.Status != EstimateStatusDraft && e.Status != EstimateStatusSent {
		return false
	}
	return now.After(*e.ValidUntil)
}

func (e *Estimate) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(e.ProjectID) == "" {
		return fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, e.Status)
	}
	for i, item := range e.LineItems {
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", ErrValidation, i)
		}
	}
	return nil
}

type EstimateRequest struct {
	ProjectID  string         `json:"projectId"`
	Title      string         `json:"title"`
	Notes      *string        `json:"notes"`
	Status     EstimateStatus `json:"status"`
	LineItems  []LineItem     `json:"lineItems"`
	ValidUntil *time.Time     `json:"validUntil"`
}

// Apply copies the request onto the estimate and recalculates the total.
func (e *Estimate) Apply(req EstimateRequest) {
	e.ProjectID = strings.TrimSpace(req.ProjectID)
	e.Title = strings.TrimSpace(req.Title)
	e.Notes = req.Notes
	e.ValidUntil = req.ValidUntil
	if req.Status != "" {
		e.Status = req.Status
	} else if e.Status == "" {
		e.Status = EstimateStatusDraft
	}
	e.LineItems = datatypes.JSONSlice[LineItem](req.LineItems)
	e.Recalculate()
}
