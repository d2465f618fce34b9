package models

import (
	"fmt"
	"strings"
	"time"
)

type StageStatus string

const (
	StageStatusPending  StageStatus = "pending"
	StageStatusActive   StageStatus = "active"
	StageStatusComplete StageStatus = "complete"
)

func (s StageStatus) Valid() bool {
	return s == StageStatusPending || s == StageStatusActive || s == StageStatusComplete
}

type Stage struct {
	BaseUUIDModel
	ProjectID string      `gorm:"type:text;not null;index:idx_stages_project_position,priority:1" json:"projectId"`
	Name      string      `gorm:"type:text;not null"                                              json:"name"`
	Position  int         `gorm:"type:int;not null;default:0;index:idx_stages_project_position,priority:2" json:"position"`
	Status    StageStatus `gorm:"type:text;not null;default:'pending'"                            json:"status"`
	StartsAt  *time.Time  `gorm:"type:timestamp"                                                  json:"startsAt,omitempty"`
	EndsAt    *time.Time  `gorm:"type:timestamp"                                                  json:"endsAt,omitempty"`
}

func (s *Stage) Validate() error {
	if strings.TrimSpace(s.ProjectID) == "" {
		return fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, s.Status)
	}
	if s.StartsAt != nil && s.EndsAt != nil && s.EndsAt.Before(*s.StartsAt) {
		return fmt.Errorf("%w: endsAt is before startsAt", ErrValidation)
	}
	return nil
}

type StageRequest struct {
	ProjectID string      `json:"projectId"`
	Name      string      `json:"name"`
	Position  int         `json:"position"`
	Status    StageStatus `json:"status"`
	StartsAt  *time.Time  `json:"startsAt"`
	EndsAt    *time.Time  `json:"endsAt"`
}

func (s *Stage) Apply(req StageRequest) {
	s.ProjectID = strings.TrimSpace(req.ProjectID)
	s.Name = strings.TrimSpace(req.Name)
	s.Position = req.Position
	s.StartsAt = req.StartsAt
	s.EndsAt = req.EndsAt
	if req.Status != "" {
		s.Status = req.Status
	} else if s.Status == "" {
		s.Status = StageStatusPending
	}
}
