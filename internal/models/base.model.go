package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"                                 json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"                                 json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                                          json:"-"`
}
