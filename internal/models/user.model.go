package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	FirstName   string     `gorm:"type:text"             json:"firstName"`
	LastName    string     `gorm:"type:text"             json:"lastName"`
	FullName    string     `gorm:"type:text"             json:"fullName"`
	DisplayName string     `gorm:"type:text"             json:"displayName"`
	Email       *string    `gorm:"type:text;uniqueIndex" json:"email"`
	Company     *string    `gorm:"type:text"             json:"company,omitempty"`
	Phone       *string    `gorm:"type:text"             json:"phone,omitempty"`
	IsActive    bool       `gorm:"type:bool;default:true" json:"isActive"`
	LastLoginAt *time.Time `gorm:"type:timestamp"        json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.syncNames()
	return nil
}

func (u *User) syncNames() {
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	if u.DisplayName == "" {
		u.DisplayName = u.FullName
	}
}

// UserProfile is the public view of a user, cached under querykeys.User.Profile.
type UserProfile struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	DisplayName string     `json:"displayName"`
	Email       *string    `json:"email,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Company:     u.Company,
		Phone:       u.Phone,
		LastLoginAt: u.LastLoginAt,
	}
}

// UpdateProfileRequest carries the user-editable profile fields. Nil fields
// are left unchanged.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DisplayName *string `json:"displayName"`
	Company     *string `json:"company"`
	Phone       *string `json:"phone"`
}

func (u *User) ApplyProfile(req UpdateProfileRequest) {
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Company != nil {
		u.Company = req.Company
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	u.syncNames()
}
