package models

import "time"

type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	TgID           *string `gorm:"uniqueIndex" json:"tg_id,omitempty"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string  `gorm:"not null;default:''" json:"-"`
	IsAdmin        bool    `gorm:"not null;default:false" json:"is_admin"`

	Orders        []Order        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type RefreshToken struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RefreshToken string    `gorm:"not null" json:"refresh_token"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
