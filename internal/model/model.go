package model

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:64;not null;uniqueIndex"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
}

// Movie caches the few facts of an external movie needed to render a saved list.
// ID is the movie API id, not a surrogate key.
type Movie struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	PosterPath  string `gorm:"size:255" json:"poster_path"`
	ReleaseDate string `gorm:"size:16" json:"release_date"`
}

type UserMovie struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MovieID   uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time

	User  User  `gorm:"constraint:OnDelete:CASCADE"`
	Movie Movie `gorm:"constraint:OnDelete:CASCADE"`
}
