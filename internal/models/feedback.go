package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScoreMin = 1
	ScoreMax = 10
)

type Review struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// The composite unique index is the authoritative backstop for the
	// one-review-per-author rule; the service pre-check exists only to
	// produce a clean conflict error.
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author" json:"title_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author" json:"-"`

	Score   int       `gorm:"not null" json:"score"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"autoCreateTime" json:"pub_date"`

	Title  Title `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"-"`
	Author User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
}

type Comment struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReviewID uint      `gorm:"not null;index" json:"review_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Text     string    `gorm:"type:varchar(200);not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`

	Review Review `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
}
