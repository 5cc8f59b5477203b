package models

import "time"

// Sentiment buckets a numeric score into a coarse classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// SentimentForScore derives the sentiment bucket from a 1-10 score:
// >= 7 positive, >= 4 neutral, everything below negative.
func SentimentForScore(score int) Sentiment {
	switch {
	case score >= 7:
		return SentimentPositive
	case score >= 4:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}

type Rating struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_movie"`
	MovieID       int64     `json:"movie_id" gorm:"not null;index;uniqueIndex:idx_ratings_user_movie"`
	Value         int       `json:"rating_value" gorm:"column:rating_value;not null;check:rating_value >= 1 AND rating_value <= 10"`
	ReviewText    *string   `json:"review_text,omitempty" gorm:"size:2000"`
	SpoilerTagged bool      `json:"spoiler_tagged" gorm:"not null;default:false"`
	Sentiment     Sentiment `json:"sentiment" gorm:"not null"`
	HelpfulCount  int       `json:"helpful_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
