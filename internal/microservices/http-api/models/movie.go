package models

import "time"

type Movie struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	TmdbID       *int       `json:"tmdb_id,omitempty" gorm:"uniqueIndex"`
	Title        string     `json:"title" gorm:"not null"`
	Description  *string    `json:"description,omitempty" gorm:"size:2000"`
	ReleaseDate  *time.Time `json:"release_date,omitempty" gorm:"type:date"`
	Runtime      *int       `json:"runtime,omitempty"`
	PosterPath   *string    `json:"poster_path,omitempty"`
	BackdropPath *string    `json:"backdrop_path,omitempty"`
	TrailerURL   *string    `json:"trailer_url,omitempty"`
	Rating       float64    `json:"rating" gorm:"not null;default:0"`
	VoteCount    int        `json:"vote_count" gorm:"not null;default:0"`
	IsFeatured   bool       `json:"is_featured" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations (tag tables, one row per string)
	Genres    []MovieGenre    `json:"genres,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
	Cast      []MovieCast     `json:"cast,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
	Directors []MovieDirector `json:"directors,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (Movie) TableName() string {
	return "movies"
}

// GenreNames flattens the genre tag rows to plain strings.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Genre)
	}
	return names
}

func (m *Movie) CastNames() []string {
	names := make([]string, 0, len(m.Cast))
	for _, c := range m.Cast {
		names = append(names, c.ActorName)
	}
	return names
}

func (m *Movie) DirectorNames() []string {
	names := make([]string, 0, len(m.Directors))
	for _, d := range m.Directors {
		names = append(names, d.DirectorName)
	}
	return names
}
