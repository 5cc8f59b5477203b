package models

// Tag tables for the string collections hanging off a movie. Each has its own
// id so GORM can manage rows individually; ordering is irrelevant.

type MovieGenre struct {
	ID      int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	MovieID int64  `json:"-" gorm:"not null;index;uniqueIndex:idx_movie_genre"`
	Genre   string `json:"genre" gorm:"not null;uniqueIndex:idx_movie_genre;index"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}

type MovieCast struct {
	ID        int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	MovieID   int64  `json:"-" gorm:"not null;index"`
	ActorName string `json:"actor_name" gorm:"not null"`
}

func (MovieCast) TableName() string {
	return "movie_cast"
}

type MovieDirector struct {
	ID           int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	MovieID      int64  `json:"-" gorm:"not null;index"`
	DirectorName string `json:"director_name" gorm:"not null"`
}

func (MovieDirector) TableName() string {
	return "movie_directors"
}
