package repository

import (
	"context"
	"testing"

	"roamly/internal/microservices/http-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestAggregateScores(t *testing.T) {
	t.Run("mean of several scores", func(t *testing.T) {
		avg, count := AggregateScores([]int{8, 6, 10})
		assert.Equal(t, 8.0, avg)
		assert.Equal(t, 3, count)
	})

	t.Run("non-integral mean is not rounded", func(t *testing.T) {
		avg, count := AggregateScores([]int{8, 4, 10})
		assert.InDelta(t, 7.3333, avg, 0.0001)
		assert.Equal(t, 3, count)
	})

	t.Run("single score", func(t *testing.T) {
		avg, count := AggregateScores([]int{7})
		assert.Equal(t, 7.0, avg)
		assert.Equal(t, 1, count)
	})

	t.Run("removing a score shifts the mean", func(t *testing.T) {
		before, _ := AggregateScores([]int{8, 6, 10})
		after, count := AggregateScores([]int{8, 10})
		assert.Equal(t, 8.0, before)
		assert.Equal(t, 9.0, after)
		assert.Equal(t, 2, count)
	})

	t.Run("empty ledger resets to zero", func(t *testing.T) {
		avg, count := AggregateScores(nil)
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, 0, count)
	})
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db, mock
}

func TestRatingRepositoryCreate(t *testing.T) {
	t.Run("ledger write and aggregate share one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "ratings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT "rating_value" FROM "ratings"`).
			WillReturnRows(sqlmock.NewRows([]string{"rating_value"}).AddRow(8).AddRow(6))
		mock.ExpectExec(`UPDATE "movies" SET`).
			WithArgs(7.0, 2, sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(context.Background(), &models.Rating{
			UserID:    "user-1",
			MovieID:   42,
			Value:     8,
			Sentiment: models.SentimentPositive,
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing movie row rolls the write back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "ratings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT "rating_value" FROM "ratings"`).
			WillReturnRows(sqlmock.NewRows([]string{"rating_value"}).AddRow(8))
		mock.ExpectExec(`UPDATE "movies" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &models.Rating{
			UserID:    "user-1",
			MovieID:   999,
			Value:     8,
			Sentiment: models.SentimentPositive,
		})

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingRepositoryDelete(t *testing.T) {
	t.Run("recomputes aggregate from remaining rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "ratings"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT "rating_value" FROM "ratings"`).
			WillReturnRows(sqlmock.NewRows([]string{"rating_value"}))
		mock.ExpectExec(`UPDATE "movies" SET`).
			WithArgs(0.0, 0, sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), 7, 42)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rating aborts before the recompute", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "ratings"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), 7, 42)

		assert.ErrorIs(t, err, ErrRatingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
