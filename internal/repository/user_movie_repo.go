package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs-lzh/movie-list/internal/model"
)

type UserMovieRepo interface {
	WithTx(tx *gorm.DB) UserMovieRepo
	Create(ctx context.Context, userMovie *model.UserMovie) error
	Exists(ctx context.Context, userID, movieID uint) (bool, error)
	ListByUserID(ctx context.Context, userID uint) ([]model.UserMovie, error)
}

type userMovieRepoGorm struct {
	db *gorm.DB
}

var _ UserMovieRepo = (*userMovieRepoGorm)(nil)

func NewUserMovieRepoGorm(db *gorm.DB) *userMovieRepoGorm {
	return &userMovieRepoGorm{
		db: db,
	}
}

func (r *userMovieRepoGorm) WithTx(tx *gorm.DB) UserMovieRepo {
	return &userMovieRepoGorm{
		db: tx,
	}
}

func (r *userMovieRepoGorm) Create(ctx context.Context, userMovie *model.UserMovie) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(userMovie).Error
}

func (r *userMovieRepoGorm) Exists(ctx context.Context, userID, movieID uint) (bool, error) {
	count, err := gorm.G[model.UserMovie](r.db).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(ctx, "*")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUserID returns the saved movies of a user, newest first.
func (r *userMovieRepoGorm) ListByUserID(ctx context.Context, userID uint) ([]model.UserMovie, error) {
	var userMovies []model.UserMovie
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&userMovies).Error
	if err != nil {
		return nil, err
	}
	return userMovies, nil
}
