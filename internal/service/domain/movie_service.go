package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-list/internal/model"
	"github.com/qs-lzh/movie-list/internal/repository"
	"github.com/qs-lzh/movie-list/internal/service"
	"github.com/qs-lzh/movie-list/internal/tmdb"
)

type MovieService interface {
	Search(ctx context.Context, query string) (*tmdb.SearchResponse, error)
	GetMovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	SaveMovie(ctx context.Context, userID uint, movieID int) error
	ListSaved(ctx context.Context, userID uint) ([]model.Movie, error)
}

type movieService struct {
	db            *gorm.DB
	repo          repository.MovieRepo
	userMovieRepo repository.UserMovieRepo
	api           tmdb.MovieAPI
}

var _ MovieService = (*movieService)(nil)

func NewMovieService(db *gorm.DB, movieRepo repository.MovieRepo, userMovieRepo repository.UserMovieRepo, api tmdb.MovieAPI) *movieService {
	return &movieService{
		db:            db,
		repo:          movieRepo,
		userMovieRepo: userMovieRepo,
		api:           api,
	}
}

func (s *movieService) Search(ctx context.Context, query string) (*tmdb.SearchResponse, error) {
	return s.api.SearchMovies(ctx, query)
}

func (s *movieService) GetMovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error) {
	details, err := tmdb.FetchDetails(ctx, s.api, movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return details, nil
}

// SaveMovie adds a movie to the user's list, storing the movie row first
// when it is not known yet.
func (s *movieService) SaveMovie(ctx context.Context, userID uint, movieID int) error {
	if movieID <= 0 {
		return service.ErrNotFound
	}
	id := uint(movieID)

	saved, err := s.userMovieRepo.Exists(ctx, userID, id)
	if err != nil {
		return err
	}
	if saved {
		return service.ErrAlreadySaved
	}

	movie, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		movie, err = s.fetchMovie(ctx, movieID)
	}
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Upsert(ctx, movie); err != nil {
			return err
		}
		return s.userMovieRepo.WithTx(tx).Create(ctx, &model.UserMovie{
			UserID:  userID,
			MovieID: id,
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.ErrAlreadySaved
	}
	return err
}

func (s *movieService) fetchMovie(ctx context.Context, movieID int) (*model.Movie, error) {
	info, err := s.api.Movie(ctx, movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &model.Movie{
		ID:          uint(movieID),
		Title:       info.Title,
		PosterPath:  info.PosterPath,
		ReleaseDate: info.ReleaseDate,
	}, nil
}

func (s *movieService) ListSaved(ctx context.Context, userID uint) ([]model.Movie, error) {
	userMovies, err := s.userMovieRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	movies := make([]model.Movie, 0, len(userMovies))
	for _, um := range userMovies {
		movies = append(movies, um.Movie)
	}
	return movies, nil
}
