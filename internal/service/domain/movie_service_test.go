package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs-lzh/movie-list/internal/model"
	"github.com/qs-lzh/movie-list/internal/repository"
	"github.com/qs-lzh/movie-list/internal/service"
	"github.com/qs-lzh/movie-list/internal/testutil"
	"github.com/qs-lzh/movie-list/internal/tmdb"
)

type fakeMovieAPI struct {
	movies map[int]tmdb.MovieInfo
	calls  int
}

func (f *fakeMovieAPI) SearchMovies(_ context.Context, query string) (*tmdb.SearchResponse, error) {
	resp := &tmdb.SearchResponse{Page: 1}
	for _, m := range f.movies {
		if m.Title == query {
			resp.Results = append(resp.Results, tmdb.SearchResult{ID: m.ID, Title: m.Title})
		}
	}
	resp.TotalResults = len(resp.Results)
	return resp, nil
}

func (f *fakeMovieAPI) Movie(_ context.Context, id int) (*tmdb.MovieInfo, error) {
	f.calls++
	m, ok := f.movies[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMovieAPI) ReleaseDates(_ context.Context, id int) (*tmdb.ReleaseDatesResponse, error) {
	return &tmdb.ReleaseDatesResponse{ID: id}, nil
}

func (f *fakeMovieAPI) Credits(_ context.Context, id int) (*tmdb.Credits, error) {
	return &tmdb.Credits{ID: id}, nil
}

func newMovieFixture(t *testing.T) (*movieService, *fakeMovieAPI, uint) {
	t.Helper()
	db := testutil.OpenDB(t)
	user := &model.User{Username: "ab", Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, repository.NewUserRepoGorm(db).Create(context.Background(), user))

	api := &fakeMovieAPI{movies: map[int]tmdb.MovieInfo{
		603: {ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", PosterPath: "/m.jpg", ReleaseDate: "1999-03-30", Runtime: 136},
		604: {ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
	}}
	svc := NewMovieService(db, repository.NewMovieRepoGorm(db), repository.NewUserMovieRepoGorm(db), api)
	return svc, api, user.ID
}

func TestSaveMovie(t *testing.T) {
	svc, api, userID := newMovieFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveMovie(ctx, userID, 603))
	assert.ErrorIs(t, svc.SaveMovie(ctx, userID, 603), service.ErrAlreadySaved)
	require.NoError(t, svc.SaveMovie(ctx, userID, 604))
	assert.Equal(t, 2, api.calls)

	movies, err := svc.ListSaved(ctx, userID)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	titles := []string{movies[0].Title, movies[1].Title}
	assert.ElementsMatch(t, []string{"The Matrix", "The Matrix Reloaded"}, titles)
}

func TestSaveMovie_KnownMovieNotFetchedAgain(t *testing.T) {
	svc, api, userID := newMovieFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.SaveMovie(ctx, userID, 603))

	other := &model.User{Username: "cd", Email: "c@d.com", PasswordHash: "x"}
	require.NoError(t, repository.NewUserRepoGorm(svc.db).Create(ctx, other))
	require.NoError(t, svc.SaveMovie(ctx, other.ID, 603))

	assert.Equal(t, 1, api.calls)
}

func TestSaveMovie_Unknown(t *testing.T) {
	svc, _, userID := newMovieFixture(t)

	assert.ErrorIs(t, svc.SaveMovie(context.Background(), userID, 1), service.ErrNotFound)
	assert.ErrorIs(t, svc.SaveMovie(context.Background(), userID, 0), service.ErrNotFound)

	movies, err := svc.ListSaved(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestGetMovieDetails(t *testing.T) {
	svc, _, _ := newMovieFixture(t)

	details, err := svc.GetMovieDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", details.Title)
	assert.Equal(t, []string{"03/30/1999", "2h 16m"}, details.Facts)

	_, err = svc.GetMovieDetails(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSearch(t *testing.T) {
	svc, _, _ := newMovieFixture(t)

	resp, err := svc.Search(context.Background(), "The Matrix")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 603, resp.Results[0].ID)
}
