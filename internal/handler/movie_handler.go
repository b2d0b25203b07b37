package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/app"
	"github.com/qs-lzh/movie-list/internal/service"
	"github.com/qs-lzh/movie-list/internal/session"
	"github.com/qs-lzh/movie-list/internal/tmdb"
)

type MovieHandler struct {
	app *app.App
}

func NewMovieHandler(app *app.App) *MovieHandler {
	return &MovieHandler{
		app: app,
	}
}

type userInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *MovieHandler) HandleHome(ctx *gin.Context) {
	s := session.FromContext(ctx)
	body := gin.H{"user": nil}

	if s.Authenticated() {
		user, err := h.app.AuthService.CurrentUser(ctx.Request.Context(), s.UserID)
		switch {
		case errors.Is(err, service.ErrNotFound):
			// the account behind the session is gone
			s.Clear()
		case err != nil:
			h.app.Logger.Error("failed to load current user", zap.Uint("user_id", s.UserID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		default:
			body["user"] = userInfo{ID: user.ID, Username: user.Username, Email: user.Email}
		}
	}
	render(h.app, ctx, http.StatusOK, body)
}

func (h *MovieHandler) HandleMovie(ctx *gin.Context) {
	movieID, err := strconv.Atoi(ctx.Query("id"))
	if err != nil || movieID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	details, err := h.app.MovieService.GetMovieDetails(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		h.app.Logger.Error("failed to load movie", zap.Int("movie_id", movieID), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Movie service unavailable"})
		return
	}

	saved := false
	if s := session.FromContext(ctx); s.Authenticated() {
		saved, err = h.app.UserMovieRepo.Exists(ctx.Request.Context(), s.UserID, uint(movieID))
		if err != nil {
			h.app.Logger.Warn("failed to check saved movie", zap.Error(err))
		}
	}
	render(h.app, ctx, http.StatusOK, gin.H{"movie": details, "saved": saved})
}

// HandleSearchResults proxies a title search to the movie API.
func (h *MovieHandler) HandleSearchResults(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusOK, tmdb.SearchResponse{Page: 1, Results: []tmdb.SearchResult{}})
		return
	}

	resp, err := h.app.MovieService.Search(ctx.Request.Context(), query)
	if err != nil {
		h.app.Logger.Error("failed to search movies", zap.String("query", query), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Movie service unavailable"})
		return
	}
	if resp.Results == nil {
		resp.Results = []tmdb.SearchResult{}
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *MovieHandler) HandleSearch(ctx *gin.Context) {
	render(h.app, ctx, http.StatusOK, gin.H{"q": ctx.Query("q")})
}

// HandleSaveMovie saves the movie_id form value and returns to the movie page.
func (h *MovieHandler) HandleSaveMovie(ctx *gin.Context) {
	location, _ := h.saveMovie(ctx, ctx.PostForm("movie_id"))
	redirect(h.app, ctx, location)
}

// HandleSaveMovieJSON serves the movie page's save button.
func (h *MovieHandler) HandleSaveMovieJSON(ctx *gin.Context) {
	location, ok := h.saveMovie(ctx, ctx.Query("id"))
	save(h.app, ctx)
	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
		if !session.FromContext(ctx).Authenticated() {
			status = http.StatusUnauthorized
		}
	}
	ctx.JSON(status, gin.H{"success": ok, "redirect_url": location})
}

func (h *MovieHandler) HandleMyList(ctx *gin.Context) {
	s := session.FromContext(ctx)
	movies, err := h.app.MovieService.ListSaved(ctx.Request.Context(), s.UserID)
	if err != nil {
		h.app.Logger.Error("failed to list saved movies", zap.Uint("user_id", s.UserID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	render(h.app, ctx, http.StatusOK, gin.H{"movies": movies})
}

// saveMovie leaves the outcome as a flash and returns where to send the visitor next.
func (h *MovieHandler) saveMovie(ctx *gin.Context, rawID string) (string, bool) {
	s := session.FromContext(ctx)
	if !s.Authenticated() {
		s.Flash(session.FlashDanger, MsgLoginToSave)
		return "/login", false
	}

	movieID, err := strconv.Atoi(rawID)
	if err != nil || movieID <= 0 {
		s.Flash(session.FlashDanger, MsgSaveMovieFailed)
		return "/", false
	}
	location := "/movie?id=" + strconv.Itoa(movieID)

	err = h.app.MovieService.SaveMovie(ctx.Request.Context(), s.UserID, movieID)
	switch {
	case err == nil:
		s.Flash(session.FlashSuccess, MsgMovieSaved)
		return location, true
	case errors.Is(err, service.ErrAlreadySaved):
		s.Flash(session.FlashDanger, MsgMovieAlreadySaved)
	case errors.Is(err, service.ErrNotFound):
		s.Flash(session.FlashDanger, MsgSaveMovieFailed)
		return "/", false
	default:
		h.app.Logger.Error("failed to save movie", zap.Int("movie_id", movieID), zap.Error(err))
		s.Flash(session.FlashDanger, MsgSaveMovieFailed)
	}
	return location, false
}
