package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/movie-list/internal/app"
)

// NewRouter registers every route of the site on a new gin engine.
func NewRouter(a *app.App) *gin.Engine {
	r := gin.New()
	// client IPs come from the connection, never from forwarding headers
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.Recovery())
	r.Use(RequestLogger(a.Logger))
	r.Use(a.Sessions.Middleware())

	authHandler := NewAuthHandler(a)
	movieHandler := NewMovieHandler(a)

	limit := RateLimit(a.Config.FormRatePerMinute, a.Config.FormRateBurst)

	r.GET("/", movieHandler.HandleHome)
	r.GET("/logout", authHandler.HandleLogout)
	r.GET("/movie", movieHandler.HandleMovie)
	r.GET("/search-results", movieHandler.HandleSearchResults)
	r.GET("/search", movieHandler.HandleSearch)
	r.POST("/save-movie", limit, movieHandler.HandleSaveMovieJSON)

	// entry forms are for anonymous visitors only
	entry := r.Group("/", RedirectIfAuthenticated(a))
	{
		entry.GET("/login", authHandler.ShowLogin)
		entry.POST("/login", limit, authHandler.HandleLogin)
		entry.GET("/signup", authHandler.ShowSignup)
		entry.POST("/signup", limit, authHandler.HandleSignup)
		entry.GET("/forgot-password", authHandler.ShowForgotPassword)
		entry.POST("/forgot-password", limit, authHandler.HandleForgotPassword)
		entry.GET("/reset-password/:token", authHandler.ShowResetPassword)
		entry.POST("/reset-password/:token", limit, authHandler.HandleResetPassword)
	}

	myList := r.Group("/my-list")
	{
		myList.GET("", RequireLogin(a, ""), movieHandler.HandleMyList)
		myList.POST("", RequireLogin(a, MsgLoginToSave), movieHandler.HandleSaveMovie)
	}

	return r
}
