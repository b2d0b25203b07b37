package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/app"
	"github.com/qs-lzh/movie-list/internal/form"
	"github.com/qs-lzh/movie-list/internal/model"
	"github.com/qs-lzh/movie-list/internal/service"
	"github.com/qs-lzh/movie-list/internal/service/domain"
	"github.com/qs-lzh/movie-list/internal/session"
	"github.com/qs-lzh/movie-list/internal/token"
)

type AuthHandler struct {
	app *app.App
}

func NewAuthHandler(app *app.App) *AuthHandler {
	return &AuthHandler{
		app: app,
	}
}

func (h *AuthHandler) ShowLogin(ctx *gin.Context) {
	renderForm(h.app, ctx, http.StatusOK, newFormPage(form.KindLogin, nil))
}

func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var f form.LoginForm
	if !bindForm(ctx, &f) {
		return
	}
	f.StayLoggedIn = ctx.PostForm("stay-logged-in") != ""

	outcome, ok := h.submit(ctx, f, "")
	if !ok {
		return
	}
	h.establish(ctx, outcome.User, f.StayLoggedIn)
	redirect(h.app, ctx, "/")
}

func (h *AuthHandler) ShowSignup(ctx *gin.Context) {
	renderForm(h.app, ctx, http.StatusOK, newFormPage(form.KindSignup, nil))
}

func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var f form.SignupForm
	if !bindForm(ctx, &f) {
		return
	}

	outcome, ok := h.submit(ctx, f, "")
	if !ok {
		return
	}
	h.establish(ctx, outcome.User, false)
	redirect(h.app, ctx, "/")
}

func (h *AuthHandler) ShowForgotPassword(ctx *gin.Context) {
	renderForm(h.app, ctx, http.StatusOK, newFormPage(form.KindForgot, nil))
}

func (h *AuthHandler) HandleForgotPassword(ctx *gin.Context) {
	var f form.ForgotForm
	if !bindForm(ctx, &f) {
		return
	}

	if _, ok := h.submit(ctx, f, ""); !ok {
		return
	}
	session.FromContext(ctx).Flash(session.FlashSuccess, MsgResetLinkSent)
	redirect(h.app, ctx, "/login")
}

func (h *AuthHandler) ShowResetPassword(ctx *gin.Context) {
	tokenString := ctx.Param("token")
	if _, ok := h.verifyToken(ctx, tokenString); !ok {
		return
	}
	page := newFormPage(form.KindReset, nil)
	page.Token = tokenString
	renderForm(h.app, ctx, http.StatusOK, page)
}

func (h *AuthHandler) HandleResetPassword(ctx *gin.Context) {
	tokenString := ctx.Param("token")
	email, ok := h.verifyToken(ctx, tokenString)
	if !ok {
		return
	}

	var f form.ResetForm
	if !bindForm(ctx, &f) {
		return
	}
	f.Email = email

	if _, ok := h.submit(ctx, f, tokenString); !ok {
		return
	}
	session.FromContext(ctx).Flash(session.FlashSuccess, MsgPasswordReset)
	redirect(h.app, ctx, "/login")
}

func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	if err := h.app.Sessions.Destroy(ctx, session.FromContext(ctx)); err != nil {
		h.app.Logger.Error("failed to destroy session", zap.Error(err))
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// submit runs the auth service and writes the response for every outcome
// except success, which is left to the caller.
func (h *AuthHandler) submit(ctx *gin.Context, f form.Form, tokenString string) (*domain.Outcome, bool) {
	outcome, err := h.app.AuthService.Submit(ctx.Request.Context(), f)
	if outcome == nil {
		h.app.Logger.Error("failed to submit form", zap.String("form", string(f.Kind())), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	page := newFormPage(f.Kind(), outcome.Result)
	page.Token = tokenString
	if err != nil {
		session.FromContext(ctx).Flash(session.FlashDanger, submissionFailure(err))
		renderForm(h.app, ctx, http.StatusInternalServerError, page)
		return nil, false
	}
	if !outcome.Result.Valid() {
		renderForm(h.app, ctx, http.StatusUnprocessableEntity, page)
		return nil, false
	}
	return outcome, true
}

// establish starts a fresh session owned by user.
func (h *AuthHandler) establish(ctx *gin.Context, user *model.User, permanent bool) {
	s := session.FromContext(ctx)
	s.Clear()
	if err := h.app.Sessions.Renew(ctx, s); err != nil {
		h.app.Logger.Warn("failed to renew session", zap.Error(err))
	}
	s.Login(user, permanent)
}

// verifyToken redirects to the forgot password form when the reset link
// cannot be used.
func (h *AuthHandler) verifyToken(ctx *gin.Context, tokenString string) (string, bool) {
	email, err := h.app.AuthService.VerifyResetToken(tokenString)
	if err == nil {
		return email, true
	}

	msg := MsgResetLinkInvalid
	if errors.Is(err, token.ErrExpired) {
		msg = MsgResetLinkExpired
	}
	session.FromContext(ctx).Flash(session.FlashDanger, msg)
	redirect(h.app, ctx, "/forgot-password")
	return "", false
}

func submissionFailure(err error) string {
	switch {
	case errors.Is(err, service.ErrSendEmail):
		return MsgSendEmailFailed
	case errors.Is(err, service.ErrAddUser):
		return MsgAddUserFailed
	case errors.Is(err, service.ErrUpdatePassword):
		return MsgResetFailed
	default:
		return "Something went wrong. Please try again."
	}
}

func bindForm(ctx *gin.Context, dest any) bool {
	if err := ctx.ShouldBindWith(dest, binding.FormPost); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return false
	}
	return true
}
