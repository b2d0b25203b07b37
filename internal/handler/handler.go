package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/app"
	"github.com/qs-lzh/movie-list/internal/form"
	"github.com/qs-lzh/movie-list/internal/session"
)

// Flash messages shown after a submission.
const (
	MsgResetLinkSent     = "Password reset link has been sent to your email"
	MsgSendEmailFailed   = "Error sending email. Please try again."
	MsgResetLinkExpired  = "The reset link has expired. Please enter email again."
	MsgResetLinkInvalid  = "The reset link is invalid. Please enter email again."
	MsgPasswordReset     = "Password has been successfully reset"
	MsgAddUserFailed     = "Error adding user. Please try again."
	MsgResetFailed       = "Error resetting password. Please try again."
	MsgLoginToSave       = "Must be logged in to save movie."
	MsgMovieSaved        = "Successfully saved movie!"
	MsgMovieAlreadySaved = "Movie already saved."
	MsgSaveMovieFailed   = "Error saving movie. Please try again."
)

// formPage is the body of every entry form response.
type formPage struct {
	Form    form.Descriptor       `json:"form"`
	Errors  map[form.Field]string `json:"errors"`
	Values  map[form.Field]string `json:"values"`
	Flashes []session.Flash       `json:"flashes"`
	Token   string                `json:"token,omitempty"`
}

func newFormPage(kind form.Kind, result *form.Result) formPage {
	page := formPage{
		Form:   form.DescriptorFor(kind),
		Errors: map[form.Field]string{},
		Values: map[form.Field]string{},
	}
	if result != nil {
		page.Errors = result.Errors
		page.Values = result.Redisplay()
	}
	return page
}

// save persists the session before anything is written to the response.
func save(a *app.App, c *gin.Context) {
	if err := a.Sessions.Save(c, session.FromContext(c)); err != nil {
		a.Logger.Error("failed to save session", zap.Error(err))
	}
}

func renderForm(a *app.App, c *gin.Context, status int, page formPage) {
	page.Flashes = session.FromContext(c).PopFlashes()
	if page.Flashes == nil {
		page.Flashes = []session.Flash{}
	}
	save(a, c)
	c.JSON(status, page)
}

func render(a *app.App, c *gin.Context, status int, body gin.H) {
	flashes := session.FromContext(c).PopFlashes()
	if flashes == nil {
		flashes = []session.Flash{}
	}
	body["flashes"] = flashes
	save(a, c)
	c.JSON(status, body)
}

func redirect(a *app.App, c *gin.Context, location string) {
	save(a, c)
	c.Redirect(http.StatusSeeOther, location)
}
