package service

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrAddUser        = errors.New("error adding user")
	ErrSendEmail      = errors.New("error sending email")
	ErrUpdatePassword = errors.New("error updating password")
	ErrAlreadySaved   = errors.New("movie already saved")
)
