package main

import "errors"

const (
	maxBodyLen  = 140
	maxAboutLen = 140
)

var (
	errEmptyPassword = errors.New("password must not be empty")
	errEmptyBody     = errors.New("post body must not be empty")
	errBodyTooLong   = errors.New("post body exceeds 140 characters")
	errAboutTooLong  = errors.New("about me exceeds 140 characters")
)

// User represents a registered user.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	AboutMe      string
	LastSeen     int64
}

// Post is a single message joined with its author, immutable once written.
type Post struct {
	ID        int64
	Body      string
	Timestamp int64
	UserID    int64
	Username  string
	Email     string
}
