package main

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const postColumns = "post.id, post.body, post.timestamp, post.user_id, user.username, user.email"

// Equal timestamps are ordered by post id descending so pagination
// stays stable across pages.
const postOrder = "ORDER BY post.timestamp DESC, post.id DESC"

// followedPosts returns one page of the user's timeline: posts
// authored by anyone the user follows, plus the user's own, newest
// first. Pages are 1-indexed; page values below 1 mean the first
// page. A user who follows nobody and has no posts gets an empty
// page, not an error. Each post is a single row, so a follow
// self-loop cannot duplicate an entry.
func followedPosts(db *sql.DB, userID int64, page, perPage int) ([]Post, error) {
	return queryPosts(db, `
		SELECT `+postColumns+`
		FROM post JOIN user ON post.user_id = user.id
		WHERE post.user_id = ? OR post.user_id IN
			(SELECT followed_id FROM followers WHERE follower_id = ?)
		`+postOrder+` LIMIT ? OFFSET ?`,
		userID, userID, perPage, pageOffset(page, perPage))
}

// postsByUser returns one page of a single user's posts, newest first.
func postsByUser(db *sql.DB, userID int64, page, perPage int) ([]Post, error) {
	return queryPosts(db, `
		SELECT `+postColumns+`
		FROM post JOIN user ON post.user_id = user.id
		WHERE post.user_id = ?
		`+postOrder+` LIMIT ? OFFSET ?`,
		userID, perPage, pageOffset(page, perPage))
}

// publicPosts returns one page of all posts, newest first.
func publicPosts(db *sql.DB, page, perPage int) ([]Post, error) {
	return queryPosts(db, `
		SELECT `+postColumns+`
		FROM post JOIN user ON post.user_id = user.id
		`+postOrder+` LIMIT ? OFFSET ?`,
		perPage, pageOffset(page, perPage))
}

// createPost persists a new post owned by the user, stamped with the
// current UTC time.
func createPost(db *sql.DB, userID int64, body string) (*Post, error) {
	if body == "" {
		return nil, errEmptyBody
	}
	if len(body) > maxBodyLen {
		return nil, errBodyTooLong
	}
	now := time.Now().UTC().Unix()
	res, err := db.Exec(
		"INSERT INTO post (body, timestamp, user_id) VALUES (?, ?, ?)",
		body, now, userID)
	if err != nil {
		return nil, errors.Wrap(err, "insert post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "new post id")
	}
	return &Post{ID: id, Body: body, Timestamp: now, UserID: userID}, nil
}
