package main

import (
	"database/sql"

	"github.com/pkg/errors"
)

// followUser adds a follow edge from follower to followed. Following
// someone already followed, or yourself, is a no-op. The composite
// primary key on (follower_id, followed_id) keeps racing callers from
// ever producing a duplicate edge.
func followUser(db *sql.DB, followerID, followedID int64) error {
	if followerID == followedID {
		return nil
	}
	_, err := db.Exec(
		"INSERT OR IGNORE INTO followers (follower_id, followed_id) VALUES (?, ?)",
		followerID, followedID)
	return errors.Wrap(err, "insert follow edge")
}

// unfollowUser removes the edge if present; absent edges are a no-op.
func unfollowUser(db *sql.DB, followerID, followedID int64) error {
	_, err := db.Exec(
		"DELETE FROM followers WHERE follower_id = ? AND followed_id = ?",
		followerID, followedID)
	return errors.Wrap(err, "delete follow edge")
}

func isFollowing(db *sql.DB, followerID, followedID int64) (bool, error) {
	var exists int
	err := db.QueryRow(
		"SELECT 1 FROM followers WHERE follower_id = ? AND followed_id = ?",
		followerID, followedID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check follow edge")
	}
	return true, nil
}

func queryUsers(db *sql.DB, query string, args ...interface{}) ([]User, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AboutMe, &u.LastSeen); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	return users, errors.Wrap(rows.Err(), "iterate users")
}

// followers enumerates who follows the user, ordered by username.
// Pages are 1-indexed and fetched with LIMIT/OFFSET so the full set is
// never materialized.
func followers(db *sql.DB, userID int64, page, perPage int) ([]User, error) {
	return queryUsers(db, `
		SELECT `+userColumns+`
		FROM user JOIN followers ON user.id = followers.follower_id
		WHERE followers.followed_id = ?
		ORDER BY user.username
		LIMIT ? OFFSET ?`,
		userID, perPage, pageOffset(page, perPage))
}

// following enumerates who the user follows, ordered by username.
func following(db *sql.DB, userID int64, page, perPage int) ([]User, error) {
	return queryUsers(db, `
		SELECT `+userColumns+`
		FROM user JOIN followers ON user.id = followers.followed_id
		WHERE followers.follower_id = ?
		ORDER BY user.username
		LIMIT ? OFFSET ?`,
		userID, perPage, pageOffset(page, perPage))
}

func followerCount(db *sql.DB, userID int64) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM followers WHERE followed_id = ?", userID).Scan(&n)
	return n, errors.Wrap(err, "count followers")
}

func followingCount(db *sql.DB, userID int64) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM followers WHERE follower_id = ?", userID).Scan(&n)
	return n, errors.Wrap(err, "count following")
}

func pageOffset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
