package main

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return errors.Wrap(err, "apply schema")
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AboutMe, &u.LastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan user")
	}
	return &u, nil
}

const userColumns = "id, username, email, password_hash, about_me, last_seen"

// getUserByID resolves a stored identifier back to a User. A miss
// returns (nil, nil); ids that never existed are just misses.
func getUserByID(db *sql.DB, id int64) (*User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM user WHERE id = ?", id))
}

func getUserByUsername(db *sql.DB, username string) (*User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM user WHERE username = ?", username))
}

func getUserByEmail(db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM user WHERE email = ?", email))
}

// createUser registers a new user with a freshly hashed credential.
// The unique constraints on username and email are the final backstop
// against duplicate registration racing past the caller's checks.
func createUser(db *sql.DB, username, email, password string) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Unix()
	res, err := db.Exec(
		"INSERT INTO user (username, email, password_hash, about_me, last_seen) VALUES (?, ?, ?, '', ?)",
		username, email, hash, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "new user id")
	}
	return &User{ID: id, Username: username, Email: email, PasswordHash: hash, LastSeen: now}, nil
}

func updateAboutMe(db *sql.DB, userID int64, about string) error {
	if len(about) > maxAboutLen {
		return errAboutTooLong
	}
	_, err := db.Exec("UPDATE user SET about_me = ? WHERE id = ?", about, userID)
	return errors.Wrap(err, "update about_me")
}

func touchLastSeen(db *sql.DB, userID int64) error {
	_, err := db.Exec("UPDATE user SET last_seen = ? WHERE id = ?", time.Now().UTC().Unix(), userID)
	return errors.Wrap(err, "update last_seen")
}

func queryPosts(db *sql.DB, query string, args ...interface{}) ([]Post, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query posts")
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Body, &p.Timestamp, &p.UserID, &p.Username, &p.Email); err != nil {
			return nil, errors.Wrap(err, "scan post")
		}
		posts = append(posts, p)
	}
	return posts, errors.Wrap(rows.Err(), "iterate posts")
}
