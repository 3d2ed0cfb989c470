package main

import (
	"crypto/md5"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const defaultAvatarSize = 48

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(bytes), nil
}

// setPassword overwrites the user's credential with a salted one-way
// hash of password. The previous credential is unrecoverable.
func setPassword(db *sql.DB, user *User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.Exec("UPDATE user SET password_hash = ? WHERE id = ?", hash, user.ID); err != nil {
		return errors.Wrap(err, "store password hash")
	}
	user.PasswordHash = hash
	return nil
}

// checkPassword reports whether password matches the stored hash.
// bcrypt's comparison is constant-time with respect to the hash.
func checkPassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// avatarURL derives a gravatar identicon URL from the email, scaled to
// size pixels. Non-positive sizes fall back to the default.
func avatarURL(email string, size int) string {
	if size <= 0 {
		size = defaultAvatarSize
	}
	h := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", h, size)
}
