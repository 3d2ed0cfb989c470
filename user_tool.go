//go:build ignore

package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const userToolDoc = `Microblog Admin Tool

Usage:
  user_tool <post_id>...
  user_tool -u
  user_tool -i
  user_tool -h
Options:
  -h            Show this screen.
  -u            Dump all users to STDOUT.
  -i            Dump all posts and authors to STDOUT.`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(userToolDoc)
		return
	}

	path := os.Getenv("DATABASE")
	if path == "" {
		path = "/tmp/microblog.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't open database: %s\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch os.Args[1] {
	case "-h":
		fmt.Println(userToolDoc)
	case "-u":
		rows, err := db.Query("SELECT id, username, email, last_seen FROM user")
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id, lastSeen int64
			var username, email string
			rows.Scan(&id, &username, &email, &lastSeen)
			fmt.Printf("%d,%s,%s,%d\n", id, username, email, lastSeen)
		}
	case "-i":
		rows, err := db.Query("SELECT id, user_id, body, timestamp FROM post")
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id, userID, ts int64
			var body string
			rows.Scan(&id, &userID, &body, &ts)
			fmt.Printf("%d,%d,%s,%d\n", id, userID, body, ts)
		}
	default:
		for _, arg := range os.Args[1:] {
			id, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid post ID: %s\n", arg)
				continue
			}
			_, err = db.Exec("DELETE FROM post WHERE id = ?", id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			} else {
				fmt.Printf("Removed post: %d\n", id)
			}
		}
	}
}
