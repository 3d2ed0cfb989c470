package main

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// App bundles the shared dependencies the handlers need. There is no
// ambient global state; everything reaches the database through the
// handle carried here.
type App struct {
	cfg   Config
	db    *sql.DB
	store *sessions.CookieStore
	log   *logrus.Logger
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig(log)

	db, err := openDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Opening database")
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.WithError(err).Fatal("Applying schema")
	}

	app := &App{
		cfg:   cfg,
		db:    db,
		store: newStore(cfg.SecretKey),
		log:   log,
	}

	log.WithField("addr", cfg.Addr).Info("Listening")
	if err := http.ListenAndServe(cfg.Addr, app.setupRouter()); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
