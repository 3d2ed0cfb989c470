package main

import (
	"net/http"

	"github.com/gorilla/sessions"
)

func newStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return s
}

// currentUser resolves the session's stored user id back to a User.
// Anything malformed — missing value, wrong type, an id that no longer
// exists — is treated as not logged in, never an error.
func (app *App) currentUser(r *http.Request) *User {
	session, _ := app.store.Get(r, "session")
	raw, ok := session.Values["user_id"]
	if !ok {
		return nil
	}
	var id int64
	switch v := raw.(type) {
	case int64:
		id = v
	case int:
		id = int64(v)
	default:
		return nil
	}
	user, err := getUserByID(app.db, id)
	if err != nil {
		app.log.WithError(err).Error("Loading session user")
		return nil
	}
	return user
}

func (app *App) signIn(w http.ResponseWriter, r *http.Request, user *User) {
	session, _ := app.store.Get(r, "session")
	session.Values["user_id"] = user.ID
	session.Save(r, w)
}

func (app *App) signOut(w http.ResponseWriter, r *http.Request) {
	session, _ := app.store.Get(r, "session")
	delete(session.Values, "user_id")
	session.Save(r, w)
}

func (app *App) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := app.store.Get(r, "session")
	session.AddFlash(message)
	session.Save(r, w)
}

func (app *App) getFlashes(w http.ResponseWriter, r *http.Request) []interface{} {
	session, _ := app.store.Get(r, "session")
	flashes := session.Flashes()
	session.Save(r, w)
	return flashes
}
