package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (app *App) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(app.logRequests)
	r.Use(app.trackLastSeen)

	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	r.HandleFunc("/", app.timelineHandler).Methods("GET")
	r.HandleFunc("/public", app.publicTimelineHandler).Methods("GET")
	r.HandleFunc("/login", app.loginHandler).Methods("GET", "POST")
	r.HandleFunc("/register", app.registerHandler).Methods("GET", "POST")
	r.HandleFunc("/logout", app.logoutHandler).Methods("GET")
	r.HandleFunc("/add_message", app.addMessageHandler).Methods("POST")
	r.HandleFunc("/edit_profile", app.editProfileHandler).Methods("GET", "POST")
	r.HandleFunc("/{username}", app.userTimelineHandler).Methods("GET")
	r.HandleFunc("/{username}/follow", app.followHandler).Methods("GET")
	r.HandleFunc("/{username}/unfollow", app.unfollowHandler).Methods("GET")
	return r
}

func (app *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		app.log.WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("Request")
	})
}

// trackLastSeen records activity for logged-in users before the
// handler runs, like the original's before-request hook.
func (app *App) trackLastSeen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := app.currentUser(r); user != nil {
			if err := touchLastSeen(app.db, user.ID); err != nil {
				app.log.WithError(err).Error("Updating last seen")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GET / — personal timeline (redirect to /public if not logged in)
func (app *App) timelineHandler(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/public", http.StatusFound)
		return
	}

	page := pageParam(r)
	posts, err := followedPosts(app.db, user.ID, page, app.cfg.PerPage)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.render(w, r, "timeline.html", map[string]interface{}{
		"Posts":       postViews(posts),
		"CurrentUser": user,
		"IsTimeline":  true,
		"Page":        page,
	})
}

// GET /public — everyone's posts
func (app *App) publicTimelineHandler(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	posts, err := publicPosts(app.db, page, app.cfg.PerPage)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.render(w, r, "timeline.html", map[string]interface{}{
		"Posts":    postViews(posts),
		"IsPublic": true,
		"Page":     page,
	})
}

// GET /{username} — profile page with that user's posts
func (app *App) userTimelineHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profileUser, err := getUserByUsername(app.db, username)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if profileUser == nil {
		http.NotFound(w, r)
		return
	}

	followed := false
	if currentUser := app.currentUser(r); currentUser != nil {
		followed, err = isFollowing(app.db, currentUser.ID, profileUser.ID)
		if err != nil {
			app.serverError(w, err)
			return
		}
	}

	nFollowers, err := followerCount(app.db, profileUser.ID)
	if err != nil {
		app.serverError(w, err)
		return
	}
	nFollowing, err := followingCount(app.db, profileUser.ID)
	if err != nil {
		app.serverError(w, err)
		return
	}

	page := pageParam(r)
	posts, err := postsByUser(app.db, profileUser.ID, page, app.cfg.PerPage)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.render(w, r, "timeline.html", map[string]interface{}{
		"Posts":          postViews(posts),
		"IsUser":         true,
		"ProfileUser":    profileUser,
		"ProfileAvatar":  avatarURL(profileUser.Email, 128),
		"LastSeen":       datetimeformat(profileUser.LastSeen),
		"Followed":       followed,
		"FollowerCount":  nFollowers,
		"FollowingCount": nFollowing,
		"Page":           page,
	})
}

// GET /{username}/follow
func (app *App) followHandler(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	target, err := getUserByUsername(app.db, username)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if target == nil {
		http.NotFound(w, r)
		return
	}

	if err := followUser(app.db, user.ID, target.ID); err != nil {
		app.serverError(w, err)
		return
	}
	app.addFlash(w, r, fmt.Sprintf("You are now following \"%s\"", username))
	http.Redirect(w, r, "/"+username, http.StatusFound)
}

// GET /{username}/unfollow
func (app *App) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	target, err := getUserByUsername(app.db, username)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if target == nil {
		http.NotFound(w, r)
		return
	}

	if err := unfollowUser(app.db, user.ID, target.ID); err != nil {
		app.serverError(w, err)
		return
	}
	app.addFlash(w, r, fmt.Sprintf("You are no longer following \"%s\"", username))
	http.Redirect(w, r, "/"+username, http.StatusFound)
}

// POST /add_message
func (app *App) addMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body := r.FormValue("text")
	switch _, err := createPost(app.db, user.ID, body); err {
	case nil:
		app.addFlash(w, r, "Your message was recorded")
	case errEmptyBody:
		// silently ignore empty submissions, like the original
	case errBodyTooLong:
		app.addFlash(w, r, "Your message is too long")
	default:
		app.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// GET + POST /login
func (app *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	errorMsg := ""
	if r.Method == "POST" {
		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := getUserByUsername(app.db, username)
		if err != nil {
			app.serverError(w, err)
			return
		}

		if user == nil {
			errorMsg = "Invalid username"
		} else if !checkPassword(user, password) {
			errorMsg = "Invalid password"
		} else {
			app.signIn(w, r, user)
			app.addFlash(w, r, "You were logged in")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	app.render(w, r, "login.html", map[string]interface{}{
		"Error": errorMsg,
	})
}

// GET + POST /register
func (app *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	errorMsg := ""
	if r.Method == "POST" {
		username := r.FormValue("username")
		email := r.FormValue("email")
		password := r.FormValue("password")
		password2 := r.FormValue("password2")

		existing, err := getUserByUsername(app.db, username)
		if err != nil {
			app.serverError(w, err)
			return
		}

		if username == "" {
			errorMsg = "You have to enter a username"
		} else if email == "" || !strings.Contains(email, "@") {
			errorMsg = "You have to enter a valid email address"
		} else if password == "" {
			errorMsg = "You have to enter a password"
		} else if password != password2 {
			errorMsg = "The two passwords do not match"
		} else if existing != nil {
			errorMsg = "The username is already taken"
		} else {
			if _, err := createUser(app.db, username, email, password); err != nil {
				app.serverError(w, err)
				return
			}
			app.addFlash(w, r, "You were successfully registered and can login now")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
	}

	app.render(w, r, "register.html", map[string]interface{}{
		"Error": errorMsg,
	})
}

// GET + POST /edit_profile
func (app *App) editProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	errorMsg := ""
	if r.Method == "POST" {
		about := r.FormValue("about_me")
		switch err := updateAboutMe(app.db, user.ID, about); err {
		case nil:
			app.addFlash(w, r, "Your changes have been saved")
			http.Redirect(w, r, "/"+user.Username, http.StatusFound)
			return
		case errAboutTooLong:
			errorMsg = "About me must be at most 140 characters"
		default:
			app.serverError(w, err)
			return
		}
	}

	app.render(w, r, "edit_profile.html", map[string]interface{}{
		"CurrentUser": user,
		"Error":       errorMsg,
	})
}

// GET /logout
func (app *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.signOut(w, r)
	app.addFlash(w, r, "You were logged out")
	http.Redirect(w, r, "/public", http.StatusFound)
}

func (app *App) serverError(w http.ResponseWriter, err error) {
	app.log.WithError(err).Error("Handler failure")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
