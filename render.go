package main

import (
	"net/http"
	"time"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
)

// postView is a Post flattened to display strings for the templates.
type postView struct {
	Body     string
	Username string
	Avatar   string
	When     string
}

func datetimeformat(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 @ 15:04")
}

func postViews(posts []Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{
			Body:     p.Body,
			Username: p.Username,
			Avatar:   avatarURL(p.Email, defaultAvatarSize),
			When:     datetimeformat(p.Timestamp),
		})
	}
	return views
}

func (app *App) render(w http.ResponseWriter, r *http.Request, templateFile string, data map[string]interface{}) {
	if _, ok := data["CurrentUser"]; !ok {
		if user := app.currentUser(r); user != nil {
			data["CurrentUser"] = user
		} else {
			data["CurrentUser"] = nil
		}
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = app.getFlashes(w, r)
	}

	tpl, err := gonja.FromFile("templates/" + templateFile)
	if err != nil {
		app.log.WithError(err).WithField("template", templateFile).Error("Parsing template")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tpl.Execute(w, exec.NewContext(data)); err != nil {
		app.log.WithError(err).WithField("template", templateFile).Error("Rendering template")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
