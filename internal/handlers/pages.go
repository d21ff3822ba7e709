package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/polarisml/console-gateway/internal/session"
)

// Pages serves the console shells. The shells are deliberately thin: all
// data rendering happens client-side against the /api endpoints.
var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} · Polaris ML</title>
  <link rel="stylesheet" href="/static/console.css">
</head>
<body data-page="{{.Page}}">
  <div id="root">
    <header class="topbar">{{if .UserName}}<span class="user">{{.UserName}}</span>{{end}}</header>
    <main>
      <h1>{{.Title}}</h1>
      {{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
    </main>
  </div>
  <script src="/static/console.js" defer></script>
</body>
</html>
`))

type shellData struct {
	Title    string
	Page     string
	UserName string
	Notice   string
}

func renderShell(w http.ResponseWriter, data shellData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellTemplate.Execute(w, data); err != nil {
		log.Printf("handlers: render %s: %v", data.Page, err)
	}
}

// Marketing serves the public landing page.
func Marketing(w http.ResponseWriter, r *http.Request) {
	renderShell(w, shellData{Title: "Build models without code", Page: "marketing"})
}

// SignInPage serves the sign-in form. A reason=expired query (set by the
// forced sign-out redirect) surfaces a notice the core otherwise keeps
// silent.
func SignInPage(w http.ResponseWriter, r *http.Request) {
	data := shellData{Title: "Sign in", Page: "signin"}
	if r.URL.Query().Get("reason") == "expired" {
		data.Notice = "Your session expired. Please sign in again."
	}
	renderShell(w, data)
}

// SignUpPage serves the sign-up form.
func SignUpPage(w http.ResponseWriter, r *http.Request) {
	renderShell(w, shellData{Title: "Create your account", Page: "signup"})
}

// ConsoleShell serves a protected section shell. The protected guard has
// already injected the user.
func ConsoleShell(title, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := shellData{Title: title, Page: page}
		if u := session.UserFromContext(r.Context()); u != nil {
			data.UserName = u.Name
		}
		renderShell(w, data)
	}
}
