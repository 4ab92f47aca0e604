package users

import (
	"html/template"
	"net/http"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .SignUp}}Registrati{{else}}Accedi{{end}}</title>
</head>
<body>
<main>
  <h1>{{if .SignUp}}Crea un account{{else}}Accedi{{end}}</h1>
  {{if .Message}}<p role="alert">{{.Message}}</p>{{end}}
  {{if .SignUp}}
  <form method="post" action="/auth/signup">
    <input type="email" name="email" placeholder="Email" required>
    <input type="password" name="password" placeholder="Password" minlength="8" required>
    <input type="password" name="confirm_password" placeholder="Conferma password" minlength="8" required>
    <button type="submit">Registrati</button>
  </form>
  <p><a href="/login?mode=signin">Hai già un account? Accedi</a></p>
  {{else}}
  <form method="post" action="/auth/signin">
    <input type="email" name="email" placeholder="Email" required>
    <input type="password" name="password" placeholder="Password" required>
    <button type="submit">Accedi</button>
  </form>
  <p><a href="/login?mode=signup">Non hai un account? Registrati</a></p>
  {{end}}
  {{if .Google}}<p><a href="/auth/oauth/google/start?mode={{if .SignUp}}signup{{else}}signin{{end}}">Continua con Google</a></p>{{end}}
</main>
</body>
</html>
`))

type loginView struct {
	SignUp  bool
	Message string
	Google  bool
}

// loginPageHandler godoc
// @Summary Página de login
// @Tags auth
// @Produce html
// @Param mode query string false "signin | signup"
// @Param message query string false "Mensaje a mostrar"
// @Success 200 {string} string "html"
// @Router /login [get]
func loginPageHandler(googleEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = loginTmpl.Execute(w, loginView{
			SignUp:  q.Get("mode") == "signup",
			Message: q.Get("message"),
			Google:  googleEnabled,
		})
	}
}
