package profile

import (
	"html/template"
	"io"

	"pet-tag/internal/domain/pets"
)

var pageFuncs = template.FuncMap{
	// html/template solo deja pasar http(s) y mailto; los tel: los armamos nosotros.
	"telURL": func(s string) template.URL { return template.URL(s) },
	"gender": func(g pets.Gender) string {
		switch g {
		case pets.GenderMale:
			return "Maschio"
		case pets.GenderFemale:
			return "Femmina"
		default:
			return "Non specificato"
		}
	},
}

var pageTmpl = template.Must(template.New("profile").Funcs(pageFuncs).Parse(`<!doctype html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Pet.Name}}</title>
</head>
<body data-scan-id="{{.ScanID}}">
<main>
  <h1>Ciao! Sono {{.Pet.Name}}</h1>
  {{if .Pet.Nickname}}<p>{{.Pet.Nickname}}</p>{{end}}
  {{if .Pet.City}}<p>{{.Pet.City}}{{if .Pet.Province}} ({{.Pet.Province}}){{end}}</p>{{end}}
  {{range .Pet.Photos}}<img src="{{.}}" alt="{{$.Pet.Name}}">{{end}}

  <section>
    <p>Sesso: {{gender .Pet.Gender}}</p>
    <p>Microchip: {{if .Pet.Microchip}}Sì{{else}}No{{end}}</p>
    <p>Cosa mi piace: {{or .Pet.Likes "-"}}</p>
    <p>Le mie paure: {{or .Pet.Fears "-"}}</p>
    <p>Note salute: {{or .Pet.HealthNotes "Nessuna condizione medica particolare"}}</p>
  </section>

  <section>
    <h2>Contatta il mio padrone</h2>
    {{range .Pet.Contacts}}
    <div>
      <p>{{.Name}}</p>
      {{if .TelURL}}<a href="{{telURL .TelURL}}">{{.Phone}}</a>{{end}}
      {{if .WhatsAppURL}}<a href="{{.WhatsAppURL}}" target="_blank" rel="noopener noreferrer">Apri WhatsApp</a>{{end}}
      {{if .MailURL}}<a href="{{.MailURL}}">{{.Email}}</a>{{end}}
    </div>
    {{else}}
    <p>Nessun contatto disponibile.</p>
    {{end}}
  </section>
</main>
<script>
(function () {
  if (!navigator.geolocation) return;
  // Con scan ya registrado se completa ese; si el registro falló, se crea uno.
  var scanID = {{.ScanID}};
  var url = "/p/" + encodeURIComponent({{.Pet.ID}}) + "/scans";
  if (scanID) url += "/" + encodeURIComponent(scanID);
  navigator.geolocation.getCurrentPosition(function (pos) {
    fetch(url, {
      method: scanID ? "PATCH" : "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({lat: pos.coords.latitude, lng: pos.coords.longitude})
    }).catch(function () {});
  }, function () {}, {timeout: {{.GeoTimeout}}, maximumAge: 0});
})();
</script>
</body>
</html>
`))

type pageView struct {
	Pet        View
	ScanID     string
	GeoTimeout int
}

func renderPage(w io.Writer, v View, scanID string) error {
	return pageTmpl.Execute(w, pageView{Pet: v, ScanID: scanID, GeoTimeout: GeoTimeout})
}
