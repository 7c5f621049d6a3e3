// Package ui renders the dashboard pages with gomponents. Pages are plain server
// rendered HTML with form posts; datastar drives the client-side quick filters.
package ui

import (
	"net/http"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/raysh454/paydash/internal/model"
)

// TimezoneCookie carries the browser's IANA zone name, set by the layout script.
const TimezoneCookie = "paydash_tz"

type navItem struct {
	Label string
	Href  string
	Key   string
}

var navItems = []navItem{
	{Label: "Tableau de bord", Href: "/ui/dashboard", Key: "dashboard"},
	{Label: "Validation", Href: "/ui/validation", Key: "validation"},
	{Label: "Historique validation", Href: "/ui/history/validation", Key: "history-validation"},
	{Label: "Transformation", Href: "/ui/transformation", Key: "transformation"},
	{Label: "Historique transformation", Href: "/ui/history/transformation", Key: "history-transformation"},
	{Label: "Historique global", Href: "/ui/history/global", Key: "history-global"},
}

// tzScript stores the browser zone in a cookie and fills every hidden tz field, so
// filter times are read in the operator's zone.
const tzScript = `(function(){var z=Intl.DateTimeFormat().resolvedOptions().timeZone||"";` +
	`document.cookie="` + TimezoneCookie + `="+encodeURIComponent(z)+";path=/;SameSite=Lax";` +
	`document.querySelectorAll('input[name="tz"]').forEach(function(i){i.value=z;});})();`

func appPage(title, active string, body ...Node) Node {
	nav := make([]Node, 0, len(navItems))
	for _, item := range navItems {
		className := "nav-link"
		if item.Key == active {
			className += " active"
		}
		nav = append(nav, A(Href(item.Href), Class(className), Text(item.Label)))
	}

	return Doctype(HTML(
		Lang("fr"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Paiements")),
			Link(Rel("icon"), Href("data:,")),
			StyleEl(Raw(baseCSS)),
			Script(
				Type("module"),
				Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"),
			),
		),
		Body(
			Main(Class("app-shell"),
				Aside(
					Class("app-sidebar"),
					Div(Class("brand"), Strong(Text("Interface de Validation Bancaire"))),
					Nav(Class("app-nav"), Group(nav)),
				),
				Section(
					Class("app-main"),
					Div(Class("topbar"), H1(Class("page-title"), Text(title))),
					Div(Class("content"), Group(body)),
				),
			),
			Script(Raw(tzScript)),
		),
	))
}

// ErrorPage renders a standalone error page.
func ErrorPage(title, message string) Node {
	return appPage(title, "",
		Div(Class("card"),
			P(Class("alert alert-error"), Text(message)),
			P(A(Href("/ui/dashboard"), Text("Retour au tableau de bord"))),
		),
	)
}

// Render writes node as an HTML response.
func Render(w http.ResponseWriter, status int, node Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func formatTime(ts model.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format("02/01/2006 15:04:05")
}

func statusLabel(s model.OperationStatus) string {
	switch s {
	case model.StatusSuccess:
		return "Succès"
	case model.StatusError:
		return "Erreur"
	case model.StatusPending:
		return "En cours"
	default:
		return string(s)
	}
}

func statusBadge(s model.OperationStatus) Node {
	return Span(Class("badge badge-"+string(s)), Text(statusLabel(s)))
}

func typeLabel(t model.OperationType) string {
	switch t {
	case model.OperationValidation:
		return "Validation"
	case model.OperationTransformation:
		return "Transformation"
	default:
		return string(t)
	}
}

func hiddenField(name, value string) Node {
	return Input(Type("hidden"), Name(name), Value(value))
}

func errorList(records []model.ErrorRecord) Node {
	if len(records) == 0 {
		return nil
	}
	items := make([]Node, 0, len(records))
	for _, rec := range records {
		line := ""
		if rec.Line != nil {
			line = " (ligne " + itoa(*rec.Line) + ")"
		}
		items = append(items, Li(
			Class("error-item severity-"+string(rec.Severity)),
			If(rec.Code != "", Strong(Class("error-code"), Text(rec.Code))),
			Span(Class("error-message"), Text(" "+rec.Message+line)),
		))
	}
	return Ul(Class("error-list"), Group(items))
}

const baseCSS = `
body{font-family:system-ui,sans-serif;margin:0;background:#fafaf7;color:#222}
.app-shell{display:flex;min-height:100vh}
.app-sidebar{width:240px;background:#fff;border-right:1px solid #eee;padding:1rem}
.app-nav{display:flex;flex-direction:column;gap:.25rem;margin-top:1rem}
.nav-link{color:#444;text-decoration:none;padding:.4rem .6rem;border-radius:6px}
.nav-link.active{background:#F55B3B;color:#fff}
.app-main{flex:1;padding:1.5rem}
.card{background:#fff;border:1px solid #f0e0c0;border-radius:8px;padding:1rem;margin-bottom:1rem}
.cards{display:grid;grid-template-columns:repeat(4,1fr);gap:1rem}
.badge{padding:.1rem .5rem;border-radius:999px;font-size:.8rem}
.badge-success{background:#d4edda}.badge-error{background:#f8d7da}.badge-pending{background:#fff3cd}
.alert-error{color:#721c24;background:#f8d7da;padding:.5rem}
.alert-success{color:#155724;background:#d4edda;padding:.5rem}
.severity-warning{color:#856404}.severity-error{color:#721c24}
table{width:100%;border-collapse:collapse}th,td{text-align:left;padding:.4rem;border-bottom:1px solid #eee}
pre{white-space:pre-wrap;background:#f6f6f6;padding:.5rem;max-height:24rem;overflow:auto}
.pager{display:flex;gap:.5rem;align-items:center}
`
