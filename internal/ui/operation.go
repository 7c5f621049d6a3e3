package ui

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/raysh454/paydash/internal/errnorm"
	"github.com/raysh454/paydash/internal/model"
)

// OperationPage renders every field of one operation with its errors normalized.
func OperationPage(rec model.OperationRecord, loc *time.Location) Node {
	errs := errnorm.NormalizeLoose(rec.Errors)

	return appPage("Opération "+rec.ID, "",
		Div(Class("card"), ID("operation"),
			Dl(Class("info-grid"), Group(infoRows(rec, loc))),
			P(
				A(Href("/ui/operations/"+url.PathEscape(rec.ID)+"/report"), Class("btn export-link"), Text("Exporter le rapport")),
			),
		),
		If(len(errs) > 0, Div(Class("card"), ID("operation-errors"),
			H3(Text("Erreurs détectées")),
			errorList(errs),
		)),
		If(rec.InputXML != "", Div(Class("card"), ID("operation-input"),
			H3(Text("Contenu XML d'entrée")),
			Pre(Text(rec.InputXML)),
		)),
		If(rec.OutputContent != "", Div(Class("card"), ID("operation-output"),
			H3(Text("Contenu de sortie")),
			Pre(Text(rec.OutputContent)),
		)),
	)
}

func infoRows(rec model.OperationRecord, loc *time.Location) []Node {
	rows := []Node{
		Dt(Text("ID Opération")), Dd(Text(rec.ID)),
		Dt(Text("Type")), Dd(Text(typeLabel(rec.OperationType))),
		Dt(Text("Source")), Dd(Text(rec.SourceType)),
		Dt(Text("Cible")), Dd(Text(rec.TargetType)),
		Dt(Text("Date/Heure")), Dd(Text(formatTime(rec.Timestamp, loc))),
		Dt(Text("Statut")), Dd(statusBadge(rec.Status)),
	}
	if rec.Duration != nil {
		rows = append(rows, Dt(Text("Durée")), Dd(Text(strconv.FormatInt(*rec.Duration, 10)+" ms")))
	}
	if rec.BIC != "" {
		rows = append(rows, Dt(Text("BIC")), Dd(Text(rec.BIC)))
	}
	if rec.UserID != "" {
		rows = append(rows, Dt(Text("Utilisateur")), Dd(Text(rec.UserID)))
	}
	if rec.Details != "" {
		rows = append(rows, Dt(Text("Détails")), Dd(Text(rec.Details)))
	}
	return rows
}

// ReportFilename is the download name of an operation report.
func ReportFilename(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return "operation-" + safe + "-rapport.html"
}

// ReportPage renders a self-contained printable report of one operation.
func ReportPage(rec model.OperationRecord, loc *time.Location, generatedAt time.Time) Node {
	if loc == nil {
		loc = time.Local
	}
	status := "❌ Erreur"
	if rec.Status == model.StatusSuccess {
		status = "✅ Succès"
	}
	rawErrors := strings.TrimSpace(string(rec.Errors))
	if rec.HasErrors() {
		if s, err := strconv.Unquote(rawErrors); err == nil {
			rawErrors = s
		}
	}

	return Doctype(HTML(
		Lang("fr"),
		Head(
			Meta(Charset("utf-8")),
			TitleEl(Text("Opération "+rec.ID+" - Rapport")),
			StyleEl(Raw(reportCSS)),
		),
		Body(
			Div(Class("header"),
				H1(Text("📋 Rapport d'Opération")),
				P(Text("ID: "+rec.ID+" | Type: "+string(rec.OperationType))),
			),
			Div(Class("info-section"),
				H2(Text("Informations Générales")),
				Dl(Class("info-grid"),
					Dt(Text("ID Opération")), Dd(Text(rec.ID)),
					Dt(Text("Type")), Dd(Text(string(rec.OperationType))),
					Dt(Text("Source")), Dd(Text(rec.SourceType)),
					Dt(Text("Cible")), Dd(Text(rec.TargetType)),
					Dt(Text("Date/Heure")), Dd(Text(formatTime(rec.Timestamp, loc))),
					Dt(Text("Statut")), Dd(Span(Class("status-"+string(rec.Status)), Text(status))),
				),
			),
			If(rec.HasErrors(), Div(Class("info-section errors"),
				H2(Text("⚠️ Erreurs Détectées")),
				Pre(Class("xml-content"), Text(rawErrors)),
			)),
			If(rec.InputXML != "", Div(Class("xml-section"),
				H2(Text("📄 Contenu XML d'Entrée")),
				Pre(Class("xml-content"), Text(rec.InputXML)),
			)),
			If(rec.OutputContent != "", Div(Class("xml-section"),
				H2(Text("📤 Contenu de Sortie")),
				Pre(Class("xml-content"), Text(rec.OutputContent)),
			)),
			Div(Class("footer"),
				P(Strong(Text("Rapport généré le: ")), Text(generatedAt.In(loc).Format("02/01/2006 15:04:05"))),
				P(Strong(Text("Système: ")), Text("Interface de Validation Bancaire")),
				P(Strong(Text("Opération ID: ")), Text(rec.ID)),
			),
		),
	))
}

const reportCSS = `
body{font-family:Arial,sans-serif;margin:20px;color:#333;line-height:1.6}
.header{text-align:center;border-bottom:3px solid #F55B3B;padding-bottom:20px;margin-bottom:30px}
.info-section{background:#f8f9fa;padding:20px;border-radius:8px;margin-bottom:20px}
.info-grid{display:grid;grid-template-columns:150px 1fr;gap:10px}
.xml-content{background:#f4f4f4;padding:15px;font-family:monospace;font-size:12px;white-space:pre-wrap}
.errors .xml-content{color:#721c24;background:#f8d7da}
.status-success{color:#28a745;font-weight:bold}.status-error{color:#dc3545;font-weight:bold}
.footer{margin-top:40px;text-align:center;font-size:12px;color:#666}
`
