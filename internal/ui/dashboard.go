package ui

import (
	"fmt"
	"strconv"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/model"
)

// DashboardData feeds the dashboard page.
type DashboardData struct {
	Metrics     model.DashboardMetrics
	Recent      history.Snapshot
	Currencies  model.Breakdown
	CurrencyErr string
	Location    *time.Location
	RecentLimit int
}

// DashboardPage renders the metric cards, the outcome and type splits, the
// currency breakdown and the most recent operations of the global history.
func DashboardPage(d DashboardData) Node {
	m := d.Metrics
	limit := d.RecentLimit
	if limit <= 0 {
		limit = 5
	}
	recent := d.Recent.Records
	if len(recent) > limit {
		recent = recent[:limit]
	}

	return appPage("Tableau de bord", "dashboard",
		Div(Class("cards"),
			metricCard("Taux de Succès", strconv.Itoa(m.SuccessRate)+"%", "success-rate"),
			metricCard("Validations", strconv.Itoa(m.Validations), "validations"),
			metricCard("Transformations", strconv.Itoa(m.Transformations), "transformations"),
			metricCard("Total Opérations", strconv.Itoa(m.TotalOperations), "total"),
		),
		If(d.Recent.Error != "", P(Class("alert alert-error"), Text(d.Recent.Error))),
		Div(Class("card split"), ID("outcome-split"),
			H3(Text("Répartition Succès/Erreurs")),
			splitRow("Succès", m.Successes, m.SuccessRate),
			splitRow("Erreurs", m.Errors, m.ErrorRate),
		),
		Div(Class("card split"), ID("type-split"),
			H3(Text("Types d'Opérations")),
			splitRow("Validations", m.Validations, m.ValidationRate),
			splitRow("Transformations", m.Transformations, m.TransformationRate),
		),
		currencyCard(d.Currencies, d.CurrencyErr),
		Div(Class("card"), ID("recent"),
			H3(Text("Opérations récentes")),
			recordsTable(recent, d.Location, false),
		),
	)
}

func metricCard(label, value, key string) Node {
	return Div(Class("card metric"), Attr("data-metric", key),
		P(Class("metric-label"), Text(label)),
		Strong(Class("metric-value"), Text(value)),
	)
}

func splitRow(label string, count, rate int) Node {
	return P(Class("split-row"),
		Span(Class("split-label"), Text(fmt.Sprintf("%s (%d)", label, count))),
		Span(Class("split-rate"), Text(strconv.Itoa(rate)+"%")),
	)
}

func currencyCard(b model.Breakdown, errMsg string) Node {
	body := []Node{H3(Text("Répartition par devise"))}
	switch {
	case errMsg != "":
		body = append(body, P(Class("alert alert-error"), Text(errMsg)))
	case len(b.Slices) == 0:
		body = append(body, P(Class("muted"), Text("Aucune donnée")))
	default:
		rows := make([]Node, 0, len(b.Slices))
		for _, s := range b.Slices {
			rows = append(rows, Tr(
				Td(Text(s.Label)),
				Td(Text(strconv.Itoa(s.Count))),
				Td(Text(strconv.Itoa(s.Rounded)+"%")),
			))
		}
		body = append(body, Table(
			THead(Tr(Th(Text("Devise")), Th(Text("Nombre")), Th(Text("Part")))),
			TBody(Group(rows)),
		))
	}
	return Div(Class("card"), ID("currencies"), Group(body))
}

func itoa(n int) string { return strconv.Itoa(n) }
