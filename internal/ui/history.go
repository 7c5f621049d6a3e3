package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/model"
)

// HistoryData feeds one history page.
type HistoryData struct {
	Snapshot history.Snapshot
	Inputs   filter.Inputs
	Location *time.Location

	// Notice is shown above the table, e.g. a rejected filter.
	Notice string
}

// HistoryPath is the UI path of a category's history.
func HistoryPath(c model.Category) string {
	return "/ui/history/" + url.PathEscape(string(c))
}

// HistoryPage renders the filter form, the records of the current page and the
// pagination controls of one category.
func HistoryPage(d HistoryData) Node {
	snap := d.Snapshot
	base := HistoryPath(snap.Category)

	return appPage(snap.Category.Label(), "history-"+string(snap.Category),
		filterCard(base, d.Inputs, snap),
		If(d.Notice != "", P(Class("alert alert-error"), ID("notice"), Text(d.Notice))),
		If(snap.Error != "", P(Class("alert alert-error"), ID("history-error"), Text(snap.Error))),
		Div(Class("card"), ID("history"),
			data.Signals(map[string]any{"q": ""}),
			Div(Class("toolbar"),
				Label(Text("Filtre rapide")),
				Input(Type("text"), data.Bind("q"), Placeholder("Filtrer par identifiant, type ou statut")),
				If(snap.Loading, Span(Class("loading"), Text("Chargement..."))),
			),
			recordsTable(snap.Records, d.Location, true),
			pager(base, snap),
		),
	)
}

func filterCard(base string, in filter.Inputs, snap history.Snapshot) Node {
	return Div(Class("card"), ID("filter"),
		Form(ID("filter-form"), Method("post"), Action(base+"/filter"),
			hiddenField("tz", ""),
			Label(For("date"), Text("Date")),
			Input(Type("date"), ID("date"), Name("date"), Value(in.Date)),
			Label(For("fromTime"), Text("De")),
			Input(Type("time"), ID("fromTime"), Name("fromTime"), Attr("step", "1"), Value(in.FromTime)),
			Label(For("toTime"), Text("À")),
			Input(Type("time"), ID("toTime"), Name("toTime"), Attr("step", "1"), Value(in.ToTime)),
			Button(Type("submit"), Class("btn"), Text("Filtrer")),
		),
		Form(ID("reset-form"), Method("post"), Action(base+"/reset"),
			Button(Type("submit"), Class("btn btn-secondary"), Text("Réinitialiser")),
		),
		If(snap.Filtered(), P(Class("muted"), ID("active-range"),
			Text(fmt.Sprintf("Filtre actif : %s → %s", snap.Range.From, snap.Range.To)))),
	)
}

func recordsTable(records []model.OperationRecord, loc *time.Location, quickFilter bool) Node {
	if len(records) == 0 {
		return P(Class("muted empty"), Text("Aucune opération"))
	}
	rows := make([]Node, 0, len(records))
	for _, r := range records {
		var show Node
		if quickFilter {
			show = data.Show(containsExpr(strings.Join([]string{r.ID, typeLabel(r.OperationType), statusLabel(r.Status), r.SourceType, r.TargetType}, " ")))
		}
		rows = append(rows, Tr(
			Attr("data-id", r.ID),
			show,
			Td(Text(formatTime(r.Timestamp, loc))),
			Td(Text(typeLabel(r.OperationType))),
			Td(statusBadge(r.Status)),
			Td(Text(r.SourceType)),
			Td(Text(r.TargetType)),
			Td(
				A(Href("/ui/operations/"+url.PathEscape(r.ID)), Class("details-link"), Text("Détails")),
				Text(" "),
				A(Href("/ui/operations/"+url.PathEscape(r.ID)+"/report"), Class("export-link"), Text("Export")),
			),
		))
	}
	return Table(
		THead(Tr(
			Th(Text("Date/Heure")), Th(Text("Type")), Th(Text("Statut")),
			Th(Text("Source")), Th(Text("Cible")), Th(Text("Actions")),
		)),
		TBody(Group(rows)),
	)
}

func pager(base string, snap history.Snapshot) Node {
	sizes := make([]string, 0, len(history.PageSizes))
	for _, n := range history.PageSizes {
		sizes = append(sizes, strconv.Itoa(n))
	}

	return Div(Class("pager"), ID("pager"),
		pageButton(base, snap.Page-1, "Précédent", snap.HasPrev()),
		Span(Class("page-info"), Textf("Page %d sur %d", snap.Page+1, snap.Pages())),
		pageButton(base, snap.Page+1, "Suivant", snap.HasNext()),
		Form(ID("size-form"), Method("post"), Action(base+"/size"),
			Label(For("size"), Text("Par page")),
			Select(ID("size"), Name("size"), options(sizes, strconv.Itoa(snap.Size))),
			Button(Type("submit"), Class("btn btn-small"), Text("OK")),
		),
	)
}

func pageButton(base string, page int, label string, enabled bool) Node {
	return Form(Method("post"), Action(base+"/page"), Class("page-form"),
		hiddenField("page", strconv.Itoa(page)),
		Button(Type("submit"), Class("btn btn-small"), If(!enabled, Disabled()), Text(label)),
	)
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}
