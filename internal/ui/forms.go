package ui

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/raysh454/paydash/internal/model"
)

// SourceTypes and TargetTypes are the formats offered by the validation form.
var (
	SourceTypes = []string{"pain.001.001.02", "pain.001.001.03"}
	TargetTypes = []string{"MT101"}
)

// ValidationForm is the content of the validation form.
type ValidationForm struct {
	SourceType string
	TargetType string
	XML        string
}

// ValidationPage renders the validation form and the last result, if any.
func ValidationPage(form ValidationForm, res *model.ValidationResult) Node {
	return appPage("Validation", "validation",
		Div(Class("card"),
			Form(ID("validation-form"), Method("post"), Action("/ui/validate"),
				Div(Class("field"),
					Label(For("sourceType"), Text("Type source")),
					Select(ID("sourceType"), Name("sourceType"), options(SourceTypes, form.SourceType)),
				),
				Div(Class("field"),
					Label(For("targetType"), Text("Type cible")),
					Select(ID("targetType"), Name("targetType"), options(TargetTypes, form.TargetType)),
				),
				Div(Class("field"),
					Label(For("xml"), Text("Contenu XML")),
					Textarea(ID("xml"), Name("xml"), Rows("14"),
						Placeholder("Collez votre fichier XML PAIN ici..."), Text(form.XML)),
				),
				Button(Type("submit"), Class("btn btn-primary"), Text("Valider")),
			),
		),
		validationResult(res),
	)
}

func validationResult(res *model.ValidationResult) Node {
	if res == nil {
		return nil
	}
	if res.Error != "" {
		return Div(Class("card result"), ID("validation-result"),
			P(Class("alert alert-error"), Text(res.Error)))
	}
	if res.Success {
		return Div(Class("card result"), ID("validation-result"),
			P(Class("alert alert-success"), Text("Document valide")),
			If(res.Message != "", Pre(Text(res.Message))),
		)
	}
	return Div(Class("card result"), ID("validation-result"),
		P(Class("alert alert-error"), Textf("Validation échouée (HTTP %d)", res.Status)),
		errorList(res.Errors),
		If(len(res.Errors) == 0 && res.Message != "", Pre(Text(res.Message))),
	)
}

// TransformationPage renders the pain.001 to MT101 form and the last result.
func TransformationPage(input string, res *model.TransformationResult) Node {
	return appPage("Transformation", "transformation",
		Div(Class("card"),
			Form(ID("transformation-form"), Method("post"), Action("/ui/transform"),
				Div(Class("field"),
					Label(For("painXml"), Text("Contenu XML PAIN")),
					Textarea(ID("painXml"), Name("painXml"), Rows("14"),
						Placeholder("Collez votre fichier XML PAIN ici..."), Text(input)),
				),
				Button(Type("submit"), Class("btn btn-primary"), Text("Transformer en MT101")),
			),
		),
		transformationResult(res),
	)
}

func transformationResult(res *model.TransformationResult) Node {
	if res == nil {
		return nil
	}
	return Div(Class("card result"), ID("transformation-result"),
		If(res.BackendMessage != "", P(Class("backend-message"), Text(res.BackendMessage))),
		If(res.Error != "", Div(
			P(Class("alert alert-error"), Text("Erreur de transformation")),
			errorList(res.Errors),
			If(len(res.Errors) == 0, Pre(Text(res.Error))),
		)),
		If(res.Succeeded(), Div(
			H3(Text("Résultat MT101")),
			Pre(ID("mt101-output"), Text(res.Output)),
		)),
	)
}

func options(values []string, selected string) Node {
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		if v == selected {
			nodes = append(nodes, Option(Value(v), Selected(), Text(v)))
			continue
		}
		nodes = append(nodes, Option(Value(v), Text(v)))
	}
	return Group(nodes)
}
