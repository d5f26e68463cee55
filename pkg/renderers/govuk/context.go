package govuk

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/optionlist"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
)

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
}

type summaryItem struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

type fieldView struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Value string `json:"value"`
	Error string `json:"error"`
	Index int    `json:"index"`
}

type choiceView struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Checked     bool   `json:"checked"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type stepView struct {
	Step     string               `json:"step"`
	Editing  bool                 `json:"editing"`
	Action   string               `json:"action"`
	Summary  []summaryItem        `json:"summary"`
	Fields   map[string]fieldView `json:"fields"`
	Optional bool                 `json:"optional"`
	Options  []fieldView          `json:"options"`
	Choices  []choiceView         `json:"choices"`
	Hidden   []hiddenView         `json:"hidden"`
}

type moveView struct {
	Enabled   bool   `json:"enabled"`
	Direction string `json:"direction"`
}

type rowView struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Label      string     `json:"label"`
	Link       string     `json:"link"`
	MoveAction string     `json:"moveAction"`
	Moves      []moveView `json:"moves"`
}

type listView struct {
	Heading string       `json:"heading"`
	AddLink string       `json:"addLink"`
	Rows    []rowView    `json:"rows"`
	Hidden  []hiddenView `json:"hidden"`
}

func themeContext(options render.RenderOptions) themeView {
	cfg := options.Theme
	if cfg == nil {
		return themeView{Stylesheet: "/assets/" + StylesheetName}
	}
	view := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   render.CSSVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(render.AssetStylesheet)
	}
	if view.Stylesheet == "" {
		view.Stylesheet = "/assets/" + StylesheetName
	}
	return view
}

var stepFields = []string{
	draftstore.FieldTitle,
	draftstore.FieldHintText,
	draftstore.FieldDisplayText,
	draftstore.FieldResponseType,
	draftstore.FieldMaxWords,
}

func stepContext(step *render.StepView, extra map[string]string) stepView {
	values := map[string]string{
		draftstore.FieldTitle:        step.Values.FieldTitle,
		draftstore.FieldHintText:     step.Values.HintText,
		draftstore.FieldDisplayText:  step.Values.DisplayText,
		draftstore.FieldResponseType: step.Values.ResponseType,
		draftstore.FieldMaxWords:     step.Values.MaxWords,
	}

	view := stepView{
		Step:     step.Step,
		Editing:  step.Editing,
		Action:   step.Action,
		Fields:   make(map[string]fieldView, len(stepFields)),
		Optional: step.Values.Optional == "true",
		Hidden:   hiddenContext(step.Hidden, extra),
	}
	for _, name := range stepFields {
		view.Fields[name] = field(step, name, values[name], 0)
	}
	for i, value := range step.Values.Options {
		view.Options = append(view.Options, field(step, optionlist.InputName(i), value, i))
	}
	for _, c := range step.Choices {
		view.Choices = append(view.Choices, choiceView{
			Value:       c.Value,
			Label:       c.Label,
			Description: c.Description,
			Checked:     c.Value == step.Values.ResponseType,
		})
	}
	for _, fe := range step.Errors {
		view.Summary = append(view.Summary, summaryItem{
			Href: "#" + gotemplate.FieldID(fe.FieldName),
			Text: fe.ErrorMessage,
		})
	}
	return view
}

func field(step *render.StepView, name, value string, index int) fieldView {
	return fieldView{
		Name:  name,
		ID:    gotemplate.FieldID(name),
		Value: value,
		Error: strings.Join(step.FieldMessages(name), " "),
		Index: index,
	}
}

func sectionContext(section *render.SectionView, extra map[string]string) listView {
	view := listView{
		Heading: section.SectionTitle,
		AddLink: section.AddQuestionLink,
		Hidden:  hiddenContext(section.Hidden, extra),
	}
	for _, q := range section.Questions {
		view.Rows = append(view.Rows, rowView{
			ID:         q.QuestionID,
			Title:      q.Title,
			Label:      q.ResponseTypeLabel,
			Link:       q.EditLink,
			MoveAction: q.MoveAction,
			Moves:      moves(q.Up, q.Down),
		})
	}
	return view
}

func dashboardContext(dashboard *render.DashboardView, extra map[string]string) listView {
	view := listView{
		Heading: dashboard.ApplicationName,
		Hidden:  hiddenContext(dashboard.Hidden, extra),
	}
	for _, s := range dashboard.Sections {
		view.Rows = append(view.Rows, rowView{
			ID:         s.SectionID,
			Title:      s.Title,
			Link:       s.Link,
			MoveAction: s.MoveAction,
			Moves:      moves(s.Up, s.Down),
		})
	}
	return view
}

// moves lists only the enabled controls; disabled ones are not rendered.
func moves(controls ...render.MoveControl) []moveView {
	var out []moveView
	for _, c := range controls {
		if c.Enabled {
			out = append(out, moveView{Enabled: true, Direction: c.Direction})
		}
	}
	return out
}

func hiddenContext(fields []render.HiddenField, extra map[string]string) []hiddenView {
	merged := render.WithHidden(fields, extra)
	out := make([]hiddenView, 0, len(merged))
	for _, f := range merged {
		out = append(out, hiddenView{Name: f.Name, Value: f.Value})
	}
	return out
}
