package render

// Template names, one per page kind.
const (
	TemplateQuestionContent = "question-content"
	TemplateQuestionType    = "question-type"
	TemplateQuestionOptions = "question-options"
	TemplateAddWordCount    = "add-word-count"
	TemplateSection         = "section"
	TemplateDashboard       = "dashboard"
	TemplateServiceError    = "service-error"
)

// Page is the view model of one screen. Exactly one of the view pointers is
// set and it matches Template.
type Page struct {
	Template string
	Title    string
	BackLink string

	Step         *StepView
	Section      *SectionView
	Dashboard    *DashboardView
	ServiceError *ServiceErrorView
}

// QuestionValues pre-populate a step form.
type QuestionValues struct {
	FieldTitle     string
	HintText       string
	DisplayText    string
	QuestionSuffix string
	ResponseType   string
	Optional       string
	MaxWords       string
	Options        []string
}

// ResponseTypeChoice is one radio option on the type step.
type ResponseTypeChoice struct {
	Value       string
	Label       string
	Description string
}

// StepView is a wizard step form.
type StepView struct {
	Step     string
	Editing  bool
	Action   string
	Values   QuestionValues
	Errors   []FieldError
	Messages map[string][]string
	Choices  []ResponseTypeChoice
	Hidden   []HiddenField
}

// HasErrors reports whether the step carries validation errors.
func (v *StepView) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// FieldMessages returns the messages attached to name.
func (v *StepView) FieldMessages(name string) []string {
	if v == nil {
		return nil
	}
	return v.Messages[name]
}

// MoveControl is one reorder button.
type MoveControl struct {
	Enabled   bool
	Direction string
}

// QuestionRow is a question listed on the section page.
type QuestionRow struct {
	QuestionID        string
	Title             string
	ResponseTypeLabel string
	EditLink          string
	MoveAction        string
	Up                MoveControl
	Down              MoveControl
}

// SectionView lists a section's questions with reorder controls.
type SectionView struct {
	AppID           string
	SectionID       string
	SectionTitle    string
	AddQuestionLink string
	Questions       []QuestionRow
	Hidden          []HiddenField
}

// SectionRow is a section listed on the dashboard.
type SectionRow struct {
	SectionID  string
	Title      string
	Link       string
	MoveAction string
	Up         MoveControl
	Down       MoveControl
}

// DashboardView lists the sections of an application form.
type DashboardView struct {
	AppID           string
	ApplicationName string
	Sections        []SectionRow
	Hidden          []HiddenField
}

// ServiceErrorView is the generic failure page.
type ServiceErrorView struct {
	Message  string
	LinkHref string
	LinkText string
}
