package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/application"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// InputField represents a single input field with label and textinput
type InputField struct {
	Label    string
	Input    textinput.Model
	Validate func(string) error // Optional; runs on the trimmed value
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Title        string
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
	Err          string
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(title string, fields ...InputField) *InputForm {
	form := &InputForm{
		Title:  title,
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// WithValue returns the field prefilled with value
func (f InputField) WithValue(value string) InputField {
	f.Input.SetValue(value)
	return f
}

// WithValidator returns the field checked by fn on submit
func (f InputField) WithValidator(fn func(string) error) InputField {
	f.Validate = fn
	return f
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key was processed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, f.Keys.Tab) {
		f.NextField()
		return true, nil
	}

	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

// NextField moves focus to the next field
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.SetFocus((f.FocusedField + 1) % len(f.Fields))
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input.Blur()
	}
	f.FocusedField = index
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// Check runs every field validator. The first failure focuses its field,
// is recorded in Err and returned.
func (f *InputForm) Check() error {
	f.Err = ""
	for i, field := range f.Fields {
		if field.Validate == nil {
			continue
		}
		if err := field.Validate(f.Value(i)); err != nil {
			f.SetFocus(i)
			f.Err = err.Error()
			var ve *application.ValidationError
			if errors.As(err, &ve) {
				f.Err = ve.Message
			}
			return err
		}
	}
	return nil
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(field.Label))
	b.WriteString("\n")

	if index == f.FocusedField {
		b.WriteString(styles.InputFocused.Render(field.Input.View()))
	} else {
		b.WriteString(styles.InputField.Render(field.Input.View()))
	}

	return b.String()
}

// View renders the title, every field, the validation error and the help line
func (f *InputForm) View(submitText string) string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(styles.InputLabel.Render(f.Title))
		b.WriteString("\n\n")
	}
	for i := range f.Fields {
		b.WriteString(f.RenderField(i))
		b.WriteString("\n")
	}
	if f.Err != "" {
		b.WriteString(styles.ErrorMsg.Render(f.Err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(f.RenderHelp(submitText))
	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}
