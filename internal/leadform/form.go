package leadform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nestinghomes/nestinghomes-web/internal/apperror"
)

// Field names accepted by Form.Update.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldMessage = "message"
)

// Fields lists every form field in display order.
var Fields = []string{FieldName, FieldEmail, FieldPhone, FieldAddress, FieldMessage}

var (
	// ErrUnknownField is returned when Update is called with a field the form does not have.
	ErrUnknownField = errors.New("leadform: unknown field")

	// ErrSubmitInFlight is returned when a submit is attempted while another is pending.
	ErrSubmitInFlight = errors.New("leadform: submission already in flight")

	// ErrAlreadySubmitted is returned when a submitted form is submitted again.
	ErrAlreadySubmitted = errors.New("leadform: form already submitted")
)

// State is the position of a form in the submission flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LeadForm is the snapshot of a form that goes over the wire.
// Optional fields are sent as empty strings.
type LeadForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Message string `json:"message"`
}

// Form holds the contact form fields for one page view.
type Form struct {
	mu     sync.Mutex
	fields map[string]string
	state  State
}

// NewForm returns an empty, idle form.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Update sets one field. Other fields are untouched and no validation runs.
// Editing a failed form makes it idle again.
func (f *Form) Update(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.fields[field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.fields[field] = value
	if f.state == StateFailed {
		f.state = StateIdle
	}
	return nil
}

// Value returns the current value of a field, or "" for unknown fields.
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[field]
}

// Snapshot copies the current field values.
func (f *Form) Snapshot() LeadForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() LeadForm {
	return LeadForm{
		Name:    f.fields[FieldName],
		Email:   f.fields[FieldEmail],
		Phone:   f.fields[FieldPhone],
		Address: f.fields[FieldAddress],
		Message: f.fields[FieldMessage],
	}
}

// State returns the current submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submitted reports whether the form reached its terminal state.
func (f *Form) Submitted() bool {
	return f.State() == StateSubmitted
}

// Reset clears every field and returns the form to idle.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = make(map[string]string, len(Fields))
	for _, name := range Fields {
		f.fields[name] = ""
	}
	f.state = StateIdle
}

// Validate runs the checks a form front end applies before it lets the user
// submit: name present, email present and well formed. The submission client
// itself does not call this.
func (f *Form) Validate() error {
	return apperror.Validate(f.Snapshot())
}

// begin moves the form into Submitting and returns the snapshot to send.
func (f *Form) begin() (LeadForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateSubmitting:
		return LeadForm{}, ErrSubmitInFlight
	case StateSubmitted:
		return LeadForm{}, ErrAlreadySubmitted
	}
	f.state = StateSubmitting
	return f.snapshotLocked(), nil
}

// finish records the outcome of the in-flight submission.
func (f *Form) finish(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ok {
		f.state = StateSubmitted
		return
	}
	f.state = StateFailed
}
