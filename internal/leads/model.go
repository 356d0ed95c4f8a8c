package leads

import (
	"strings"
	"time"
)

// Action is the intent behind a lead.
type Action string

const (
	ActionBuy     Action = "buy"
	ActionRent    Action = "rent"
	ActionContact Action = "contact"
	ActionService Action = "service"
)

// DefaultSource tags leads whose form did not identify itself.
const DefaultSource = "website"

// Valid reports whether a is one of the known intents.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionRent, ActionContact, ActionService:
		return true
	}
	return false
}

// ParseAction normalizes raw form input into an Action.
func ParseAction(raw string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	return a, a.Valid()
}

// Lead represents a lead submission from a web form. Optional columns are nil
// when the visitor left them blank.
type Lead struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Message   *string   `json:"message"`
	Action    Action    `json:"action"`
	ProductID *string   `json:"product_id"`
	Source    string    `json:"source"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields are the raw values typed into a lead form.
type Fields struct {
	FullName string
	Phone    string
	Email    string
	Address  string
	Message  string
}

// SubmitRequest represents the request body for submitting a lead
type SubmitRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Message   string `json:"message"`
	Action    string `json:"action"`
	Source    string `json:"source"`
	ProductID string `json:"product_id"`
}

// Fields extracts the form fields from the request.
func (r *SubmitRequest) Fields() Fields {
	return Fields{
		FullName: r.FullName,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Message:  r.Message,
	}
}

// buildLead validates the form and produces the record handed to the store.
func buildLead(f Fields, action Action, source string, productID *string) (*Lead, error) {
	var missing []string
	fullName := strings.TrimSpace(f.FullName)
	if fullName == "" {
		missing = append(missing, "full_name")
	}
	phone := strings.TrimSpace(f.Phone)
	if phone == "" {
		missing = append(missing, "phone")
	}
	if !action.Valid() {
		missing = append(missing, "action")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	source = strings.TrimSpace(source)
	if source == "" {
		source = DefaultSource
	}

	var product *string
	if productID != nil {
		product = optional(*productID)
	}

	return &Lead{
		FullName:  fullName,
		Phone:     phone,
		Email:     optional(f.Email),
		Address:   optional(f.Address),
		Message:   optional(f.Message),
		Action:    action,
		ProductID: product,
		Source:    source,
	}, nil
}

// optional trims s and returns nil for blank input.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
