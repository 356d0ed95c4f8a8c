package notify

import (
	"time"

	"github.com/vantrung/equipment-site/internal/leads"
)

// DefaultTimezone is the zone lead timestamps are shown in.
const DefaultTimezone = "Asia/Ho_Chi_Minh"

// TimestampLayout renders as "14:05:09 1/3/2026".
const TimestampLayout = "15:04:05 2/1/2006"

var actionLabels = map[leads.Action]string{
	leads.ActionContact: "Liên hệ tư vấn",
	leads.ActionRent:    "Yêu cầu thuê thiết bị",
	leads.ActionBuy:     "Yêu cầu mua hàng",
	leads.ActionService: "Yêu cầu dịch vụ",
}

// ActionLabel returns the Vietnamese display label for an action, or the raw
// value when the action is unknown.
func ActionLabel(action leads.Action) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return string(action)
}

// Payload is everything a staff notification shows about one lead.
type Payload struct {
	FullName    string
	Phone       string
	Email       string
	Address     string
	Message     string
	ProductName string
	Action      leads.Action
	ActionLabel string
	Source      string
	SentAt      time.Time
}

// NewPayload flattens a stored lead. Optional fields come through empty when
// absent so templates can skip them.
func NewPayload(lead *leads.Lead, productName string, sentAt time.Time) Payload {
	return Payload{
		FullName:    lead.FullName,
		Phone:       lead.Phone,
		Email:       deref(lead.Email),
		Address:     deref(lead.Address),
		Message:     deref(lead.Message),
		ProductName: productName,
		Action:      lead.Action,
		ActionLabel: ActionLabel(lead.Action),
		Source:      lead.Source,
		SentAt:      sentAt,
	}
}

// LoadLocation resolves name, falling back to a fixed UTC+7 zone when the
// tz database is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
