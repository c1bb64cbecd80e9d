package events

import "time"

const TypeLeadCreatedV1 = "lead.created.v1"

// LeadCreatedV1 is published to the lead queue after a lead is stored.
type LeadCreatedV1 struct {
	EventID   string    `json:"event_id"`
	LeadID    string    `json:"lead_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
