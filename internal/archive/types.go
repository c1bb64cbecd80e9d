package archive

import "time"

// LeadRecord is the JSON document written to S3 for every captured lead.
type LeadRecord struct {
	Version    string    `json:"version"` // "1.0"
	LeadID     string    `json:"lead_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Message    string    `json:"message,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
	ArchivedAt time.Time `json:"archived_at"`
}

// ManifestEntry is one JSONL line in the monthly manifest file.
// It carries no raw contact details.
type ManifestEntry struct {
	LeadID     string `json:"lead_id"`
	S3Key      string `json:"s3_key"`
	Source     string `json:"source"`
	EmailHash  string `json:"email_hash"`
	HasPhone   bool   `json:"has_phone"`
	HasAddress bool   `json:"has_address"`
	Preview    string `json:"preview,omitempty"`
	ArchivedAt string `json:"archived_at"`
}
