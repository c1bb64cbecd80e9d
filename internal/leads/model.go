package leads

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/nestinghomes/nestinghomes-web/internal/apperror"
)

// DefaultSource tags leads that came in through the website form.
const DefaultSource = "website"

// Lead represents a lead submission from the contact form
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=300"`
	Message string `json:"message" validate:"max=5000"`
	Source  string `json:"source,omitempty" validate:"max=64"`
}

// Normalize trims whitespace and fills in the default source.
func (r *CreateLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = strings.TrimSpace(r.Source)
	if r.Source == "" {
		r.Source = DefaultSource
	}
}

// Validate validates the create lead request. Failures are *apperror.ValidationError.
func (r *CreateLeadRequest) Validate() error {
	return apperror.Validate(r)
}

// Fingerprint identifies the lead content for duplicate detection.
// Case and surrounding whitespace do not change it.
func (r *CreateLeadRequest) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{r.Email, r.Name, r.Phone, r.Address, r.Message} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (r *CreateLeadRequest) toLead(id string, createdAt time.Time) *Lead {
	return &Lead{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Message:   r.Message,
		Source:    r.Source,
		CreatedAt: createdAt,
	}
}
