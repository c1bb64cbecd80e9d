package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmptyListingsNotice is shown while no property is on the market.
const EmptyListingsNotice = "We currently have no active listings. Please check back soon for upcoming properties."

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// FooterLink is a footer navigation entry. Portals are placeholders for now.
type FooterLink struct {
	Label string
	Href  string
}

var footerLinks = []FooterLink{
	{Label: "Privacy", Href: "#"},
	{Label: "Terms", Href: "#"},
	{Label: "Owner Portal", Href: "#"},
	{Label: "Tenant Portal", Href: "#"},
}

type pageData struct {
	Profile        Profile
	JSONLD         template.JS
	TelHref        template.URL
	ListingsNotice string
	FooterLinks    []FooterLink
	Year           int
	LeadEndpoint   string
}

// Handler serves the landing page and its JSON-LD document.
type Handler struct {
	profile      Profile
	leadEndpoint string
	logger       *logging.Logger
	now          func() time.Time
}

func NewHandler(profile Profile, leadEndpoint string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if leadEndpoint == "" {
		leadEndpoint = "/api/lead"
	}
	return &Handler{profile: profile, leadEndpoint: leadEndpoint, logger: logger, now: time.Now}
}

// Render writes the landing page HTML to a buffer.
func (h *Handler) Render() ([]byte, error) {
	ld, err := h.profile.MarshalStructuredData(false)
	if err != nil {
		return nil, err
	}
	data := pageData{
		Profile: h.profile,
		// json.Marshal escapes <, > and & so the document is safe inside a script tag.
		JSONLD:         template.JS(ld),
		TelHref:        template.URL(h.profile.TelHref()),
		ListingsNotice: EmptyListingsNotice,
		FooterLinks:    footerLinks,
		Year:           h.now().Year(),
		LeadEndpoint:   h.leadEndpoint,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("site: render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	body, err := h.Render()
	if err != nil {
		h.logger.Error("failed to render landing page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Schema handles GET /schema.json.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	body, err := h.profile.MarshalStructuredData(false)
	if err != nil {
		h.logger.Error("failed to render json-ld", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/ld+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
