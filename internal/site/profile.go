package site

import "strings"

// Profile is the public business profile shown on the page and in JSON-LD.
type Profile struct {
	Name        string
	Tagline     string
	Description string
	URL         string
	Logo        string
	Telephone   string // E.164-ish, used in tel: links and JSON-LD
	PhoneLabel  string // human formatted
	Email       string
	Address     PostalAddress
	AreasServed []string
	Services    []string
}

// PostalAddress mirrors the schema.org PostalAddress fields used on the site.
type PostalAddress struct {
	StreetAddress   string
	AddressLocality string
	AddressRegion   string
	PostalCode      string
	AddressCountry  string
}

// OneLine renders the address for display.
func (a PostalAddress) OneLine() string {
	return a.StreetAddress + ", " + a.AddressLocality + ", " + a.AddressRegion + " " + a.PostalCode
}

// NestingHomes is the business profile for the production site.
var NestingHomes = Profile{
	Name:        "Nesting Homes Property Management",
	Tagline:     "Stress-free property management for owners & delightful living for tenants",
	Description: "Stress-free property management for owners and delightful living for tenants. Fast leasing, reliable maintenance, transparent reporting.",
	URL:         "https://nestinghomesproperty.com",
	Logo:        "https://nestinghomesproperty.com/logo.png",
	Telephone:   "+1-310-922-8202",
	PhoneLabel:  "(310) 922-8202",
	Email:       "hello@nestinghomesproperty.com",
	Address: PostalAddress{
		StreetAddress:   "531 Main Street, PMB 963",
		AddressLocality: "El Segundo",
		AddressRegion:   "CA",
		PostalCode:      "90291",
		AddressCountry:  "US",
	},
	AreasServed: []string{"El Segundo", "Downey", "Highland Park", "Fullerton"},
	Services:    []string{"Leasing", "Screening", "Rent Collection", "Maintenance", "Reporting"},
}

// WithBaseURL returns a copy of p whose URL and logo point at baseURL.
func (p Profile) WithBaseURL(baseURL string) Profile {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return p
	}
	p.URL = baseURL
	p.Logo = baseURL + "/logo.png"
	return p
}

// TelHref is the tel: link target for the profile phone number.
func (p Profile) TelHref() string {
	return "tel:" + strings.ReplaceAll(p.Telephone, "-", "")
}
