package site

import (
	"encoding/json"
	"fmt"
)

// JSONLD is the schema.org document embedded in the page head.
type JSONLD struct {
	Context    string        `json:"@context"`
	Type       string        `json:"@type"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Logo       string        `json:"logo"`
	Telephone  string        `json:"telephone"`
	Email      string        `json:"email"`
	Address    JSONLDAddress `json:"address"`
	AreaServed []string      `json:"areaServed"`
}

type JSONLDAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

// StructuredData builds the RealEstateAgent JSON-LD for p.
func (p Profile) StructuredData() JSONLD {
	return JSONLD{
		Context:   "https://schema.org",
		Type:      "RealEstateAgent",
		Name:      p.Name,
		URL:       p.URL,
		Logo:      p.Logo,
		Telephone: p.Telephone,
		Email:     p.Email,
		Address: JSONLDAddress{
			Type:            "PostalAddress",
			StreetAddress:   p.Address.StreetAddress,
			AddressLocality: p.Address.AddressLocality,
			AddressRegion:   p.Address.AddressRegion,
			PostalCode:      p.Address.PostalCode,
			AddressCountry:  p.Address.AddressCountry,
		},
		AreaServed: append([]string(nil), p.AreasServed...),
	}
}

// MarshalStructuredData renders the JSON-LD document, indented when pretty is set.
func (p Profile) MarshalStructuredData(pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(p.StructuredData(), "", "  ")
	} else {
		data, err = json.Marshal(p.StructuredData())
	}
	if err != nil {
		return nil, fmt.Errorf("site: marshal json-ld: %w", err)
	}
	return data, nil
}
