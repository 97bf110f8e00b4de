package models

import (
	"time"
)

// Paper repräsentiert eine wissenschaftliche Veröffentlichung zu geschickter Manipulation.
// Optionale Attribute sind Zeiger bzw. nil-Slices: nil bedeutet "nicht geliefert".
type Paper struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Authors       []string   `json:"authors,omitempty"`
	Abstract      *string    `json:"abstract,omitempty"`
	Category      *string    `json:"category,omitempty"`
	PublishedDate *string    `json:"publishedDate,omitempty"`
	URL           *string    `json:"url,omitempty"`
	DOI           *string    `json:"doi,omitempty"`
	Source        *string    `json:"source,omitempty"`
	SearchTerm    *string    `json:"searchTerm,omitempty"`
	Conference    *string    `json:"conference,omitempty"`
	FoundAt       *time.Time `json:"foundAt,omitempty"`
	LastUpdated   time.Time  `json:"lastUpdated"`

	Extra Extra `json:"-"`

	nulls nullFields
}

var _ Record[Paper] = Paper{}

// Kategorien, in die Paper einsortiert werden.
const (
	CategoryReinforcementLearning = "Reinforcement Learning"
	CategoryImitationLearning     = "Imitation Learning"
	CategoryVLAs                  = "VLAs"
	CategoryControl               = "Control"
	CategoryOptimization          = "Optimization"
)

// PaperCategories listet alle bekannten Kategorien in fester Reihenfolge.
var PaperCategories = []string{
	CategoryReinforcementLearning,
	CategoryImitationLearning,
	CategoryVLAs,
	CategoryControl,
	CategoryOptimization,
}

type paperJSON Paper

// UnmarshalJSON übernimmt bekannte Felder typisiert und alle übrigen unverändert in Extra.
func (p *Paper) UnmarshalJSON(data []byte) error {
	var aux paperJSON
	extra, nulls, err := decodeWithExtra(data, &aux)
	if err != nil {
		return err
	}
	*p = Paper(aux)
	p.Extra = extra
	p.nulls = nulls
	return nil
}

// MarshalJSON gibt bekannte Felder und Extra gemeinsam aus.
func (p Paper) MarshalJSON() ([]byte, error) {
	aux := paperJSON(p)
	return encodeWithExtra(&aux, p.Extra)
}

// NaturalKey ist der Titel.
func (p Paper) NaturalKey() string { return p.Title }

// UpdatedAt liefert lastUpdated.
func (p Paper) UpdatedAt() time.Time { return p.LastUpdated }

// Stamp setzt ID und lastUpdated.
func (p Paper) Stamp(id string, at time.Time) Paper {
	p.ID = id
	p.LastUpdated = at
	return p
}

// Overlay legt die Felder von in über p, mit denselben Vorrangregeln wie Hardware.Overlay.
// Authors ist eine Liste und wird als Ganzes ersetzt, sobald in sie liefert.
func (p Paper) Overlay(in Paper) Paper {
	out := p
	if in.ID != "" {
		out.ID = in.ID
	}
	if in.Title != "" {
		out.Title = in.Title
	}
	if in.Authors != nil || in.nulls.has("authors") {
		out.Authors = in.Authors
	}
	out.Abstract = pick(p.Abstract, in.Abstract, in.nulls.has("abstract"))
	out.Category = pick(p.Category, in.Category, in.nulls.has("category"))
	out.PublishedDate = pick(p.PublishedDate, in.PublishedDate, in.nulls.has("publishedDate"))
	out.URL = pick(p.URL, in.URL, in.nulls.has("url"))
	out.DOI = pick(p.DOI, in.DOI, in.nulls.has("doi"))
	out.Source = pick(p.Source, in.Source, in.nulls.has("source"))
	out.SearchTerm = pick(p.SearchTerm, in.SearchTerm, in.nulls.has("searchTerm"))
	out.Conference = pick(p.Conference, in.Conference, in.nulls.has("conference"))
	out.FoundAt = pick(p.FoundAt, in.FoundAt, in.nulls.has("foundAt"))
	out.Extra = overlayExtra(p.Extra, in.Extra)
	out.nulls = nil
	return out
}
