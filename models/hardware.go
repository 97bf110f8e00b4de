package models

import (
	"time"
)

// Hardware beschreibt eine geschickte Roboterhand und deren Spezifikation.
// Optionale Attribute sind Zeiger: nil bedeutet "von der Quelle nicht geliefert".
type Hardware struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	Fingers      *int       `json:"fingers,omitempty"`
	DOFs         *int       `json:"dofs,omitempty"`
	ActuatedDOFs *int       `json:"actuatedDofs,omitempty"`
	Abduction    *bool      `json:"abduction,omitempty"`
	Flexion      *bool      `json:"flexion,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Source       *string    `json:"source,omitempty"`
	URL          *string    `json:"url,omitempty"`
	Description  *string    `json:"description,omitempty"`
	FoundAt      *time.Time `json:"foundAt,omitempty"`
	LastUpdated  time.Time  `json:"lastUpdated"`

	// Extra enthält alle unbekannten Felder der Quelle (z.B. "specifications", "features").
	Extra Extra `json:"-"`

	nulls nullFields
}

var _ Record[Hardware] = Hardware{}

type hardwareJSON Hardware

// UnmarshalJSON übernimmt bekannte Felder typisiert und alle übrigen unverändert in Extra.
func (h *Hardware) UnmarshalJSON(data []byte) error {
	var aux hardwareJSON
	extra, nulls, err := decodeWithExtra(data, &aux)
	if err != nil {
		return err
	}
	*h = Hardware(aux)
	h.Extra = extra
	h.nulls = nulls
	return nil
}

// MarshalJSON gibt bekannte Felder und Extra gemeinsam aus.
func (h Hardware) MarshalJSON() ([]byte, error) {
	aux := hardwareJSON(h)
	return encodeWithExtra(&aux, h.Extra)
}

// NaturalKey ist der Produktname.
func (h Hardware) NaturalKey() string { return h.Name }

// UpdatedAt liefert lastUpdated.
func (h Hardware) UpdatedAt() time.Time { return h.LastUpdated }

// Stamp setzt ID und lastUpdated.
func (h Hardware) Stamp(id string, at time.Time) Hardware {
	h.ID = id
	h.LastUpdated = at
	return h
}

// Overlay legt die Felder von in über h. Vorrangregeln:
//   - jedes Feld, das in liefert, ersetzt den bestehenden Wert (auch Nullwerte wie 0 oder false),
//   - Felder, die in ausdrücklich als null liefert, werden gelöscht,
//   - Felder, die in gar nicht liefert, bleiben erhalten,
//   - Name und ID werden übernommen, sofern nicht leer,
//   - Extra wird schlüsselweise zusammengeführt, verschachtelte Werte als Ganzes ersetzt,
//   - lastUpdated wird vom Aufrufer gesetzt.
func (h Hardware) Overlay(in Hardware) Hardware {
	out := h
	if in.ID != "" {
		out.ID = in.ID
	}
	if in.Name != "" {
		out.Name = in.Name
	}
	out.Manufacturer = pick(h.Manufacturer, in.Manufacturer, in.nulls.has("manufacturer"))
	out.Fingers = pick(h.Fingers, in.Fingers, in.nulls.has("fingers"))
	out.DOFs = pick(h.DOFs, in.DOFs, in.nulls.has("dofs"))
	out.ActuatedDOFs = pick(h.ActuatedDOFs, in.ActuatedDOFs, in.nulls.has("actuatedDofs"))
	out.Abduction = pick(h.Abduction, in.Abduction, in.nulls.has("abduction"))
	out.Flexion = pick(h.Flexion, in.Flexion, in.nulls.has("flexion"))
	out.Price = pick(h.Price, in.Price, in.nulls.has("price"))
	out.Source = pick(h.Source, in.Source, in.nulls.has("source"))
	out.URL = pick(h.URL, in.URL, in.nulls.has("url"))
	out.Description = pick(h.Description, in.Description, in.nulls.has("description"))
	out.FoundAt = pick(h.FoundAt, in.FoundAt, in.nulls.has("foundAt"))
	out.Extra = overlayExtra(h.Extra, in.Extra)
	out.nulls = nil
	return out
}
