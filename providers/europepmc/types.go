package europepmc

import "time"

// SearchResponse ist die Top-Level-Struktur der Europe PMC API-Antwort (resultType=core).
type SearchResponse struct {
	HitCount   int `json:"hitCount"`
	ResultList struct {
		Result []Article `json:"result"`
	} `json:"resultList"`
}

// Article ist ein Treffer der Suche. Nur die Felder, die auf Paper abgebildet werden.
type Article struct {
	ID                   string `json:"id"`
	Source               string `json:"source"`
	DOI                  string `json:"doi"`
	Title                string `json:"title"`
	AuthorString         string `json:"authorString"`
	JournalTitle         string `json:"journalTitle"`
	FirstPublicationDate string `json:"firstPublicationDate"`
	AbstractText         string `json:"abstractText"`
	FullTextURLList      struct {
		FullTextURL []FullTextURL `json:"fullTextUrl"`
	} `json:"fullTextUrlList"`
	PubTypeList struct {
		PubType []string `json:"pubType"`
	} `json:"pubTypeList"`
}

// FullTextURL ist ein Volltext-Link eines Artikels.
type FullTextURL struct {
	AvailabilityCode string `json:"availabilityCode"`
	DocumentStyle    string `json:"documentStyle"`
	URL              string `json:"url"`
}

// parseEuroDate akzeptiert volle, Monats- und Jahresangaben.
func parseEuroDate(dateStr string) *time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t
		}
	}
	return nil
}
