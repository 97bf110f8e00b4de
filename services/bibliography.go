package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"handscout/models"
)

// maxAuthors begrenzt die Autorenliste einer Referenz, danach folgt "et al.".
const maxAuthors = 6

// Reference ist ein Eintrag im Literaturverzeichnis.
type Reference struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
}

// BuildBibliography formatiert alle Paper der Kategorie in der Reihenfolge der Sammlung.
// Eine leere Kategorie übernimmt alle Paper.
func BuildBibliography(papers []models.Paper, category string) []Reference {
	refs := make([]Reference, 0, len(papers))
	for _, p := range papers {
		if category != "" && (p.Category == nil || !strings.EqualFold(*p.Category, category)) {
			continue
		}
		refs = append(refs, Reference{ID: p.ID, Reference: FormatReference(p)})
	}
	return refs
}

// FormatReference rendert ein Paper als kompakte Referenz:
// "Autoren (Jahr). Titel. Venue. doi:... pmid:..."
func FormatReference(p models.Paper) string {
	authors := p.Authors
	etAl := len(authors) > maxAuthors
	if etAl {
		authors = authors[:maxAuthors]
	}
	authorStr := strings.Join(authors, ", ")
	if authorStr == "" {
		authorStr = "Unknown Authors"
	} else if etAl {
		authorStr += " et al."
	}

	year := "n.d."
	if p.PublishedDate != nil && len(*p.PublishedDate) >= 4 {
		year = (*p.PublishedDate)[:4]
	}

	var tail []string
	if p.DOI != nil && *p.DOI != "" {
		tail = append(tail, "doi:"+*p.DOI)
	}
	var pmid string
	if raw, ok := p.Extra["pmid"]; ok && json.Unmarshal(raw, &pmid) == nil && pmid != "" {
		tail = append(tail, "pmid:"+pmid)
	}
	tailStr := strings.Join(tail, " ")
	if tailStr != "" {
		tailStr = " " + tailStr
	}

	title := strings.TrimSuffix(strings.TrimSpace(p.Title), ".")
	if title == "" {
		title = "Untitled"
	}
	if p.Conference != nil && *p.Conference != "" {
		return fmt.Sprintf("%s (%s). %s. %s.%s", authorStr, year, title, *p.Conference, tailStr)
	}
	return fmt.Sprintf("%s (%s). %s.%s", authorStr, year, title, tailStr)
}
