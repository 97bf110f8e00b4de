package services

import (
	"encoding/json"
	"testing"

	"handscout/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatReference(t *testing.T) {
	full := models.Paper{
		Title:         "Learning Dexterous In-Hand Manipulation.",
		Authors:       []string{"OpenAI", "M. Andrychowicz"},
		PublishedDate: models.Ptr("2018-08-01"),
		Conference:    models.Ptr("IJRR"),
		DOI:           models.Ptr("10.1177/0278364919887447"),
		Extra:         models.Extra{"pmid": json.RawMessage(`"123"`)},
	}
	assert.Equal(t,
		"OpenAI, M. Andrychowicz (2018). Learning Dexterous In-Hand Manipulation. IJRR. doi:10.1177/0278364919887447 pmid:123",
		FormatReference(full))

	assert.Equal(t, "Unknown Authors (n.d.). Untitled.", FormatReference(models.Paper{}))

	many := models.Paper{Title: "T", Authors: []string{"A", "B", "C", "D", "E", "F", "G"}}
	assert.Equal(t, "A, B, C, D, E, F et al. (n.d.). T.", FormatReference(many))
}

func TestBuildBibliography_FiltersByCategory(t *testing.T) {
	papers := []models.Paper{
		{ID: "a", Title: "A", Category: models.Ptr(models.CategoryControl)},
		{ID: "b", Title: "B", Category: models.Ptr(models.CategoryVLAs)},
		{ID: "c", Title: "C"},
	}

	all := BuildBibliography(papers, "")
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)

	vlas := BuildBibliography(papers, "vlas")
	if assert.Len(t, vlas, 1) {
		assert.Equal(t, "b", vlas[0].ID)
		assert.Equal(t, "Unknown Authors (n.d.). B.", vlas[0].Reference)
	}

	assert.Empty(t, BuildBibliography(nil, ""))
}
