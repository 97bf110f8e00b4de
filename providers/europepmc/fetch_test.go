package europepmc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleResponse = `{
  "resultList": {"result": [
    {
      "id": "38000001", "source": "MED", "pmid": "38000001", "doi": "10.1000/hand.1",
      "title": "Tactile Feedback for Dexterous In-Hand Manipulation.",
      "authorString": "Doe J, Roe R.",
      "journalTitle": "Science Robotics",
      "firstPublicationDate": "2024-02-10",
      "abstractText": "We study tactile feedback.",
      "fullTextUrlList": {"fullTextUrl": [
        {"availabilityCode": "OA", "documentStyle": "html", "url": "https://example.org/html"},
        {"availabilityCode": "OA", "documentStyle": "pdf", "url": "https://example.org/paper.pdf"}
      ]},
      "pubTypeList": {"pubType": ["Preprint"]}
    },
    {"id": "PPR1", "source": "PPR", "title": "  "},
    {"id": "38000002", "source": "MED", "title": "Grasp Synthesis", "firstPublicationDate": "2023"}
  ]}
}`

func TestFetcher_Discover(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dexterous hand manipulation", r.URL.Query().Get("query"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, zap.NewNop())
	f.HTTPClient = ts.Client()

	papers, err := f.Discover(context.Background(), "dexterous hand manipulation")
	require.NoError(t, err)
	require.Len(t, papers, 2)

	first := papers[0]
	assert.Equal(t, "Tactile Feedback for Dexterous In-Hand Manipulation", first.Title)
	assert.Equal(t, []string{"Doe J", "Roe R"}, first.Authors)
	assert.Equal(t, "10.1000/hand.1", *first.DOI)
	assert.Equal(t, "2024-02-10", *first.PublishedDate)
	assert.Equal(t, "https://example.org/paper.pdf", *first.URL)
	assert.Equal(t, "Science Robotics", *first.Conference)
	assert.JSONEq(t, `"Preprint"`, string(first.Extra["publicationType"]))

	second := papers[1]
	assert.Equal(t, "https://europepmc.org/article/MED/38000002", *second.URL)
	assert.Equal(t, "2023-01-01", *second.PublishedDate)
	assert.Nil(t, second.Authors)
}

func TestFetcher_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, nil)
	f.HTTPClient = ts.Client()

	_, err := f.Discover(context.Background(), "x")
	assert.Error(t, err)
}
