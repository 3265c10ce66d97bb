// internal/collaborators/elasticjobs/directory_test.go
package elasticjobs

import (
	"context"
	"encoding/json"
	"testing"

	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	index    string
	query    []byte
	response []byte
	err      error
}

func (s *stubSearcher) Search(ctx context.Context, index string, query []byte) ([]byte, error) {
	s.index = index
	s.query = query
	return s.response, s.err
}

func TestListJobOpenings_ParsesHits(t *testing.T) {
	searcher := &stubSearcher{response: []byte(`{
		"hits": {"hits": [
			{"_source": {"id": "job-1", "title": "Go Developer", "status": "open"}},
			{"_source": {"id": "job-2", "title": "SRE", "status": "open"}}
		]}
	}`)}
	d := New(searcher, "", logger.NewTestLogger(t))

	openings, err := d.ListJobOpenings(context.Background(), models.JobOpeningFilter{Keyword: "go"})
	require.NoError(t, err)
	require.Len(t, openings, 2)
	assert.Equal(t, "job-1", openings[0].ID)
	assert.Equal(t, "job_openings", searcher.index, "empty index falls back to the default")
}

func TestListJobOpenings_QueryShape(t *testing.T) {
	searcher := &stubSearcher{response: []byte(`{"hits": {"hits": []}}`)}
	d := New(searcher, "openings", logger.NewTestLogger(t))

	_, err := d.ListJobOpenings(context.Background(), models.JobOpeningFilter{
		Keyword:  "developer",
		Location: "Pune",
		Limit:    10,
	})
	require.NoError(t, err)

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal(searcher.query, &query))
	assert.Equal(t, float64(10), query["size"])

	must := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	require.Len(t, must, 3, "status, keyword, and location clauses")
}

func TestListJobOpenings_SearchError(t *testing.T) {
	searcher := &stubSearcher{err: assert.AnError}
	d := New(searcher, "openings", logger.NewTestLogger(t))

	_, err := d.ListJobOpenings(context.Background(), models.JobOpeningFilter{})
	assert.Error(t, err)
}
