// Package elasticjobs serves the read-only job-opening lookup that
// populates the wizard's job-selection field.
package elasticjobs

import (
	"context"
	"encoding/json"
	"fmt"

	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/models"
)

// Searcher executes a raw search against one index.
type Searcher interface {
	Search(ctx context.Context, index string, query []byte) ([]byte, error)
}

// Directory queries job openings from the search index.
type Directory struct {
	search Searcher
	index  string
	log    logger.Logger
}

// New creates a directory over the given index.
func New(search Searcher, index string, log logger.Logger) *Directory {
	if index == "" {
		index = "job_openings"
	}
	return &Directory{search: search, index: index, log: log}
}

const defaultLimit = 50

// ListJobOpenings returns open positions matching the filter.
func (d *Directory) ListJobOpenings(ctx context.Context, filter models.JobOpeningFilter) ([]models.JobOpening, error) {
	query, err := buildQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build job query: %w", err)
	}

	raw, err := d.search.Search(ctx, d.index, query)
	if err != nil {
		return nil, fmt.Errorf("search job openings: %w", err)
	}

	var resp struct {
		Hits struct {
			Hits []struct {
				Source models.JobOpening `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode job openings: %w", err)
	}

	openings := make([]models.JobOpening, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		openings = append(openings, hit.Source)
	}

	d.log.Debug("job openings listed", map[string]interface{}{
		"count":   len(openings),
		"keyword": filter.Keyword,
	})
	return openings, nil
}

func buildQuery(filter models.JobOpeningFilter) ([]byte, error) {
	must := []map[string]interface{}{}

	status := filter.Status
	if status == "" {
		status = "open"
	}
	must = append(must, map[string]interface{}{
		"term": map[string]interface{}{"status": status},
	})

	if filter.Keyword != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filter.Keyword,
				"fields": []string{"title^2", "department"},
			},
		})
	}
	if filter.Location != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"location": filter.Location},
		})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	return json.Marshal(map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"postedAt": map[string]interface{}{"order": "desc"}},
		},
	})
}
