package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/models"
	"github.com/ndanilov/inventory_api/internal/transport"
	"github.com/ndanilov/inventory_api/internal/util"
)

type SearchService struct {
	ES    *elasticsearch.Client
	Index string
}

func (s *SearchService) Search(ctx context.Context, q string, pageNumber, pageSize int) (*transport.SearchResult, error) {
	if q == "" {
		return nil, apperror.New(apperror.InvalidInput, "query is required")
	}
	if s.ES == nil {
		return nil, apperror.New(apperror.Internal, "search is not configured")
	}

	_, size, from := util.Normalize(pageNumber, pageSize)

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot encode search query", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "search failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperror.Wrap(apperror.Internal, "search failed", fmt.Errorf("es: %s", res.Status()))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot decode search response", err)
	}

	items := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return &transport.SearchResult{Items: items, TotalCount: r.Hits.Total.Value}, nil
}
