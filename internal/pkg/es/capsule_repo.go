package es

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

type CapsuleRepo interface {
	IndexCapsule(ctx context.Context, capsule *CapsuleES) error
	DeleteCapsule(ctx context.Context, id string) error
	SearchCapsules(ctx context.Context, keyword string, from, size int) ([]*CapsuleES, error)
}

type CapsuleRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewCapsuleRepo() CapsuleRepo {
	return &CapsuleRepoImpl{client: Client}
}

func (s *CapsuleRepoImpl) IndexCapsule(ctx context.Context, capsule *CapsuleES) error {
	_, err := s.client.Index(CapsuleIndex).
		Id(capsule.ID).
		Document(capsule).
		Do(ctx)
	if err != nil {
		return err
	}
	return nil
}

func (s *CapsuleRepoImpl) DeleteCapsule(ctx context.Context, id string) error {
	_, err := s.client.Delete(CapsuleIndex, id).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.Warn("Capsule already deleted or not found in ES", "id", id)
				return nil
			}
		}
		return err
	}
	return nil
}

// SearchCapsules 按关键词检索公开且已解锁的胶囊
func (s *CapsuleRepoImpl) SearchCapsules(ctx context.Context, keyword string, from, size int) ([]*CapsuleES, error) {
	boolQuery := &types.BoolQuery{
		Filter: []types.Query{
			{Term: map[string]types.TermQuery{"is_public": {Value: true}}},
		},
	}

	if keyword != "" {
		boolQuery.Must = append(boolQuery.Must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"title^2", "content"},
			},
		})
	}

	resp, err := s.client.Search().
		Index(CapsuleIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"unlocked_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*CapsuleES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var capsule CapsuleES
		if err = json.Unmarshal(hit.Source_, &capsule); err != nil {
			continue
		}
		results = append(results, &capsule)
	}

	return results, nil
}
