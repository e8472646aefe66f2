package service

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/es"
	mng "PastPort/internal/pkg/mongo"
	"context"
)

const (
	DefaultDrawCount = 3
	MaxDrawCount     = 10
)

// DiscoverService 抽选流：对外只暴露已解锁的公开胶囊
type DiscoverService interface {
	Draw(ctx context.Context, count int) ([]*dto.CapsuleDTO, error)
	Search(ctx context.Context, d *dto.DiscoverSearchDTO) ([]*dto.CapsuleDTO, error)
}

type DiscoverServiceImpl struct {
	capsuleRepo mng.CapsuleRepo
	esRepo      es.CapsuleRepo
}

func NewDiscoverService(capsuleRepo mng.CapsuleRepo, esRepo es.CapsuleRepo) DiscoverService {
	return &DiscoverServiceImpl{
		capsuleRepo: capsuleRepo,
		esRepo:      esRepo,
	}
}

// Draw 随机抽取若干公开已解锁胶囊
func (s *DiscoverServiceImpl) Draw(ctx context.Context, count int) ([]*dto.CapsuleDTO, error) {
	if count < 1 {
		count = DefaultDrawCount
	}
	if count > MaxDrawCount {
		count = MaxDrawCount
	}

	list, err := s.capsuleRepo.SamplePublicUnlocked(ctx, int64(count))
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CapsuleDTO, 0, len(list))
	for _, c := range list {
		result = append(result, capsuleView(c))
	}
	return result, nil
}

// Search 基于检索索引的关键词搜索，索引中只有公开已解锁的胶囊
func (s *DiscoverServiceImpl) Search(ctx context.Context, d *dto.DiscoverSearchDTO) ([]*dto.CapsuleDTO, error) {
	d.Normalize()
	from := (d.Page - 1) * d.Size

	docs, err := s.esRepo.SearchCapsules(ctx, d.Keyword, from, d.Size)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CapsuleDTO, 0, len(docs))
	for _, doc := range docs {
		unlockedAt := doc.UnlockedAt
		result = append(result, &dto.CapsuleDTO{
			ID:         doc.ID,
			UserID:     doc.UserID,
			Title:      doc.Title,
			Emoji:      doc.Emoji,
			Content:    doc.Content,
			IsPublic:   doc.IsPublic,
			IsUnlocked: true,
			UnlockedAt: &unlockedAt,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return result, nil
}
