package handler

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/response"
	"PastPort/internal/service"

	"github.com/gin-gonic/gin"
)

type DiscoverHandler struct {
	discoverSvc service.DiscoverService
}

func NewDiscoverHandler(discoverSvc service.DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{
		discoverSvc: discoverSvc,
	}
}

// Draw 抽选流：随机抽取公开已解锁的胶囊
func (s *DiscoverHandler) Draw(c *gin.Context) {
	var req dto.DiscoverDrawDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	capsules, err := s.discoverSvc.Draw(c.Request.Context(), req.Count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsules)
}

func (s *DiscoverHandler) Search(c *gin.Context) {
	var req dto.DiscoverSearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	capsules, err := s.discoverSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsules)
}
