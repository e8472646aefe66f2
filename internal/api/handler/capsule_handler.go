package handler

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/response"
	"PastPort/internal/pkg/util"
	"PastPort/internal/service"

	"github.com/gin-gonic/gin"
)

type CapsuleHandler struct {
	capsuleSvc service.CapsuleService
}

func NewCapsuleHandler(capsuleSvc service.CapsuleService) *CapsuleHandler {
	return &CapsuleHandler{
		capsuleSvc: capsuleSvc,
	}
}

func (s *CapsuleHandler) Create(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CreateCapsuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	capsule, err := s.capsuleSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsule)
}

func (s *CapsuleHandler) ListSelf(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, err)
		return
	}

	capsules, err := s.capsuleSvc.ListSelf(c.Request.Context(), userID, &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsules)
}

func (s *CapsuleHandler) Get(c *gin.Context) {
	capsule, err := s.capsuleSvc.Get(c.Request.Context(), c.Param("capsule_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsule)
}

func (s *CapsuleHandler) Update(c *gin.Context) {
	var req dto.UpdateCapsuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	capsule, err := s.capsuleSvc.Update(c.Request.Context(), c.Param("capsule_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, capsule)
}

func (s *CapsuleHandler) Delete(c *gin.Context) {
	if err := s.capsuleSvc.Delete(c.Request.Context(), c.Param("capsule_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Unlock 手动解锁。答案可选，结果标记见 UnlockResultDTO.Outcome。
func (s *CapsuleHandler) Unlock(c *gin.Context) {
	var req dto.UnlockAttemptDTO
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, err)
		return
	}

	result, err := s.capsuleSvc.Unlock(c.Request.Context(), c.Param("capsule_id"), req.Answer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
