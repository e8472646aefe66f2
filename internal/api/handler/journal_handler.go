package handler

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/response"
	"PastPort/internal/pkg/util"
	"PastPort/internal/service"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	journalSvc service.JournalService
}

func NewJournalHandler(journalSvc service.JournalService) *JournalHandler {
	return &JournalHandler{
		journalSvc: journalSvc,
	}
}

func (s *JournalHandler) Create(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CreateJournalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	entry, err := s.journalSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (s *JournalHandler) ListByMonth(c *gin.Context) {
	userID := c.GetUint64("user_id")
	month := c.Query("month")

	entries, err := s.journalSvc.ListByMonth(c.Request.Context(), userID, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *JournalHandler) Get(c *gin.Context) {
	entry, err := s.journalSvc.Get(c.Request.Context(), c.Param("entry_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (s *JournalHandler) Update(c *gin.Context) {
	var req dto.UpdateJournalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	entry, err := s.journalSvc.Update(c.Request.Context(), c.Param("entry_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (s *JournalHandler) Delete(c *gin.Context) {
	if err := s.journalSvc.Delete(c.Request.Context(), c.Param("entry_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *JournalHandler) Unlock(c *gin.Context) {
	var req dto.UnlockAttemptDTO
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, err)
		return
	}

	result, err := s.journalSvc.Unlock(c.Request.Context(), c.Param("entry_id"), req.Answer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
