package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"classquiz/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
	resultsService *services.ResultsService
}

func NewSessionHandler(sessionService *services.SessionService, resultsService *services.ResultsService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		resultsService: resultsService,
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	teacherID, exists := c.Get("teacher_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Teacher not authenticated"})
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.StartSession(teacherID.(uint), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"class_code": session.ClassCode,
		"status":     session.Status,
	})
}

func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.CloseSession(sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session closed successfully"})
}

func (h *SessionHandler) GetSessionInfo(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	info, err := h.sessionService.GetSessionInfo(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *SessionHandler) GetSessionResults(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	results, err := h.resultsService.SessionResults(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *SessionHandler) GetStudentResponses(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	responses, err := h.resultsService.StudentResponses(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *SessionHandler) GetSessionByCode(c *gin.Context) {
	classCode := strings.ToUpper(c.Param("code"))
	if classCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class code required"})
		return
	}

	entry, err := h.sessionService.GetSessionByCode(classCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return 0, false
	}
	return uint(sessionID), true
}
