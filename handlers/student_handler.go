package handlers

import (
	"net/http"

	"classquiz/services"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	sessionService *services.SessionService
	answerService  *services.AnswerService
}

func NewStudentHandler(sessionService *services.SessionService, answerService *services.AnswerService) *StudentHandler {
	return &StudentHandler{
		sessionService: sessionService,
		answerService:  answerService,
	}
}

func (h *StudentHandler) JoinSession(c *gin.Context) {
	var req services.JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.sessionService.JoinSession(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"student_id": student.ID,
		"message":    "Joined successfully",
	})
}

func (h *StudentHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.answerService.Submit(&req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Answer submitted"})
}
