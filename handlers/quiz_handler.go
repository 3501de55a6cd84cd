package handlers

import (
	"net/http"
	"strconv"

	"classquiz/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	teacherID, exists := c.Get("teacher_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Teacher not authenticated"})
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(teacherID.(uint), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) GetTeacherQuizzes(c *gin.Context) {
	teacherID, exists := c.Get("teacher_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Teacher not authenticated"})
		return
	}

	quizzes, err := h.quizService.GetTeacherQuizzes(teacherID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	teacherID, exists := c.Get("teacher_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Teacher not authenticated"})
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizService.GetQuizByID(uint(quizID), teacherID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}
