package server

import (
	"net/http"
	"strconv"
	"strings"

	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/gin-gonic/gin"
)

type updateLessonRequest struct {
	Subject            *string `json:"subject"`
	Location           *string `json:"location"`
	Price              *int64  `json:"price"`
	AvailableInventory *int    `json:"availableInventory"`
	Image              *string `json:"image"`
}

// ListLessons returns every lesson as a bare JSON array.
func (s *Server) ListLessons(c *gin.Context) {
	resp, err := s.lessonSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetLessonByID(c *gin.Context) {
	id, err := parseLessonID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.lessonSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateLesson(c *gin.Context) {
	id, err := parseLessonID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.lessonSvc.Update(c.Request.Context(), lessondomain.UpdateRequest{
		ID:                 id,
		Subject:            req.Subject,
		Location:           req.Location,
		Price:              req.Price,
		AvailableInventory: req.AvailableInventory,
		Image:              req.Image,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchLessons filters lessons by the q query parameter; an empty keyword
// returns the full catalog.
func (s *Server) SearchLessons(c *gin.Context) {
	resp, err := s.lessonSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseLessonID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, newValidationError("id", "invalid_id", "invalid lesson id")
	}
	return id, nil
}
