package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutorlink/internal/listing"
	"tutorlink/internal/service"
	"tutorlink/internal/validation"
)

// TutorHandler expone el buscador, el detalle de tutor y los envíos de contacto/reseña.
type TutorHandler struct {
	logger  *zap.Logger
	browse  *service.BrowseService
	contact *service.ContactService
}

func NewTutorHandler(logger *zap.Logger, browse *service.BrowseService, contact *service.ContactService) *TutorHandler {
	return &TutorHandler{logger: logger, browse: browse, contact: contact}
}

// Browse maneja GET /tutors.
func (h *TutorHandler) Browse(c *gin.Context) {
	criteria := listing.NewCriteria()
	criteria.SearchTerm = c.Query("search")
	if v := c.Query("subject"); v != "" {
		criteria.Subject = v
	}
	if v := c.Query("location"); v != "" {
		criteria.Location = v
	}
	if v := c.Query("availability"); v != "" {
		criteria.Availability = v
	}
	if v := strings.TrimSpace(c.Query("min_rating")); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be a number between 0 and 5"})
			return
		}
		criteria.MinRating = rating
	}

	res, err := h.browse.Browse(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, h.logger, "browse", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Tutor maneja GET /tutors/:id.
func (h *TutorHandler) Tutor(c *gin.Context) {
	tutor, err := h.browse.Tutor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get tutor", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tutor": tutor})
}

// Contact maneja POST /tutors/:id/contact.
func (h *TutorHandler) Contact(c *gin.Context) {
	var req validation.ContactForm
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.contact.ContactTutor(c.Request.Context(), c.Param("id"), req); err != nil {
		writeError(c, h.logger, "contact tutor", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// Review maneja POST /tutors/:id/reviews.
func (h *TutorHandler) Review(c *gin.Context) {
	var req validation.ReviewForm
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.contact.AddReview(c.Request.Context(), c.Param("id"), req); err != nil {
		writeError(c, h.logger, "add review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}
