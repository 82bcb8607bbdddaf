package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/middleware"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"
	"bookdocker/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type ExpertHandler struct {
	svc service.ExpertService
}

func NewExpertHandler(svc service.ExpertService) *ExpertHandler {
	return &ExpertHandler{svc: svc}
}

// RegisterRoutes registers the public directory routes.
func (h *ExpertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:expert_id", h.Get)
}

// RegisterProtectedRoutes registers the owner-only mutation routes.
func (h *ExpertHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	owner := middleware.RequireSelfOrAdmin("expert_id")
	rg.PUT("/:expert_id/profile", owner, h.UpdateProfile)
	rg.PUT("/:expert_id/books", owner, h.ReplaceBooks)
	rg.PUT("/:expert_id/spotlights", owner, h.ReplaceSpotlights)
	rg.POST("/generate-bio", h.GenerateBio)
}

// List returns the public expert directory, newest first, with optional
// genre filter and free-text search.
func (h *ExpertHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := repository.ExpertFilters{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	experts, total, err := h.svc.List(ctx, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ExpertListResponse{
		Experts: experts,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

func (h *ExpertHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	expert, err := h.svc.GetByID(ctx, c.Param("expert_id"))
	if err != nil {
		if errors.Is(err, service.ErrExpertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, expert)
}

func (h *ExpertHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.ProfileUpdate{
		Name:        req.Name,
		Genre:       req.Genre,
		Bio:         req.Bio,
		Country:     req.Country,
		AvatarURL:   req.AvatarURL,
		OnLeave:     req.OnLeave,
		SocialLinks: req.SocialLinks,
	}
	if req.BookQuery != nil {
		update.Want = &models.BookQuery{
			Title:     req.BookQuery.Title,
			Author:    req.BookQuery.Author,
			Publisher: req.BookQuery.Publisher,
			Edition:   req.BookQuery.Edition,
			Year:      req.BookQuery.Year,
		}
	}
	if req.PresentOffer != nil {
		update.Offer = &models.PresentOffer{
			BookID:        req.PresentOffer.BookID,
			BooksRequired: req.PresentOffer.BooksRequired,
			Message:       req.PresentOffer.Message,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	expert, err := h.svc.UpdateProfile(ctx, c.Param("expert_id"), update)
	if err != nil {
		respondExpertError(c, err)
		return
	}

	c.JSON(http.StatusOK, expert)
}

func (h *ExpertHandler) ReplaceBooks(c *gin.Context) {
	var req dto.ReplaceBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	expert, err := h.svc.ReplaceBooks(ctx, c.Param("expert_id"), req.ToModels())
	if err != nil {
		respondExpertError(c, err)
		return
	}

	c.JSON(http.StatusOK, expert)
}

func (h *ExpertHandler) ReplaceSpotlights(c *gin.Context) {
	var req dto.ReplaceSpotlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	expert, err := h.svc.ReplaceSpotlights(ctx, c.Param("expert_id"), req.ToModels())
	if err != nil {
		respondExpertError(c, err)
		return
	}

	c.JSON(http.StatusOK, expert)
}

// GenerateBio drafts a profile biography through the AI collaborator.
func (h *ExpertHandler) GenerateBio(c *gin.Context) {
	var req dto.GenerateBioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	bio, err := h.svc.GenerateBio(ctx, req.Name, req.Genre)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "bio generation is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bio": bio})
}

// respondExpertError maps service sentinels to HTTP statuses.
func respondExpertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExpertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "expert not found"})
	case errors.Is(err, service.ErrBookLimitExceeded),
		errors.Is(err, service.ErrSpotlightLimitExceeded),
		errors.Is(err, service.ErrAwayRequiresPremium),
		errors.Is(err, service.ErrOfferRequiresPremium):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSpotlightTooLong),
		errors.Is(err, service.ErrFeaturedBookNotOwned),
		errors.Is(err, service.ErrOfferBookUnavailable),
		errors.Is(err, models.ErrIncompleteWant):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
