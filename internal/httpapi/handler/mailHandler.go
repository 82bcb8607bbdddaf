package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/service"
	"bookdocker/internal/mailer"

	"github.com/gin-gonic/gin"
)

// MailHandler serves the outbound email endpoints: book inquiries, direct
// contact, platform feedback and invitations. Recipients are resolved
// server-side so expert email addresses never leave the backend.
type MailHandler struct {
	experts     service.ExpertService
	sender      mailer.Sender
	adminEmail  string
	platformURL string
	logger      *slog.Logger
}

func NewMailHandler(experts service.ExpertService, sender mailer.Sender, adminEmail, platformURL string, logger *slog.Logger) *MailHandler {
	return &MailHandler{
		experts:     experts,
		sender:      sender,
		adminEmail:  adminEmail,
		platformURL: platformURL,
		logger:      logger,
	}
}

func (h *MailHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiry", h.Inquiry)
	rg.POST("/contact", h.Contact)
	rg.POST("/feedback", h.Feedback)
	rg.POST("/invite", h.Invite)
}

// Inquiry emails a seller about one of their listed books.
func (h *MailHandler) Inquiry(c *gin.Context) {
	var req dto.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	expert, err := h.experts.GetByID(ctx, req.ExpertID)
	if err != nil {
		if errors.Is(err, service.ErrExpertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var title, author string
	var year int
	for _, b := range expert.Books {
		if b.ID == req.BookID {
			title, author, year = b.Title, b.Author, b.Year
			break
		}
	}
	if title == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found on this expert's shelf"})
		return
	}

	subject, html := mailer.InquiryEmail(expert.Name, title, author, year, req.SenderEmail, req.Message)
	h.send(ctx, c, mailer.Message{
		To:      []string{expert.Email},
		Subject: subject,
		HTML:    html,
		ReplyTo: req.SenderEmail,
	})
}

// Contact emails an expert directly.
func (h *MailHandler) Contact(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	expert, err := h.experts.GetByID(ctx, req.ExpertID)
	if err != nil {
		if errors.Is(err, service.ErrExpertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subject, html := mailer.ContactEmail(expert.Name, req.SenderEmail, req.Message, req.Links)
	h.send(ctx, c, mailer.Message{
		To:      []string{expert.Email},
		Subject: subject,
		HTML:    html,
		ReplyTo: req.SenderEmail,
	})
}

// Feedback routes platform feedback to the administrator inbox.
func (h *MailHandler) Feedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	subject, html := mailer.FeedbackEmail(req.SenderName, req.SenderEmail, req.Message)
	msg := mailer.Message{
		To:      []string{h.adminEmail},
		Subject: subject,
		HTML:    html,
	}
	if req.SenderEmail != "" {
		msg.ReplyTo = req.SenderEmail
	}
	h.send(ctx, c, msg)
}

// Invite emails an invitation to join the platform.
func (h *MailHandler) Invite(c *gin.Context) {
	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	subject, html := mailer.InviteEmail(req.InviterName, req.Message, h.platformURL)
	h.send(ctx, c, mailer.Message{
		To:      []string{req.RecipientEmail},
		Subject: subject,
		HTML:    html,
	})
}

func (h *MailHandler) send(ctx context.Context, c *gin.Context, msg mailer.Message) {
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "email delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email sent"})
}
