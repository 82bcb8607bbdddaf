package dto

// InquiryRequest: a user asks a seller about one of their books.
type InquiryRequest struct {
	ExpertID    string `json:"expert_id" binding:"required"`
	BookID      string `json:"book_id" binding:"required"`
	SenderEmail string `json:"sender_email" binding:"required,email"`
	Message     string `json:"message" binding:"required,max=4000"`
}

// ContactRequest: a direct message to an expert.
type ContactRequest struct {
	ExpertID    string `json:"expert_id" binding:"required"`
	SenderEmail string `json:"sender_email" binding:"required,email"`
	Message     string `json:"message" binding:"required,max=4000"`
	Links       string `json:"links"`
}

// FeedbackRequest: platform feedback routed to the administrator.
type FeedbackRequest struct {
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email" binding:"omitempty,email"`
	Message     string `json:"message" binding:"required,max=4000"`
}

// InviteRequest: invite a friend to the platform.
type InviteRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	InviterName    string `json:"inviter_name" binding:"required"`
	Message        string `json:"message" binding:"max=2000"`
}
