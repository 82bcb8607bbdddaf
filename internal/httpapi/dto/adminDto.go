package dto

// SetStatusRequest changes the account status of a set of experts.
type SetStatusRequest struct {
	ExpertIDs []string `json:"expert_ids" binding:"required,min=1"`
	Status    string   `json:"status" binding:"required,oneof=active disabled"`
}

// DeleteExpertsRequest removes a set of experts.
type DeleteExpertsRequest struct {
	ExpertIDs []string `json:"expert_ids" binding:"required,min=1"`
}

// SetTierRequest changes the subscription tier of a set of experts. A
// downgrade applies free-tier limits to future saves only; existing
// inventories are never truncated.
type SetTierRequest struct {
	ExpertIDs []string `json:"expert_ids" binding:"required,min=1"`
	Tier      string   `json:"tier" binding:"required,oneof=free premium"`
}

// InsightsRequest is a free-form admin question over the roster.
type InsightsRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

// CaptureOrderRequest finalizes a premium upgrade payment.
type CaptureOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// WishlistAddRequest pins a book to the caller's session wishlist.
type WishlistAddRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	ExpertID string `json:"expert_id" binding:"required"`
}
