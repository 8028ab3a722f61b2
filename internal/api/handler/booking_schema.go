package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// createBookingRequest creates a booking. Amounts are minor currency units.
// total_amount is intentionally absent: it is always derived server-side.
type createBookingRequest struct {
	Kind           string  `json:"kind"             validate:"required,oneof=hotel cab tour"`
	ResourceID     string  `json:"resource_id"`
	TourID         string  `json:"tour_id"`
	RoomCount      int64   `json:"room_count"       validate:"min=0"`
	BaseAmount     int64   `json:"base_amount"      validate:"min=0"`
	TaxRatePercent float64 `json:"tax_rate_percent" validate:"min=0"`
}

// amendBookingRequest carries a partial update; absent fields stay unchanged.
type amendBookingRequest struct {
	BaseAmount     *int64   `json:"base_amount"      validate:"omitempty,min=0"`
	TaxRatePercent *float64 `json:"tax_rate_percent" validate:"omitempty,min=0"`
	RoomCount      *int64   `json:"room_count"       validate:"omitempty,min=1"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// --- Response types ---
// Response-only types are owned by the transport layer so the JSON contract
// is not coupled to internal service changes.

type bookingLinks struct {
	Self string `json:"self"`
}

type createBookingResponse struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	TotalAmount int64        `json:"total_amount"`
	CreatedAt   time.Time    `json:"created_at"`
	Links       bookingLinks `json:"_links"`
}

type statusHistoryItemResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
}

type bookingResponse struct {
	ID             string                      `json:"id"`
	Kind           string                      `json:"kind"`
	UserID         string                      `json:"user_id"`
	ResourceID     string                      `json:"resource_id,omitempty"`
	TourID         string                      `json:"tour_id,omitempty"`
	RoomCount      int64                       `json:"room_count,omitempty"`
	BaseAmount     int64                       `json:"base_amount"`
	TaxRatePercent float64                     `json:"tax_rate_percent"`
	TotalAmount    int64                       `json:"total_amount"`
	Status         string                      `json:"status"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	StatusHistory  []statusHistoryItemResponse `json:"status_history"`
	Links          bookingLinks                `json:"_links"`
}

// bookingSummaryResponse is the lightweight item used in list responses.
// It intentionally omits status_history to keep payloads small.
type bookingSummaryResponse struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	UserID      string       `json:"user_id"`
	ResourceID  string       `json:"resource_id,omitempty"`
	RoomCount   int64        `json:"room_count,omitempty"`
	TotalAmount int64        `json:"total_amount"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	Links       bookingLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listBookingsResponse struct {
	Data       []bookingSummaryResponse `json:"data"`
	Pagination paginationResponse       `json:"pagination"`
}
