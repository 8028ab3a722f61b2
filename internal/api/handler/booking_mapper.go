package handler

import (
	"github.com/tripline/travel-booking/internal/core/ports"
)

// --- Service result → HTTP response ---

func toCreateResponse(r *ports.BookingResult) createBookingResponse {
	return createBookingResponse{
		ID:          r.ID,
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt.UTC(),
		Links:       bookingLinks{Self: "/v1/bookings/" + r.ID},
	}
}

func toBookingResponse(d *ports.BookingDetail) bookingResponse {
	history := make([]statusHistoryItemResponse, len(d.StatusHistory))
	for i, h := range d.StatusHistory {
		history[i] = statusHistoryItemResponse{
			Status:    h.Status,
			Timestamp: h.Timestamp.UTC(),
			ActorID:   h.ActorID,
		}
	}
	return bookingResponse{
		ID:             d.ID,
		Kind:           d.Kind,
		UserID:         d.UserID,
		ResourceID:     d.ResourceID,
		TourID:         d.TourID,
		RoomCount:      d.RoomCount,
		BaseAmount:     d.BaseAmount,
		TaxRatePercent: d.TaxRatePercent,
		TotalAmount:    d.TotalAmount,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		StatusHistory:  history,
		Links:          bookingLinks{Self: "/v1/bookings/" + d.ID},
	}
}

func toListResponse(r *ports.ListBookingsResult) listBookingsResponse {
	items := make([]bookingSummaryResponse, len(r.Items))
	for i, d := range r.Items {
		items[i] = bookingSummaryResponse{
			ID:          d.ID,
			Kind:        d.Kind,
			UserID:      d.UserID,
			ResourceID:  d.ResourceID,
			RoomCount:   d.RoomCount,
			TotalAmount: d.TotalAmount,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt.UTC(),
			Links:       bookingLinks{Self: "/v1/bookings/" + d.ID},
		}
	}
	return listBookingsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
