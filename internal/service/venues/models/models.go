package models

import "github.com/m04kA/SMC-VenueBookingService/internal/domain"

// VenueResponse площадка
type VenueResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"isActive"`
}

// VenueListResponse список площадок
type VenueListResponse struct {
	Venues []VenueResponse `json:"venues"`
}

// FromDomainVenueList конвертирует список domain моделей в DTO
func FromDomainVenueList(list []*domain.Venue) *VenueListResponse {
	resp := &VenueListResponse{Venues: make([]VenueResponse, 0, len(list))}
	for _, v := range list {
		resp.Venues = append(resp.Venues, VenueResponse{
			ID:       v.ID,
			Name:     v.Name,
			Capacity: v.Capacity,
			IsActive: v.IsActive,
		})
	}
	return resp
}
