package domain

import "time"

// ResourceKind discriminates sellable resource variants and booking targets.
type ResourceKind string

const (
	KindHotel ResourceKind = "hotel"
	KindCab   ResourceKind = "cab"
	KindTour  ResourceKind = "tour" // bookable, but not a sellable resource
)

// Resource is a sellable entity a booking references. A resource with no
// OwnerID is a catalog placeholder. Hotels pool room-units: RoomCapacity is
// the currently sellable count and never exceeds ConfiguredCapacity or drops
// below zero. Cabs carry no mutable capacity.
type Resource struct {
	ID                 string       `json:"id" bson:"_id,omitempty"`
	Kind               ResourceKind `json:"kind" bson:"kind"`
	Name               string       `json:"name" bson:"name"`
	City               string       `json:"city,omitempty" bson:"city,omitempty"`
	OwnerID            string       `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	ConfiguredCapacity int64        `json:"configured_capacity,omitempty" bson:"configured_capacity,omitempty"`
	RoomCapacity       int64        `json:"room_capacity,omitempty" bson:"room_capacity,omitempty"`
	CreatedAt          time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" bson:"updated_at"`
}
