package domain

import "time"

type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// GeoPoint is a WGS 84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Listing struct {
	ID            string
	HostID        string
	Name          string
	Address       string
	Description   string
	GuestCapacity int
	PhotoURLs     []string
	Location      GeoPoint
	CreatedAt     time.Time
}

type Booking struct {
	ID           string
	ListingID    string
	GuestID      string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Status       BookingStatus
}

// IsActive reports whether the booking still blocks its listing: it has not
// been cancelled and its check-out date is today or later.
func (b *Booking) IsActive(today time.Time) bool {
	return b.Status != BookingCancelled && !b.CheckOutDate.Before(today)
}

// Overlaps tests the stay interval [CheckInDate, CheckOutDate) against the
// half-open query interval [checkIn, checkOut). Touching intervals do not
// overlap: a stay ending on the query's check-in day leaves the night free.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate)
}

type Favorite struct {
	ID        string
	GuestID   string
	ListingID string
	CreatedAt time.Time
}

// SearchQuery carries an already validated search request. It is never persisted.
type SearchQuery struct {
	Center      GeoPoint
	RadiusKm    float64
	CheckIn     time.Time
	CheckOut    time.Time
	MinCapacity int
}
