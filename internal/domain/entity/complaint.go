package entity

import (
	"math"
	"time"
)

// ComplaintRecentWindow bounds the "recent" count of the complaint statistics.
const ComplaintRecentWindow = 30 * 24 * time.Hour

// Complaint is a customer complaint, optionally about one of their orders.
type Complaint struct {
	ID          uint
	UserID      uint
	OrderID     *uint
	Description string
	Status      ComplaintStatus
	CreatedAt   time.Time
}

// ComplaintStats summarises complaint handling.
type ComplaintStats struct {
	Total    int64
	Recent   int64
	ByStatus map[ComplaintStatus]int64
}

// ResolutionRate is the resolved share in percent, rounded to two decimals.
func (s ComplaintStats) ResolutionRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return math.Round(float64(s.ByStatus[ComplaintStatusResolved])/float64(s.Total)*10000) / 100
}
