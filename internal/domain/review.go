package domain

// ReviewTarget selects what a review is about.
type ReviewTarget string

const (
	ReviewTargetItem        ReviewTarget = "item"
	ReviewTargetCounterpart ReviewTarget = "counterpart"
)

type Review struct {
	ID         int32  `json:"id"`
	ItemID     int32  `json:"item_id"`
	BookingID  int32  `json:"booking_id"`
	ReviewerID int32  `json:"reviewer_id"`
	RevieweeID int32  `json:"reviewee_id"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
	CreatedOn  string `json:"created_on"`

	Reviewer *User `json:"reviewer,omitempty"`
}

// CanReview is true only once the item has been returned.
func CanReview(b *Booking) bool {
	return b.Status == BookingStatusReturned
}

// ResolveRevieweeID picks who a review is about. Item reviews always land
// on the owner; counterpart reviews land on the other side of the booking.
func ResolveRevieweeID(b *Booking, reviewerRole ActorRole, target ReviewTarget) int32 {
	if target == ReviewTargetItem {
		return b.OwnerID
	}
	if reviewerRole == RoleRenter {
		return b.OwnerID
	}
	return b.RenterID
}
