package domain

type InquiryStatus string

const (
	InquiryStatusOpen      InquiryStatus = "open"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusClosed    InquiryStatus = "closed"
)

var inquiryTransitions = map[InquiryStatus][]InquiryStatus{
	InquiryStatusOpen:      {InquiryStatusResponded, InquiryStatusClosed},
	InquiryStatusResponded: {},
	InquiryStatusClosed:    {},
}

type Inquiry struct {
	ID             int32         `json:"id"`
	ItemID         int32         `json:"item_id"`
	InquirerID     int32         `json:"inquirer_id"`
	OwnerID        int32         `json:"owner_id"`
	Subject        string        `json:"subject" validate:"required,max=200"`
	Message        string        `json:"message" validate:"required,max=5000"`
	Status         InquiryStatus `json:"status"`
	ConversationID *int32        `json:"conversation_id,omitempty"`
	CreatedOn      string        `json:"created_on"`
	UpdatedOn      string        `json:"updated_on"`
}

func (s InquiryStatus) CanTransitionTo(target InquiryStatus) bool {
	for _, t := range inquiryTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionInquiry returns the inquiry moved to target. Only the owner the
// inquiry was sent to may respond or close it.
func TransitionInquiry(inq Inquiry, actorID int32, target InquiryStatus) (Inquiry, error) {
	action := "respond to"
	if target == InquiryStatusClosed {
		action = "close"
	}
	if actorID != inq.OwnerID {
		return inq, &InvalidTransitionError{Entity: "inquiry", From: string(inq.Status), Action: action, Reason: "only the owner may answer an inquiry"}
	}
	if !inq.Status.CanTransitionTo(target) {
		return inq, &InvalidTransitionError{Entity: "inquiry", From: string(inq.Status), Action: action}
	}
	inq.Status = target
	return inq, nil
}
