package domain

import "time"

const DateLayout = "2006-01-02"

var ItemCategories = []string{"Electronics", "Books", "Furniture", "Sports", "Tools", "Clothing", "Kitchen", "Music", "Outdoors", "Other"}

type Item struct {
	ID            int32    `json:"id"`
	OwnerID       int32    `json:"owner_id"`
	Owner         *User    `json:"owner,omitempty"` // Populated when fetching item details
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Category      string   `json:"category" validate:"required"`
	Location      string   `json:"location" validate:"required"`
	PricePerDay   float64  `json:"price_per_day" validate:"gt=0"`
	AvailableFrom *string  `json:"available_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AvailableTo   *string  `json:"available_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ImageURLs     []string `json:"image_urls" validate:"dive,url"`
	IsAvailable   bool     `json:"is_available"`
	CreatedOn     string   `json:"created_on"`
	UpdatedOn     string   `json:"updated_on"`
}

// ItemUpdate is the owner's edit form. Availability and images change only
// through their own operations.
type ItemUpdate struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	PricePerDay   float64 `json:"price_per_day"`
	AvailableFrom *string `json:"available_from,omitempty"`
	AvailableTo   *string `json:"available_to,omitempty"`
}

// Apply copies the editable fields onto i.
func (u ItemUpdate) Apply(i *Item) {
	i.Title = u.Title
	i.Description = u.Description
	i.Category = u.Category
	i.Location = u.Location
	i.PricePerDay = u.PricePerDay
	i.AvailableFrom = u.AvailableFrom
	i.AvailableTo = u.AvailableTo
}

// ValidateListing checks the listing form. The availability window, when
// both ends are set, must end after it starts.
func (i *Item) ValidateListing() error {
	if err := Validate(i); err != nil {
		return err
	}
	if i.AvailableFrom != nil && i.AvailableTo != nil {
		from, _ := time.Parse(DateLayout, *i.AvailableFrom)
		to, _ := time.Parse(DateLayout, *i.AvailableTo)
		if !to.After(from) {
			return NewValidationError("available_to", "must be after available_from")
		}
	}
	return nil
}

// ItemFilter holds the browse/search parameters. Matching is plain
// case-insensitive substring, no ranking.
type ItemFilter struct {
	Query         string
	Category      string
	Location      string
	MaxPrice      float64
	AvailableOnly bool
	Page          int32
	PageSize      int32
}

// CheckWindow rejects a rental that starts before AvailableFrom or ends
// after AvailableTo. Dates are yyyy-mm-dd and already validated.
func (i *Item) CheckWindow(startDate, endDate string) error {
	if i.AvailableFrom != nil && startDate < *i.AvailableFrom {
		return NewValidationError("start_date", "item is available from "+*i.AvailableFrom)
	}
	if i.AvailableTo != nil && endDate > *i.AvailableTo {
		return NewValidationError("end_date", "item is available until "+*i.AvailableTo)
	}
	return nil
}
