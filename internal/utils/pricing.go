package utils

import (
	"fmt"
	"math"
	"time"

	"usethis-backend/internal/domain"
)

// ServiceFeeRate is the fixed surcharge added to every rental subtotal.
const ServiceFeeRate = 0.10

// Quote is a rental price breakdown. Amounts are unrounded; round only when
// presenting them (see FormatAmount).
type Quote struct {
	Days       int     `json:"days"`
	DailyRate  float64 `json:"daily_rate"`
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
}

// ParseDate parses a yyyy-mm-dd calendar date in UTC.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// truncateDate drops the clock so day counts follow the calendar.
func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(math.Round(truncateDate(end).Sub(truncateDate(start)).Hours() / 24))
}

// ComputeQuote prices a rental of dailyRate per day from startDate to
// endDate. 2024-01-01 to 2024-01-04 is 3 days.
func ComputeQuote(startDate, endDate time.Time, dailyRate float64) (Quote, error) {
	days := DaysBetween(startDate, endDate)
	if days <= 0 {
		return Quote{}, &domain.InvalidRangeError{
			Start: startDate.Format(domain.DateLayout),
			End:   endDate.Format(domain.DateLayout),
		}
	}

	subtotal := float64(days) * dailyRate
	fee := subtotal * ServiceFeeRate
	return Quote{
		Days:       days,
		DailyRate:  dailyRate,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
	}, nil
}

// ComputeQuoteFromStrings is ComputeQuote over yyyy-mm-dd strings.
func ComputeQuoteFromStrings(startDate, endDate string, dailyRate float64) (Quote, error) {
	start, err := ParseDate("start_date", startDate)
	if err != nil {
		return Quote{}, err
	}
	end, err := ParseDate("end_date", endDate)
	if err != nil {
		return Quote{}, err
	}
	return ComputeQuote(start, end, dailyRate)
}

// FormatAmount renders a currency amount rounded to cents.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", math.Round(amount*100)/100)
}
