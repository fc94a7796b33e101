package booking

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"equishare-gateway/internal/domain"
)

// DefaultDepositAmount is the flat deposit charged when a tool carries no
// replacement value.
const DefaultDepositAmount = 50.00

var (
	ErrInvalidRange = errors.New("end date must not be before start date")
	ErrMissingRate  = errors.New("tool has no rate for its pricing type")
	ErrInvalidTime  = errors.New("time must be HH:MM on a 30-minute boundary")
)

// Selection is a user-chosen rental window. StartTime and EndTime apply only
// to hourly tools and are HH:MM strings on 30-minute boundaries.
type Selection struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
}

// Quote is the priced form of a selection. It is derived, never persisted.
type Quote struct {
	PricingType   domain.PricingType `json:"pricing_type"`
	Units         int                `json:"units"`
	UnitLabel     string             `json:"unit_label"`
	Rate          float64            `json:"rate"`
	RentalTotal   float64            `json:"rental_total"`
	DepositAmount float64            `json:"deposit_amount"`
	TotalDue      float64            `json:"total_due"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
}

// Compute derives duration and monetary totals for the selection against the
// tool's pricing tier. Pure: no I/O, arguments are not mutated. A missing or
// non-positive rate for the active tier fails closed rather than falling back
// to a default.
func Compute(tool *domain.Tool, sel Selection) (Quote, error) {
	if tool == nil {
		return Quote{}, errors.New("tool is required")
	}
	if !tool.PricingType.Valid() {
		return Quote{}, fmt.Errorf("unknown pricing type %q", tool.PricingType)
	}
	if sel.From.IsZero() || sel.To.IsZero() {
		return Quote{}, errors.New("both start and end dates are required")
	}
	if sel.To.Before(sel.From) {
		return Quote{}, ErrInvalidRange
	}

	rate, ok := tool.Rate()
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrMissingRate, tool.PricingType)
	}

	var (
		units int
		label string
		err   error
	)
	switch tool.PricingType {
	case domain.PricingHourly:
		units, err = hourSpan(sel)
		label = "hours"
	case domain.PricingDaily:
		units = daySpan(sel.From, sel.To)
		label = "days"
	case domain.PricingWeekly:
		days := daySpan(sel.From, sel.To)
		units = (days + 6) / 7
		label = "weeks"
	case domain.PricingMonthly:
		units, err = MonthSpan(DateOf(sel.From), DateOf(sel.To))
		label = "months"
	}
	if err != nil {
		return Quote{}, err
	}

	rentalTotal := roundCents(float64(units) * rate)
	deposit := DepositFor(tool)

	return Quote{
		PricingType:   tool.PricingType,
		Units:         units,
		UnitLabel:     label,
		Rate:          rate,
		RentalTotal:   rentalTotal,
		DepositAmount: deposit,
		TotalDue:      roundCents(rentalTotal + deposit),
		StartDate:     DateOf(sel.From).String(),
		EndDate:       DateOf(sel.To).String(),
	}, nil
}

// DepositFor returns the deposit charged for a tool: its replacement value
// when present and positive, else the flat default.
func DepositFor(tool *domain.Tool) float64 {
	if tool != nil && tool.ReplacementValue != nil && *tool.ReplacementValue > 0 {
		return roundCents(tool.ReplacementValue.Float())
	}
	return DefaultDepositAmount
}

// daySpan counts whole days between the two instants, rounding partial days
// up. from == to yields 0; a single-day booking needs to strictly after from.
func daySpan(from, to time.Time) int {
	const day = 24 * time.Hour
	span := to.Sub(from)
	if span <= 0 {
		return 0
	}
	return int(math.Ceil(float64(span) / float64(day)))
}

// hourSpan combines the selected dates with the HH:MM times and counts hours,
// rounding partial hours up.
func hourSpan(sel Selection) (int, error) {
	startH, startM, err := parseClock(sel.StartTime)
	if err != nil {
		return 0, err
	}
	endH, endM, err := parseClock(sel.EndTime)
	if err != nil {
		return 0, err
	}

	start := atClock(sel.From, startH, startM)
	end := atClock(sel.To, endH, endM)
	span := end.Sub(start)
	if span < 0 {
		return 0, ErrInvalidRange
	}
	if span == 0 {
		return 0, nil
	}
	return int(math.Ceil(float64(span) / float64(time.Hour))), nil
}

// parseClock validates an HH:MM option from the 30-minute-aligned pickers.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTime
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTime
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || (minute != 0 && minute != 30) {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

func atClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
