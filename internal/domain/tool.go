package domain

type PricingType string

const (
	PricingHourly  PricingType = "hourly"
	PricingDaily   PricingType = "daily"
	PricingWeekly  PricingType = "weekly"
	PricingMonthly PricingType = "monthly"
)

// Valid reports whether p is one of the four known pricing tiers.
func (p PricingType) Valid() bool {
	switch p {
	case PricingHourly, PricingDaily, PricingWeekly, PricingMonthly:
		return true
	}
	return false
}

// Tool is a rentable item as served by the backend. Exactly one of the four
// price fields is authoritative, selected by PricingType.
type Tool struct {
	ID               int32       `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	ImageURL         string      `json:"imageUrl"`
	PricingType      PricingType `json:"pricing_type"`
	PricePerHour     *Decimal    `json:"price_per_hour,omitempty"`
	PricePerDay      *Decimal    `json:"price_per_day,omitempty"`
	PricePerWeek     *Decimal    `json:"price_per_week,omitempty"`
	PricePerMonth    *Decimal    `json:"price_per_month,omitempty"`
	IsAvailable      bool        `json:"isAvailable"`
	Owner            *User       `json:"owner,omitempty"`
	OwnerID          int32       `json:"owner_id"`
	ReplacementValue *Decimal    `json:"replacement_value,omitempty"`
}

// Rate returns the rate for the tool's active pricing tier. The second return
// is false when the tier's price field is absent or non-positive.
func (t *Tool) Rate() (float64, bool) {
	var p *Decimal
	switch t.PricingType {
	case PricingHourly:
		p = t.PricePerHour
	case PricingDaily:
		p = t.PricePerDay
	case PricingWeekly:
		p = t.PricePerWeek
	case PricingMonthly:
		p = t.PricePerMonth
	}
	if p == nil || *p <= 0 {
		return 0, false
	}
	return p.Float(), true
}
