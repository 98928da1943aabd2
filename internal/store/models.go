package store

import "time"

// Indicator is an operator-supplied addition to one of the link heuristic sets.
type Indicator struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"size:16;uniqueIndex:idx_indicator_kind_value;index"`
	Value     string `gorm:"size:255;uniqueIndex:idx_indicator_kind_value"`
	Source    string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IndicatorQuery filters indicator listings.
type IndicatorQuery struct {
	Kind   string
	Offset int
	Limit  int
}
