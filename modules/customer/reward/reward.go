package reward

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier is one spend threshold at which a discount percent applies.
type Tier struct {
	Threshold decimal.Decimal
	Percent   int
}

// Table is an ordered discount tier table: thresholds strictly increasing,
// first threshold zero. A customer's discount is the percent of the highest
// threshold not exceeding their total spend.
type Table []Tier

func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("discount tier table must not be empty")
	}
	if !t[0].Threshold.IsZero() {
		return fmt.Errorf("first discount tier threshold must be zero")
	}
	for i := 1; i < len(t); i++ {
		if t[i].Threshold.LessThanOrEqual(t[i-1].Threshold) {
			return fmt.Errorf("discount tier thresholds must be strictly increasing")
		}
	}
	return nil
}

// ParseTable parses "0:1,5000:2,10000:3" into a Table.
func ParseTable(s string) (Table, error) {
	var table Table
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid discount tier %q, want threshold:percent", pair)
		}
		threshold, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid discount tier threshold %q: %w", parts[0], err)
		}
		percent, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid discount tier percent %q: %w", parts[1], err)
		}
		table = append(table, Tier{Threshold: threshold, Percent: percent})
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// TierMetrics describes where a customer sits in the discount table.
type TierMetrics struct {
	DiscountPercent int
	NextThreshold   decimal.Decimal // zero when at the top tier
	ProgressPercent int             // 0..100 toward the next tier, 100 at the top
	AmountToNext    decimal.Decimal // zero when at the top tier
}

// MetricsFor finds the highest tier whose threshold does not exceed spend and
// the progress toward the next one.
func (t Table) MetricsFor(spend decimal.Decimal) TierMetrics {
	current := 0
	for i, tier := range t {
		if tier.Threshold.LessThanOrEqual(spend) {
			current = i
		} else {
			break
		}
	}

	m := TierMetrics{DiscountPercent: t[current].Percent}

	if current == len(t)-1 {
		m.ProgressPercent = 100
		return m
	}

	next := t[current+1]
	m.NextThreshold = next.Threshold
	m.AmountToNext = next.Threshold.Sub(spend)

	span := next.Threshold.Sub(t[current].Threshold)
	done := spend.Sub(t[current].Threshold)
	progress := done.Mul(decimal.NewFromInt(100)).Div(span).Round(0).IntPart()
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	m.ProgressPercent = int(progress)
	return m
}

// EarnedFreeItems computes how many free items a balance change unlocks:
// floor(new/every) - floor(old/every). Disabled when every <= 0.
func EarnedFreeItems(oldPaidCount, paidItemsAdded, every int) int {
	if every <= 0 {
		return 0
	}
	newPaidCount := oldPaidCount + paidItemsAdded
	return newPaidCount/every - oldPaidCount/every
}

// FreeItemProgress reports paid items counted toward the next free item and
// how many more are needed. With every <= 0 the feature is off.
func FreeItemProgress(paidCount, every int) (towards, needed int) {
	if every <= 0 {
		return 0, 0
	}
	towards = paidCount % every
	return towards, every - towards
}
