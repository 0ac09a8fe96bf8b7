package reward

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustTable(t *testing.T, s string) Table {
	t.Helper()
	table, err := ParseTable(s)
	if err != nil {
		t.Fatalf("ParseTable(%q): %v", s, err)
	}
	return table
}

func TestParseTable(t *testing.T) {
	table := mustTable(t, "0:1, 5000:2 ,10000:3")
	if len(table) != 3 {
		t.Fatalf("got %d tiers, want 3", len(table))
	}
	if table[1].Percent != 2 || !table[1].Threshold.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("unexpected second tier: %+v", table[1])
	}
}

func TestParseTableRejectsInvalid(t *testing.T) {
	cases := []string{
		"",              // empty
		"100:1,5000:2",  // first threshold not zero
		"0:1,5000:2,5000:3", // not strictly increasing
		"0:1,abc:2",
		"0:1,5000",
	}
	for _, s := range cases {
		if _, err := ParseTable(s); err == nil {
			t.Errorf("ParseTable(%q) accepted invalid input", s)
		}
	}
}

func TestMetricsFor(t *testing.T) {
	table := mustTable(t, "0:1,5000:2,10000:3")

	tests := []struct {
		name        string
		spend       int64
		percent     int
		next        int64
		progress    int
		amountToNext int64
	}{
		{"mid tier", 7000, 2, 10000, 40, 3000},
		{"zero spend", 0, 1, 5000, 0, 5000},
		{"exact threshold", 5000, 2, 10000, 0, 5000},
		{"just below threshold", 4999, 1, 5000, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := table.MetricsFor(decimal.NewFromInt(tt.spend))
			if m.DiscountPercent != tt.percent {
				t.Errorf("percent = %d, want %d", m.DiscountPercent, tt.percent)
			}
			if !m.NextThreshold.Equal(decimal.NewFromInt(tt.next)) {
				t.Errorf("next = %s, want %d", m.NextThreshold, tt.next)
			}
			if m.ProgressPercent != tt.progress {
				t.Errorf("progress = %d, want %d", m.ProgressPercent, tt.progress)
			}
			if !m.AmountToNext.Equal(decimal.NewFromInt(tt.amountToNext)) {
				t.Errorf("amountToNext = %s, want %d", m.AmountToNext, tt.amountToNext)
			}
		})
	}
}

func TestMetricsForTopTier(t *testing.T) {
	table := mustTable(t, "0:1,5000:2,10000:3")
	m := table.MetricsFor(decimal.NewFromInt(250000))
	if m.DiscountPercent != 3 {
		t.Errorf("percent = %d, want 3", m.DiscountPercent)
	}
	if m.ProgressPercent != 100 {
		t.Errorf("progress = %d, want 100", m.ProgressPercent)
	}
	if !m.NextThreshold.IsZero() || !m.AmountToNext.IsZero() {
		t.Errorf("top tier should have zero next threshold and amount, got %s / %s", m.NextThreshold, m.AmountToNext)
	}
}

func TestEarnedFreeItems(t *testing.T) {
	tests := []struct {
		old, added, every, want int
	}{
		{5, 2, 6, 1},
		{0, 5, 6, 0},
		{0, 6, 6, 1},
		{0, 13, 6, 2},
		{11, 1, 6, 1},
		{5, 2, 0, 0},  // feature off
		{5, 2, -1, 0}, // feature off
		{6, 0, 6, 0},
	}
	for _, tt := range tests {
		if got := EarnedFreeItems(tt.old, tt.added, tt.every); got != tt.want {
			t.Errorf("EarnedFreeItems(%d, %d, %d) = %d, want %d", tt.old, tt.added, tt.every, got, tt.want)
		}
	}
}

func TestFreeItemProgress(t *testing.T) {
	towards, needed := FreeItemProgress(7, 6)
	if towards != 1 || needed != 5 {
		t.Errorf("got (%d, %d), want (1, 5)", towards, needed)
	}

	towards, needed = FreeItemProgress(4, 0)
	if towards != 0 || needed != 0 {
		t.Errorf("with feature off got (%d, %d), want (0, 0)", towards, needed)
	}
}
