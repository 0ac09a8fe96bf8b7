package dto

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRedeemRequestValidate(t *testing.T) {
	valid := RedeemRequest{
		Code:    "ABC123",
		Amount:  decimal.NewFromInt(500),
		ActorID: 7,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RedeemRequest)
		want   string
	}{
		{"missing code", func(r *RedeemRequest) { r.Code = "" }, "code is required"},
		{"negative amount", func(r *RedeemRequest) { r.Amount = decimal.NewFromInt(-1) }, "amount must not be negative"},
		{"negative paid items", func(r *RedeemRequest) { r.PaidItems = -1 }, "paid_items must not be negative"},
		{"negative free items", func(r *RedeemRequest) { r.FreeItemsUsed = -2 }, "free_items_used must not be negative"},
		{"missing actor", func(r *RedeemRequest) { r.ActorID = 0 }, "actor_id must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
