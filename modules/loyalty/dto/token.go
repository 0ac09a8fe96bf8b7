package dto

import (
	"errors"
	"time"
)

type IssueTokenRequest struct {
	CustomerID int64 `json:"customer_id"`
}

func (r *IssueTokenRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customer_id must be a positive integer")
	}
	return nil
}

type IssueTokenResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
