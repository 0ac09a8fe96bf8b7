package dto

import (
	"encoding/base64"
	"errors"
)

type BroadcastRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	Caption     string `json:"caption"`
}

func (r *BroadcastRequest) Validate() error {
	if r.Text == "" && r.ImageBase64 == "" {
		return errors.New("either text or image_base64 is required")
	}
	if r.Text != "" && r.ImageBase64 != "" {
		return errors.New("text and image_base64 are mutually exclusive")
	}
	if r.ImageBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(r.ImageBase64); err != nil {
			return errors.New("image_base64 is not valid base64")
		}
	}
	return nil
}

func (r *BroadcastRequest) DecodeImage() ([]byte, error) {
	if r.ImageBase64 == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(r.ImageBase64)
}

type BroadcastResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
	Total        int `json:"total"`
}
