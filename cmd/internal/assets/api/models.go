package assetsapi

import (
	"time"

	"portfolio/cmd/internal/assets"
)

type authRequest struct {
	Password *string `json:"password"`
}

type listingResponse struct {
	Files assets.Listing `json:"files"`
}

type authSuccessResponse struct {
	Success   bool           `json:"success"`
	Token     string         `json:"token"`
	Files     assets.Listing `json:"files"`
	ExpiresAt time.Time      `json:"expires_at"`
}

type authFailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
