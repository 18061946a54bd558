package dto

// CheckoutRequestDTO is the request body for starting a Stripe checkout
type CheckoutRequestDTO struct {
	Plan string `json:"plan" validate:"required,oneof=pro enterprise"`
}

// CheckoutResponseDTO carries the Stripe-hosted page URL
type CheckoutResponseDTO struct {
	URL string `json:"url"`
}
