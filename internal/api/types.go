package api

type BookAppointmentRequest struct {
	ProviderID string `json:"provider_id"`
	SlotID     string `json:"slot_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
