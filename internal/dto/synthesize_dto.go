package dto

type SynthesizeRequest struct {
	ForgeId string `json:"forge_id" validate:"required"`
}

type SynthesizeResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SynthesisId string `json:"synthesis_id"`
}
