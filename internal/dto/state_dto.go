package dto

type ResetStateRequest struct {
	ForgeId string `json:"forge_id" validate:"required"`
}
