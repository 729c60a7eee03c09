package dto

type ProcessContributionRequest struct {
	ForgeId           string `json:"forgeId" validate:"required"`
	NewContributionId string `json:"newContributionId" validate:"required"`
}

type ProcessContributionResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ContributionId string `json:"contributionId"`
}

// ProcessContributionTask is the queue payload handed from the webhook to the
// background consumer.
type ProcessContributionTask struct {
	ForgeId        string `json:"forgeId"`
	ContributionId string `json:"contributionId"`
}
