package shared

// Task type names for asynq, grouped by owning domain.
const (
	// Offer tasks
	TypeRecordOfferUsage           = "offer:record_usage"
	TypeDeactivateExpiredCampaigns = "offer:deactivate_expired"
)

// Queue names, ordered by worker priority.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
