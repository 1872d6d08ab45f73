package stripewebhook

// Outcome classifies what handling a webhook event did. Every event maps
// to exactly one outcome, and every outcome is still acknowledged with
// HTTP 200 so the processor does not retry forever.
type Outcome string

const (
	OutcomePersisted          Outcome = "persisted"
	OutcomeDuplicate          Outcome = "duplicate"
	OutcomeSkipped            Outcome = "skipped"
	OutcomeInvalidPayload     Outcome = "invalid_payload"
	OutcomePersistFailedAcked Outcome = "persist_failed_acked"
)

func (o Outcome) String() string {
	return string(o)
}
