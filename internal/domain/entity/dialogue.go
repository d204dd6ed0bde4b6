package entity

import "strings"

// Role prefixes used to tag each utterance so that flattened text can be
// split back into speaker segments.
const (
	CustomerTurnPrefix = "customer:"
	AgentTurnPrefix    = "agent:"
)

// Dialogue is the ordered utterance list of one simulated conversation.
// Each entry carries its role prefix.
type Dialogue []string

// CustomerTurn wraps an utterance with the customer role prefix.
func CustomerTurn(utterance string) string {
	return CustomerTurnPrefix + " " + utterance
}

// AgentTurn wraps an utterance with the agent role prefix.
func AgentTurn(utterance string) string {
	return AgentTurnPrefix + " " + utterance
}

// SplitTurn separates an utterance into its speaker prefix and content.
func SplitTurn(utterance string) (speaker, content string) {
	if strings.HasPrefix(utterance, CustomerTurnPrefix) {
		return "customer", strings.TrimSpace(utterance[len(CustomerTurnPrefix):])
	}
	if strings.HasPrefix(utterance, AgentTurnPrefix) {
		return "agent", strings.TrimSpace(utterance[len(AgentTurnPrefix):])
	}
	return "", strings.TrimSpace(utterance)
}

// DataRecord is one persisted corpus entry, line-aligned with its KBRecord.
type DataRecord struct {
	Intent         Intent   `json:"intent" bson:"intent"`
	Dialogue       Dialogue `json:"dialogue,omitempty" bson:"dialogue,omitempty"`
	Action         Action   `json:"action" bson:"action"`
	ExpectedAction Action   `json:"expected_action" bson:"expected_action"`
	CorrectSample  *bool    `json:"correct_sample,omitempty" bson:"correct_sample,omitempty"`
}

// IsCorrect reports the correct_sample flag, defaulting to true when the
// field is absent (synthesized data is correct by construction).
func (r DataRecord) IsCorrect() bool {
	return r.CorrectSample == nil || *r.CorrectSample
}
