package events

const (
	StreamName   = "BALANCE_EVENTS"
	StreamMaxAge = "720h" // 30 days

	SubjectSettingsUpdated = "procure.settings.updated"
)

func SubjectAssigned(requestID string) string      { return "procure.assign." + requestID + ".assigned" }
func SubjectUnmatched(requestID string) string     { return "procure.assign." + requestID + ".unmatched" }
func SubjectLowConfidence(requestID string) string { return "procure.assign." + requestID + ".low_confidence" }
func SubjectLearned(requestID string) string       { return "procure.learn." + requestID + ".recorded" }
