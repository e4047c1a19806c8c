package status

import "time"

// UpdatePhase represents the outcome of the last update of a component
type UpdatePhase string

const (
	// UpdatePhaseUpdating means an update is currently in progress
	UpdatePhaseUpdating UpdatePhase = "Updating"

	// UpdatePhaseUpdated means the last update changed the component
	UpdatePhaseUpdated UpdatePhase = "Updated"

	// UpdatePhaseUpToDate means the last update found nothing newer
	UpdatePhaseUpToDate UpdatePhase = "UpToDate"

	// UpdatePhaseFailed means the last update failed
	UpdatePhaseFailed UpdatePhase = "Failed"
)

// UpdateStatus represents the update state of one component
type UpdateStatus struct {
	// Phase is the outcome of the last update attempt
	Phase UpdatePhase `json:"phase"`

	// Message provides additional information about the last attempt
	Message string `json:"message,omitempty"`

	// LastAttempt is the timestamp of the last update attempt
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of failed attempts since the last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// LastUpdateTime is the timestamp of the last successful update
	LastUpdateTime *time.Time `json:"lastUpdateTime,omitempty"`

	// LastDigest is the SHA-256 digest of the last downloaded content
	LastDigest string `json:"lastDigest,omitempty"`

	// Version is the component version after the last successful update
	Version string `json:"version,omitempty"`
}

// RecordSuccess marks an attempt at now as successful
func (s *UpdateStatus) RecordSuccess(now time.Time, changed bool, message string) {
	s.Phase = UpdatePhaseUpToDate
	if changed {
		s.Phase = UpdatePhaseUpdated
	}
	s.Message = message
	s.LastAttempt = &now
	s.LastUpdateTime = &now
	s.AttemptCount = 0
}

// RecordFailure marks an attempt at now as failed
func (s *UpdateStatus) RecordFailure(now time.Time, err error) {
	s.Phase = UpdatePhaseFailed
	s.Message = err.Error()
	s.LastAttempt = &now
	s.AttemptCount++
}
