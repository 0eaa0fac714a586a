// Package audit captures calculation events for auditability. Services record
// events through a Recorder into an append-only store; a background worker
// drains unpublished events to Kafka so downstream consumers see every
// verdict and rationale without coupling request latency to the broker.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fiducia/pkg/domain"
)

// Kind names the calculation that produced an event.
type Kind string

const (
	KindSRTEvaluation      Kind = "srt_evaluation"
	KindSAPresence         Kind = "sa_presence_evaluation"
	KindUKTaxEstimate      Kind = "uk_tax_estimate"
	KindSATaxEstimate      Kind = "sa_tax_estimate"
	KindIHTCalculation     Kind = "iht_calculation"
	KindGiftAnalysis       Kind = "gift_analysis"
	KindSADutyCalculation  Kind = "sa_duty_calculation"
	KindGoalOptimization   Kind = "goal_optimization"
)

// Event is one recorded calculation. Payload holds the full result snapshot;
// Summary is a one-line human rationale for log and stream consumers.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    domain.UserID   `json:"user_id"`
	RequestID string          `json:"request_id,omitempty"`
	Kind      Kind            `json:"kind"`
	TaxYear   domain.TaxYear  `json:"tax_year,omitempty"`
	Summary   string          `json:"summary"`
	Payload   json.RawMessage `json:"payload"`

	// PublishedAt is nil while the event sits in the outbox.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// NewEvent builds an event with a fresh ID, marshalling the result payload.
func NewEvent(kind Kind, userID domain.UserID, year domain.TaxYear, summary string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal audit payload: %w", err)
	}
	return Event{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    kind,
		TaxYear: year,
		Summary: summary,
		Payload: raw,
	}, nil
}
