package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatchProgressEvent is broadcast once per pair as a batch run progresses,
// and once when the batch finishes.
type MatchProgressEvent struct {
	Type        string  `json:"type"`
	JDID        string  `json:"jd_id"`
	CandidateID string  `json:"candidate_id,omitempty"`
	Status      string  `json:"status,omitempty"`
	ErrorKind   string  `json:"error_kind,omitempty"`
	TotalScore  float64 `json:"total_score,omitempty"`
	Timestamp   string  `json:"timestamp"`
}

const (
	EventPairScored   = "pair_scored"
	EventPairFailed   = "pair_failed"
	EventBatchStarted = "batch_started"
	EventBatchDone    = "batch_done"
)

// Notifier publishes match progress to a hub. A nil Notifier drops events,
// so callers never need to guard.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) publish(evt MatchProgressEvent) {
	if n == nil || n.hub == nil {
		return
	}
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}

func (n *Notifier) BatchStarted(jdID uuid.UUID) {
	n.publish(MatchProgressEvent{Type: EventBatchStarted, JDID: jdID.String()})
}

func (n *Notifier) BatchDone(jdID uuid.UUID) {
	n.publish(MatchProgressEvent{Type: EventBatchDone, JDID: jdID.String()})
}

func (n *Notifier) PairScored(jdID, candidateID uuid.UUID, totalScore float64) {
	n.publish(MatchProgressEvent{
		Type:        EventPairScored,
		JDID:        jdID.String(),
		CandidateID: candidateID.String(),
		Status:      "succeeded",
		TotalScore:  totalScore,
	})
}

func (n *Notifier) PairFailed(jdID, candidateID uuid.UUID, errorKind string) {
	n.publish(MatchProgressEvent{
		Type:        EventPairFailed,
		JDID:        jdID.String(),
		CandidateID: candidateID.String(),
		Status:      "failed",
		ErrorKind:   errorKind,
	})
}
