package amqp

import (
	"encoding/json"
	"time"
)

// PeriodMaterializedMessage announces that a materialization run finished
// for one period. Consumers re-read the period from the database; the
// message carries only the run counters.
type PeriodMaterializedMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Created   int       `json:"created"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPeriodMaterializedMessage(year, month, created, failed int) *PeriodMaterializedMessage {
	return &PeriodMaterializedMessage{
		Year:      year,
		Month:     month,
		Created:   created,
		Failed:    failed,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PeriodMaterializedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func PeriodMaterializedMessageFromJSON(data []byte) (*PeriodMaterializedMessage, error) {
	var msg PeriodMaterializedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
