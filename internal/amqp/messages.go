package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// DatasetImportedMessage announces that a dataset was written to the
// SQLite store and is ready to be served.
type DatasetImportedMessage struct {
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	ImportedAt time.Time `json:"imported_at"`
}

// NewDatasetImportedMessage stamps the message with the current time.
func NewDatasetImportedMessage(source string, rows int) *DatasetImportedMessage {
	return &DatasetImportedMessage{
		Source:     source,
		Rows:       rows,
		ImportedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetImportedMessageFromJSON decodes and checks a message body.
func DatasetImportedMessageFromJSON(data []byte) (*DatasetImportedMessage, error) {
	var msg DatasetImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Source == "" {
		return nil, fmt.Errorf("dataset imported message: missing source")
	}
	if msg.Rows < 0 {
		return nil, fmt.Errorf("dataset imported message: negative row count %d", msg.Rows)
	}
	return &msg, nil
}
