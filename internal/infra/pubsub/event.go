package pubsub

import (
	"encoding/json"
	"strconv"

	"docvault/internal/domain/service"

	"github.com/pkg/errors"
)

// eventSchemaVersion is bumped whenever the JSON shape of service.AccountEvent changes incompatibly.
const eventSchemaVersion = 1

// encodedEvent is an account event in transport-neutral form.
type encodedEvent struct {
	data       []byte
	attributes map[string]string
	// orderingKey keeps the events of one account in publish order.
	orderingKey string
}

func encodeEvent(event *service.AccountEvent) (*encodedEvent, error) {
	if event == nil {
		return nil, errors.New("nil account event")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode account event")
	}

	return &encodedEvent{
		data:        data,
		attributes:  eventAttributes(event),
		orderingKey: event.UserID,
	}, nil
}

func eventAttributes(event *service.AccountEvent) map[string]string {
	attributes := map[string]string{
		"event_type":     event.Type,
		"user_id":        event.UserID,
		"schema_version": strconv.Itoa(eventSchemaVersion),
	}
	if event.DocumentID != "" {
		attributes["document_id"] = event.DocumentID
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
