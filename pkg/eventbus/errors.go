package eventbus

import "errors"

// ErrUnknownEventType indicates a message whose event_type metadata does not
// map to a known event struct.
var ErrUnknownEventType = errors.New("unknown event type")
