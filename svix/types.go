package svix

import "time"

// Ordering selects the listing direction for cursor-paginated calls.
type Ordering string

const (
	// OrderingAscending lists entities oldest first.
	OrderingAscending Ordering = "ascending"

	// OrderingDescending lists entities newest first.
	OrderingDescending Ordering = "descending"
)

// ApplicationIn is the creation payload for an application, the per-event-type
// container grouping endpoints and messages.
type ApplicationIn struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

// ApplicationOut is an application as returned by the delivery service.
type ApplicationOut struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	UID  string `json:"uid"`
}

// EventTypeIn is the creation payload for an event type.
type EventTypeIn struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schemas     map[string]any `json:"schemas,omitempty"`
}

// EventTypeUpdate is the update payload for an event type. Updating an
// archived event type revives it.
type EventTypeUpdate struct {
	Description string         `json:"description"`
	Schemas     map[string]any `json:"schemas,omitempty"`
}

// EventTypeOut is an event type as returned by the delivery service.
type EventTypeOut struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schemas     map[string]any `json:"schemas,omitempty"`
	Archived    bool           `json:"archived"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// EventTypeListOptions configures event type listing.
type EventTypeListOptions struct {
	Iterator        string
	WithContent     bool
	IncludeArchived bool
}

// EndpointIn is the creation payload for an endpoint.
type EndpointIn struct {
	URL         string            `json:"url"`
	UID         string            `json:"uid"`
	Version     int               `json:"version"`
	FilterTypes []string          `json:"filterTypes,omitempty"`
	Channels    []string          `json:"channels,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// EndpointOut is an endpoint as returned by the delivery service.
type EndpointOut struct {
	ID          string            `json:"id"`
	UID         string            `json:"uid"`
	URL         string            `json:"url"`
	FilterTypes []string          `json:"filterTypes,omitempty"`
	Channels    []string          `json:"channels,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// EndpointListOptions configures endpoint listing.
type EndpointListOptions struct {
	Iterator string
	Order    Ordering
}

// MessageIn is the submission payload for a message.
type MessageIn struct {
	EventType string `json:"eventType"`
	Payload   any    `json:"payload"`
	// Channels scopes delivery: endpoints filtering on channels only receive
	// messages tagged with one of theirs. Untagged messages reach every
	// endpoint without a channel filter.
	Channels []string `json:"channels,omitempty"`
	// PayloadRetentionPeriod is how long the service retains the payload,
	// in days.
	PayloadRetentionPeriod int `json:"payloadRetentionPeriod,omitempty"`
}

// MessageOut is an accepted message as returned by the delivery service.
type MessageOut struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType"`
	Channels  []string  `json:"channels,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EndpointMessageOut is a message addressed to a specific endpoint, as
// returned by the attempted-messages listing.
type EndpointMessageOut struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType"`
	Payload   map[string]any `json:"payload"`
	Channels  []string       `json:"channels,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// MessageAttemptOut is a single delivery attempt record.
type MessageAttemptOut struct {
	ID                 string    `json:"id"`
	MsgID              string    `json:"msgId"`
	URL                string    `json:"url"`
	Response           string    `json:"response"`
	ResponseStatusCode int       `json:"responseStatusCode"`
	Timestamp          time.Time `json:"timestamp"`
}

// AttemptListOptions configures attempt history listing. Before and After
// bound the time window as [After, Before).
type AttemptListOptions struct {
	Iterator string
	Before   *time.Time
	After    *time.Time
}
