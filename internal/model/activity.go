package model

// Activity types.
const (
	ActivityBoardinghouse = "boardinghouse"
	ActivityRoom          = "room"
	ActivityAccount       = "account"
)

// ActivityEntry is one line of an owner's activity feed.  TS is unix
// milliseconds.
type ActivityEntry struct {
	ID      string            `json:"id"`
	TS      int64             `json:"ts"`
	Message string            `json:"message"`
	Type    string            `json:"type,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}
