package analysis

import "time"

// ClassifyRequest is the payload of a single classification: a board
// diagram ('X' black, 'O' white, '.' empty), the mover color ("b"/"w")
// and the candidate point in SGF letters ("dd").
type ClassifyRequest struct {
	Diagram     []string `json:"diagram" bson:"diagram"`
	Color       string   `json:"color" bson:"color"`
	Coordinates string   `json:"coordinates" bson:"coordinates"`
}

type ClassifyResponse struct {
	RequestID string `json:"request_id"`
	Bad       bool   `json:"bad"`
	Cousin    string `json:"cousin,omitempty"`
	Cached    bool   `json:"cached"`
}

type CousinResponse struct {
	RequestID string `json:"request_id"`
	Cousin    string `json:"cousin,omitempty"`
}

// CachedVerdict is the redis-cached part of a classification.
type CachedVerdict struct {
	Bad    bool   `json:"bad"`
	Cousin string `json:"cousin,omitempty"`
}

// Record is an archived analysis as stored in mongo.
type Record struct {
	RequestID   string    `json:"request_id" bson:"request_id"`
	Diagram     []string  `json:"diagram" bson:"diagram"`
	Color       string    `json:"color" bson:"color"`
	Coordinates string    `json:"coordinates" bson:"coordinates"`
	Bad         bool      `json:"bad" bson:"bad"`
	Cousin      string    `json:"cousin,omitempty" bson:"cousin,omitempty"`
	Status      string    `json:"status" bson:"status"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type ArchiveResponse struct {
	Analyses   []Record `json:"analyses"`
	PageNum    int      `json:"page_num"`
	TotalPages int      `json:"total_pages"`
}

// BatchItem is one move in the websocket stream; the id is echoed back so
// the client can match verdicts to moves.
type BatchItem struct {
	ID string `json:"id"`
	ClassifyRequest
}

type BatchVerdict struct {
	ID     string `json:"id"`
	Bad    bool   `json:"bad"`
	Cousin string `json:"cousin,omitempty"`
	Error  string `json:"error,omitempty"`
}
