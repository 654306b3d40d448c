package domain

// UserData is the advanced-matching identity block of a conversion event.
// Every personally identifying field (em, ph, fn, ln, ct, country and their
// _2 variants) holds a SHA-256 hex digest, never a raw value. fbp/fbc are
// raw browser-correlation cookies; client_ip_address and client_user_agent
// are attached server-side during enrichment.
type UserData struct {
	Email           string `json:"em,omitempty"`
	Phone           string `json:"ph,omitempty"`
	FirstName       string `json:"fn,omitempty"`
	LastName        string `json:"ln,omitempty"`
	City            string `json:"ct,omitempty"`
	Country         string `json:"country,omitempty"`
	ExternalID      string `json:"external_id,omitempty"`
	FBP             string `json:"fbp,omitempty"`
	FBC             string `json:"fbc,omitempty"`
	ClientIPAddress string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`

	Email2     string `json:"em_2,omitempty"`
	Phone2     string `json:"ph_2,omitempty"`
	FirstName2 string `json:"fn_2,omitempty"`
	LastName2  string `json:"ln_2,omitempty"`
}

// CustomData carries the business attribution block of a conversion event.
type CustomData struct {
	Value                 int64  `json:"value,omitempty"`
	Currency              string `json:"currency,omitempty"`
	ContentCategory       string `json:"content_category,omitempty"`
	ContentName           string `json:"content_name,omitempty"`
	ContentType           string `json:"content_type,omitempty"`
	PredictedLTV          int64  `json:"predicted_ltv,omitempty"`
	IncomeType            string `json:"income_type,omitempty"`
	Priority              string `json:"priority,omitempty"`
	ConversionProbability string `json:"conversion_probability,omitempty"`
	ProcessComplexity     string `json:"process_complexity,omitempty"`
	TotalApplicants       int    `json:"total_applicants,omitempty"`
}

// ConversionEvent is one advertising-platform event. EventID is the
// de-duplication key shared between the client pixel and the server relay
// for the same real-world conversion; EventTime is fixed at construction
// and never changes across delivery retries.
type ConversionEvent struct {
	EventName  string     `json:"event_name"`
	EventTime  int64      `json:"event_time"`
	EventID    string     `json:"event_id"`
	UserData   UserData   `json:"user_data"`
	CustomData CustomData `json:"custom_data"`
}

// ConversionBatch is the unit of delivery to the upstream API. It is built
// fresh per relay request and never persisted.
type ConversionBatch struct {
	Events        []ConversionEvent `json:"events"`
	TestEventCode string            `json:"test_event_code,omitempty"`
}
