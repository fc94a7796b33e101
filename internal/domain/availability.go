package domain

// BookedWindow is one backend-reported interval during which a tool is
// unavailable. Type is informational ("rental", "request", "availability").
type BookedWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Type      string `json:"type"`
}

// ToolAvailability is the payload of GET /api/tools/{id}/availability/.
// Not a persisted entity on the client; recomputed per fetch.
type ToolAvailability struct {
	ToolID      int32          `json:"tool_id"`
	ToolName    string         `json:"tool_name"`
	IsAvailable bool           `json:"is_available"`
	BookedDates []BookedWindow `json:"booked_dates"`
}
