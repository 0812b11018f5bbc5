package models

// Event is a directory record. Events are display data; nothing in the
// application mutates them.
type Event struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Time         string  `json:"time"`
	Location     string  `json:"location"`
	Country      string  `json:"country"`
	Attendees    int     `json:"attendees"`
	MaxAttendees int     `json:"maxAttendees"`
	Category     string  `json:"category"`
	Price        string  `json:"price"`
	Organizer    string  `json:"organizer"`
	Image        string  `json:"image"`
	Featured     bool    `json:"featured"`
	Rating       float64 `json:"rating"`
}

// AttendancePercent is the share of seats taken, 0 when capacity is unknown
func (e Event) AttendancePercent() float64 {
	if e.MaxAttendees <= 0 {
		return 0
	}
	return float64(e.Attendees) / float64(e.MaxAttendees) * 100
}

// EventListResponse is the body of GET /api/events
type EventListResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}
