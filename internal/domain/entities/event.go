package entities

// Event is one historical moment referenced by a faction pact.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RealDate    string `json:"real_date,omitempty"`
}
