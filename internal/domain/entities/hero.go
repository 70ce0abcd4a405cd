package entities

// Hero is the resource served under api/heroes. ID is assigned by the server.
type Hero struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}
