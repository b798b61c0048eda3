package model

type Handle struct {
	Platform string `db:"platform" json:"platform"`
	Handle   string `db:"handle" json:"handle"`
}

// ReportedEntity is the subject of a report, distinct from the reporting
// user. Handles attribute the entity across platforms and feed search.
type ReportedEntity struct {
	Id      string    `json:"id"`
	Name    string    `json:"name"`
	Handles []*Handle `json:"handles"`
}
