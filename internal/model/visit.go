package model

// VisitPerson is a visitor name and identity document (RG).
type VisitPerson struct {
	Name     string `json:"name" example:"Beatriz Lima"`
	Document string `json:"document" example:"12.345.678-9"`
}

// VisitRequest is the body of POST /visits
type VisitRequest struct {
	Name       string        `json:"name" example:"Antonio Magno Lima Espeschit"`
	Document   string        `json:"document" example:"12.345.678-9"`
	Companions []VisitPerson `json:"companions"`
}

// VisitResponse confirms a visit registration
type VisitResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	VisitID  string `json:"visitId"`
	Visitors int    `json:"visitors"`
}
