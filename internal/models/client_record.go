package models

// ClientRecord is the persisted showcase. Records are written once and never
// updated.
type ClientRecord struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        Category     `json:"type"`
	BeforeImage EncodedImage `json:"beforeImage"`
	AfterImage  EncodedImage `json:"afterImage"`
	Date        string       `json:"date"`
}

// Complete reports whether every required field is present.
func (r *ClientRecord) Complete() bool {
	return r != nil &&
		r.ID != "" &&
		r.Name != "" &&
		r.Type != "" &&
		r.BeforeImage != "" &&
		r.AfterImage != ""
}

// ShowcasePath is the shareable path of the read-only showcase view.
func (r *ClientRecord) ShowcasePath() string {
	return "/showcase/" + r.ID
}

type ShowcaseResponse struct {
	*ClientRecord
	CategoryLabel string `json:"categoryLabel"`
	ShowcasePath  string `json:"showcasePath"`
}

func NewShowcaseResponse(r *ClientRecord) ShowcaseResponse {
	return ShowcaseResponse{
		ClientRecord:  r,
		CategoryLabel: r.Type.Label(),
		ShowcasePath:  r.ShowcasePath(),
	}
}
