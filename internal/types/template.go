package types

// Template is a rendering template offered by the backend.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TemplatesResponse is the body of GET /templates.
type TemplatesResponse struct {
	Templates []Template `json:"templates"`
}

// CreateResumeResponse is the body of POST /resume.
type CreateResumeResponse struct {
	ID string `json:"id"`
}

// CopyResumeResponse is the body of GET /copy/{id}/{template}/{order}.
type CopyResumeResponse struct {
	Resume string `json:"resume"`
}
