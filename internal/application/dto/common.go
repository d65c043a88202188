package dto

// PageRequest carries list pagination.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage applies defaults when Limit/Offset are unset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse is the HTTP error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
