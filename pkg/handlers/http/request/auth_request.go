package request

// CallbackRequest is read from the query string on GET and from the body
// on POST.
type CallbackRequest struct {
	Code  string `json:"code" query:"code"`
	State string `json:"state" query:"state"`
	Error string `json:"error" query:"error"`
}
