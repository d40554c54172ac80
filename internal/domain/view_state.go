package domain

// Everything the dashboard renders.
// Data is replaced wholesale on each successful fetch and left as-is on failure,
// so Error may be shown on top of the last successfully loaded data.
type ViewState struct {
	RouteData
	Mode      Mode   `json:"mode"`
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// HasError reports whether an error should be displayed.
// An error is only meaningful once loading has completed.
func (s ViewState) HasError() bool {
	return !s.IsLoading && s.Error != ""
}
