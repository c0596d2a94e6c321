package commission

// SetRateRequest carries a percentage such as "10" or "12.5".
type SetRateRequest struct {
	Percent string `json:"percent" validate:"required,numeric"`
}
