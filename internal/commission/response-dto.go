package commission

type RateResponse struct {
	Percent    string `json:"percent"`
	Default    string `json:"default"`
	Overridden bool   `json:"overridden"`
}
