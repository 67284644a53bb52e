package entities

type VehicleRequest struct {
	Model        string  `json:"model"`
	Type         string  `json:"type"`
	DailyRate    float64 `json:"daily_rate"`
	Availability bool    `json:"availability"`
	Seats        int     `json:"seats,omitempty"`
}

type VehicleResponse struct {
	ID           int     `json:"id"`
	Model        string  `json:"model"`
	Type         string  `json:"type"`
	DailyRate    float64 `json:"daily_rate"`
	Availability bool    `json:"availability"`
	Seats        int     `json:"seats,omitempty"`
}

type VehicleList struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Count    int               `json:"count"`
}
