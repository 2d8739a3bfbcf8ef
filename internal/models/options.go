package models

// FlightOption is one upstream flight search result.
type FlightOption struct {
	Airline   string  `json:"airline"`
	FlightNo  string  `json:"flight_no"`
	Origin    string  `json:"origin"`
	Departure string  `json:"departure"`
	Price     float64 `json:"price"`
	Class     string  `json:"class"`
	RedEye    bool    `json:"red_eye"`
}

// HotelOption is one upstream hotel search result.
type HotelOption struct {
	Name          string  `json:"name"`
	StarRating    int     `json:"star_rating"`
	PricePerNight float64 `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	PetFriendly   bool    `json:"pet_friendly"`
}

// CarOption is one upstream car rental search result.
type CarOption struct {
	Vendor     string  `json:"vendor"`
	Category   string  `json:"category"`
	DailyPrice float64 `json:"daily_price"`
}

// SearchRequest is the outbound payload for all three upstream search
// services.
type SearchRequest struct {
	Destination   string      `json:"destination"`
	Origin        string      `json:"origin,omitempty"`
	DepartureDate string      `json:"departureDate"`
	ReturnDate    *string     `json:"returnDate"`
	Budget        float64     `json:"budget"`
	Preferences   Preferences `json:"preferences"`
	Constraints   Constraints `json:"constraints"`
}

// FlightSearchResponse is the expected upstream flights response envelope.
type FlightSearchResponse struct {
	Data struct {
		Flights []FlightOption `json:"flights"`
	} `json:"data"`
}

// HotelSearchResponse is the expected upstream hotels response envelope.
type HotelSearchResponse struct {
	Data struct {
		Hotels []HotelOption `json:"hotels"`
	} `json:"data"`
}

// CarSearchResponse is the expected upstream cars response envelope.
type CarSearchResponse struct {
	Data struct {
		Cars []CarOption `json:"cars"`
	} `json:"data"`
}
