package transport

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Location          string `json:"location" validate:"required,max=200"`
	EstablishmentType string `json:"establishmentType" validate:"required,max=100"`
	ResultCount       int    `json:"resultCount" validate:"omitempty,result_count"`
}

type SearchAcceptedResponse struct {
	Status string `json:"status"`
}
