package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type UploadResponse struct {
	Succeed bool   `json:"succeed"`
	Message string `json:"message"`
}

type SongListResponse struct {
	TotalPages int    `json:"total_pages"`
	Count      int    `json:"count"`
	Midis      []Song `json:"midis"`
}

type SearchResponse struct {
	Message string `json:"message"`
	Results []Song `json:"results"`
}

type PlayRequestBody struct {
	Hash string   `json:"hash"`
	From *float64 `json:"from,omitempty"`
	To   *float64 `json:"to,omitempty"`
}

type PlayResponse struct {
	SessionId string  `json:"session_id"`
	Duration  float64 `json:"duration"`
}

type SessionStatus struct {
	SessionId string  `json:"session_id"`
	State     string  `json:"state"`
	Elapsed   float64 `json:"elapsed"`
}
