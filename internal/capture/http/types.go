package http

type submitReflectionReq struct {
	Text string `json:"text"`
}

type updateFieldReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
