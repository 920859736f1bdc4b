package model

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

type ChatReply struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}
