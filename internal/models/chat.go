package models

// Request and Response structs for the chat API
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Post chat message
// POST Path: "/api/chat"

type ChatMessage struct {
	Message string `json:"message" doc:"Message to forward to the completion provider" example:"Hello, who are you?"`
}

type PostChatRequest struct {
	Body ChatMessage
}

type ChatResponse struct {
	Body ChatReply
}

type ChatReply struct {
	Response string `json:"response" doc:"Trimmed completion text returned by the provider"`
}

// Get chat message
// GET Path: "/api/gpt"

type GetChatRequest struct {
	Message string `query:"message" doc:"Message to forward to the completion provider" example:"hello"`
}
