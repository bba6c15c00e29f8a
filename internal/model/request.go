package model

import "encoding/json"

// UpdateRequest is the JSON body of a component update. Multipart requests
// carry the same fields as form values, each JSON encoded.
type UpdateRequest struct {
	Data       json.RawMessage `json:"data"`
	Props      json.RawMessage `json:"props"`
	Method     string          `json:"method" binding:"omitempty,max=128"`
	Parameters json.RawMessage `json:"parameters"`
}
