package models

import "time"

// Agent is a partner (mitra) who places orders and is billed monthly.
// Code is the login credential; an agent without a code cannot log in.
type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type AgentInput struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}
