package models

import "time"

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// Identity is whoever logged in: the admin, or one agent.
type Identity struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Agent *Agent `json:"agent,omitempty"`
}

func AdminIdentity() Identity {
	return Identity{ID: RoleAdmin, Role: RoleAdmin, Name: "Admin Pusat"}
}

func AgentIdentity(a Agent) Identity {
	return Identity{ID: a.ID, Role: RoleAgent, Name: a.Name, Agent: &a}
}

// Session is recorded on every successful login.
type Session struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	IP        string    `json:"ip"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
