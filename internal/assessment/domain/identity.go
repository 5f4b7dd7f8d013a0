package domain

import "strings"

// Roles names the role strings carried in access tokens.
type Roles struct {
	Interviewer string `yaml:"interviewer"`
	Applicant   string `yaml:"applicant"`
	Evaluator   string `yaml:"evaluator"`
	Admin       string `yaml:"admin"`
}

// DefaultRoles returns the role names used when no override is configured.
func DefaultRoles() Roles {
	return Roles{
		Interviewer: "interviewer",
		Applicant:   "applicant",
		Evaluator:   "evaluator",
		Admin:       "admin",
	}
}

// Known reports whether role is one of the configured role names.
func (r Roles) Known(role string) bool {
	role = strings.TrimSpace(role)
	if role == "" {
		return false
	}
	switch role {
	case r.Interviewer, r.Applicant, r.Evaluator, r.Admin:
		return true
	}
	return false
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Identity is the public view of a user record.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Public strips the role for embedding into other resources.
func (i Identity) Public() Identity {
	return Identity{ID: i.ID, Name: i.Name, Email: i.Email}
}
