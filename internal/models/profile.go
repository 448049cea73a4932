// Package models defines core data structures for member profiles, the job
// catalog, and the engine results.
package models

import "time"

// Visibility values for a member profile.
const (
	VisibilityPublic  = "public"
	VisibilityMembers = "members"
	VisibilityPrivate = "private"
)

// Profile represents a member profile record.
type Profile struct {
	ID           string    `json:"member_id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Tagline      string    `json:"tagline,omitempty" db:"tagline"`
	Intro        string    `json:"intro,omitempty" db:"intro"`
	Interests    []string  `json:"interests,omitempty" db:"interests"`
	Strengths    []string  `json:"strengths,omitempty" db:"strengths"`
	Contact      string    `json:"contact,omitempty" db:"contact"`
	Visibility   string    `json:"visibility" db:"visibility"`
	FixedRole    string    `json:"fixed_role,omitempty" db:"fixed_role"`
	ProfileImage string    `json:"profile_image,omitempty" db:"profile_image"`
	DisplayOrder int       `json:"display_order,omitempty" db:"display_order"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileInput is the input for creating or updating a member profile.
type ProfileInput struct {
	ID           string   `json:"member_id,omitempty"`
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline,omitempty"`
	Intro        string   `json:"intro,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Strengths    []string `json:"strengths,omitempty"`
	Contact      string   `json:"contact,omitempty"`
	Visibility   string   `json:"visibility,omitempty"`
	ProfileImage string   `json:"profile_image,omitempty"`
}

// ToProfile converts the input to a Profile, defaulting visibility to public.
func (in *ProfileInput) ToProfile() *Profile {
	vis := in.Visibility
	if vis == "" {
		vis = VisibilityPublic
	}
	return &Profile{
		ID:           in.ID,
		Name:         in.Name,
		Tagline:      in.Tagline,
		Intro:        in.Intro,
		Interests:    in.Interests,
		Strengths:    in.Strengths,
		Contact:      in.Contact,
		Visibility:   vis,
		ProfileImage: in.ProfileImage,
	}
}
