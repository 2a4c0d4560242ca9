package models

import (
	"time"
)

// AuthAccount defines the authentication account based on the 'auth_accounts' table.
// A database trigger materializes the Profile (and Student) rows from RawMeta on insert.
type AuthAccount struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Hashed password (excluded from JSON)
	RawMeta      []byte     `json:"-" db:"raw_meta"`      // Invitation metadata (full_name, course_id, role)
	InvitedAt    *time.Time `json:"invitedAt,omitempty" db:"invited_at"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty" db:"confirmed_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// Profile defines the profile model based on the 'profiles' table.
// One row per authenticated identity; ID equals the auth account ID.
type Profile struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      RoleType  `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Student defines the student model based on the 'students' table (1:1 with Profile)
type Student struct {
	ID             int64      `json:"id" db:"id"` // Same as the owning profile ID
	CourseID       int64      `json:"courseId" db:"course_id"`
	GraduationDate *time.Time `json:"graduationDate,omitempty" db:"graduation_date"` // Pointer for potential NULL
	Profile        *Profile   `json:"profile,omitempty"`                             // Relation, no db tag
	Course         *Course    `json:"course,omitempty"`                              // Relation, no db tag
}

// Course defines the course reference data based on the 'courses' table
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
