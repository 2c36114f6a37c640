package dto

// CreateUserRequest provisions a user row (admin surface). Role defaults
// to USER. A USER_CHILD must name a guardian user id; the referenced
// guardian must exist with role USER.
type CreateUserRequest struct {
	Email             string `json:"email" binding:"required,email"`
	FullName          string `json:"full_name"`
	Role              string `json:"role"`
	GuardianID        *uint  `json:"guardian_id"`
	ExternalSubjectID string `json:"external_subject_id"`
}
