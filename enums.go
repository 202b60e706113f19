package sdk

import "strings"

// JobType classifies a job posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ParseJobType normalizes user input such as "Full-Time" to a JobType.
// Unknown values are returned lowercased so the server can reject them.
func ParseJobType(val string) JobType {
	normalized := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(val)), "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	return JobType(normalized)
}

// IsValid reports whether t is one of the known job types.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// ApplicationStatus tracks an application through review.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

// IsTerminal reports whether no further review happens.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationRejected || s == ApplicationAccepted
}

// EventType classifies a calendar event.
type EventType string

const (
	EventInterview EventType = "interview"
	EventMeeting   EventType = "meeting"
	EventDeadline  EventType = "deadline"
	EventOther     EventType = "other"
)

// Role is the account type chosen at registration.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
)

// OTPPurpose scopes a one-time code.
type OTPPurpose string

const (
	OTPEmailVerification OTPPurpose = "email_verification"
	OTPPasswordReset     OTPPurpose = "password_reset"
)
