// Package routes provides shared API route constants used by the SDK,
// the session layer and the fake API server so paths never drift apart.
package routes

// Auth routes. Paths keep the trailing slash the backend requires.
const (
	// AuthLogin exchanges email/password for an access/refresh pair.
	AuthLogin = "/auth/login/"

	// AuthRegister creates a new job seeker or recruiter account.
	AuthRegister = "/auth/register/"

	// AuthTokenRefresh swaps a refresh token for a new access token.
	AuthTokenRefresh = "/auth/token/refresh/" // #nosec G101 -- route path, not a credential

	// AuthLogout blacklists the refresh token server-side.
	AuthLogout = "/auth/logout/"

	// AuthUpdate updates the authenticated user's account fields.
	AuthUpdate = "/auth/update/"

	// AuthDelete deletes the authenticated user's account.
	AuthDelete = "/auth/delete/"

	// AuthOTPRequest sends a one-time code for email verification or password reset.
	AuthOTPRequest = "/auth/otp/request/"

	// AuthOTPVerify verifies a one-time code.
	AuthOTPVerify = "/auth/otp/verify/"

	// AuthPasswordReset sets a new password using a verified one-time code.
	AuthPasswordReset = "/auth/password/reset/"
)

// Access (resource) routes.
const (
	Jobs               = "/access/jobs/"
	JobByID            = "/access/jobs/{id}/"
	JobStatistics      = "/access/jobs/statistics/"
	JobDashboardStats  = "/access/jobs/dashboard_stats/"
	Applications       = "/access/applications/"
	ApplicationByID    = "/access/applications/{id}/"
	JobSeekerProfile   = "/access/job-seeker-profile/"
	JobSeekerProfileID = "/access/job-seeker-profile/{id}/"
	RecruiterProfile   = "/access/recruiter-profile/"
	RecruiterProfileID = "/access/recruiter-profile/{id}/"
	Calendar           = "/access/calendar/"
	CalendarByID       = "/access/calendar/{id}/"
	CalendarUpcoming   = "/access/calendar/upcoming/"
)
