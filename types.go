package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hirelane/hirelane/sdk/go/auth"
)

// TimestampLayout is the zone-less format the API uses for date-times.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the format the API uses for calendar dates.
const DateLayout = "2006-01-02"

// User is the account summary returned by login and account updates.
type User = auth.User

// Timestamp is a date-time serialized without a zone. Values are read as UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("sdk: invalid timestamp %q", raw)
}

// Date is a calendar day.
type Date struct {
	time.Time
}

// NewDate returns midnight UTC of the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: parsed}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("sdk: invalid date %q", raw)
	}
	*d = parsed
	return nil
}

// Page is a paginated list response. Endpoints that return a bare JSON
// array decode into a single page with Count set to its length.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}
	var decoded struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*p = Page[T]{Count: decoded.Count, Next: decoded.Next, Previous: decoded.Previous, Results: decoded.Results}
	return nil
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Job is a posting published by a recruiter.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	JobType      JobType   `json:"job_type"`
	SalaryRange  string    `json:"salary_range,omitempty"`
	Deadline     Date      `json:"deadline"`
	Recruiter    int64     `json:"recruiter"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// Active reports whether the deadline has not passed on the day of now.
func (j Job) Active(now time.Time) bool {
	if j.Deadline.IsZero() {
		return true
	}
	y, m, d := now.Date()
	return !j.Deadline.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// JobInput is the writable subset of a Job.
type JobInput struct {
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	Requirements string  `json:"requirements,omitempty"`
	Location     string  `json:"location,omitempty"`
	JobType      JobType `json:"job_type,omitempty"`
	SalaryRange  string  `json:"salary_range,omitempty"`
	Deadline     *Date   `json:"deadline,omitempty"`
}

// JobRef is an application's job: either a bare id or an expanded Job.
type JobRef struct {
	ID  int64
	Job *Job
}

func (r JobRef) MarshalJSON() ([]byte, error) {
	if r.Job != nil {
		return json.Marshal(r.Job)
	}
	return json.Marshal(r.ID)
}

func (r *JobRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var job Job
		if err := json.Unmarshal(trimmed, &job); err != nil {
			return err
		}
		*r = JobRef{ID: job.ID, Job: &job}
		return nil
	}
	var id int64
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return err
	}
	*r = JobRef{ID: id}
	return nil
}

// Application is a job seeker's submission for a job.
type Application struct {
	ID          int64             `json:"id"`
	Job         JobRef            `json:"job"`
	Applicant   int64             `json:"applicant"`
	Resume      string            `json:"resume"`
	CoverLetter *string           `json:"cover_letter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   Timestamp         `json:"applied_at"`
}

// JobSeekerProfile is a candidate's public profile.
type JobSeekerProfile struct {
	ID                   int64     `json:"id"`
	User                 int64     `json:"user"`
	Location             string    `json:"location"`
	Nationality          string    `json:"nationality"`
	Bio                  string    `json:"bio"`
	Education            string    `json:"education"`
	InstitutionOrCompany string    `json:"institution_or_company"`
	YearsOfExperience    int       `json:"years_of_experience"`
	Phone                string    `json:"phone"`
	Gender               string    `json:"gender"`
	Website              string    `json:"website,omitempty"`
	Picture              string    `json:"picture,omitempty"`
	CreatedAt            Timestamp `json:"created_at"`
	UpdatedAt            Timestamp `json:"updated_at"`
}

// RecruiterProfile describes the hiring company.
type RecruiterProfile struct {
	ID                 int64     `json:"id"`
	User               int64     `json:"user"`
	CompanyName        string    `json:"company_name"`
	CompanyWebsite     string    `json:"company_website,omitempty"`
	CompanyDescription string    `json:"company_description,omitempty"`
	CompanyLogo        string    `json:"company_logo,omitempty"`
	CreatedAt          Timestamp `json:"created_at"`
	UpdatedAt          Timestamp `json:"updated_at"`
}

// CalendarEvent is an interview, meeting or deadline on a recruiter's calendar.
type CalendarEvent struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	EventType     EventType `json:"event_type"`
	Date          Timestamp `json:"date"`
	Candidate     *int64    `json:"candidate,omitempty"`
	CandidateName *string   `json:"candidate_name,omitempty"`
	// Time is the server-rendered clock time, e.g. "02:30 PM".
	Time        string    `json:"time,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Recruiter   int64     `json:"recruiter"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// CalendarEventInput is the writable subset of a CalendarEvent.
type CalendarEventInput struct {
	Title       string     `json:"title,omitempty"`
	EventType   EventType  `json:"event_type,omitempty"`
	Date        *Timestamp `json:"date,omitempty"`
	Candidate   *int64     `json:"candidate,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
}

// UpcomingEvents groups a recruiter's events by horizon.
type UpcomingEvents struct {
	Today    []CalendarEvent `json:"today"`
	Tomorrow []CalendarEvent `json:"tomorrow"`
	ThisWeek []CalendarEvent `json:"this_week"`
}

// JobStatistics summarizes the public job board.
type JobStatistics struct {
	TotalJobs         int            `json:"total_jobs"`
	ActiveJobs        int            `json:"active_jobs"`
	TotalApplications int            `json:"total_applications"`
	ByJobType         []JobTypeCount `json:"by_job_type"`
}

// JobTypeCount is one bucket of JobStatistics.ByJobType.
type JobTypeCount struct {
	JobType JobType `json:"job_type"`
	Count   int     `json:"count"`
}

// DashboardStats is the recruiter dashboard summary.
type DashboardStats struct {
	InterviewsScheduled         int `json:"interviews_scheduled"`
	FeedbackPending             int `json:"feedback_pending"`
	ApprovalPending             int `json:"approval_pending"`
	OfferAcceptancePending      int `json:"offer_acceptance_pending"`
	DocumentationPending        int `json:"documentation_pending"`
	TotalCandidates             int `json:"total_candidates"`
	SupervisorAllocationPending int `json:"supervisor_allocation_pending"`
	ProjectAllocationPending    int `json:"project_allocation_pending"`
	TotalJobs                   int `json:"total_jobs"`
	ActiveJobs                  int `json:"active_jobs"`
}
