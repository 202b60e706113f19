package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	timestampLayout = "2006-01-02T15:04:05"
	dateLayout      = "2006-01-02"
	maxDocumentSize = 5 << 20
)

type stamp time.Time

func (s stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(s).UTC().Format(timestampLayout))
}

type job struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`
	SalaryRange  string `json:"salary_range,omitempty"`
	Deadline     string `json:"deadline"`
	Recruiter    int64  `json:"recruiter"`
	CreatedAt    stamp  `json:"created_at"`
	UpdatedAt    stamp  `json:"updated_at"`
}

type application struct {
	ID          int64   `json:"id"`
	Job         int64   `json:"job"`
	Applicant   int64   `json:"applicant"`
	Resume      string  `json:"resume"`
	CoverLetter *string `json:"cover_letter"`
	Status      string  `json:"status"`
	AppliedAt   stamp   `json:"applied_at"`
}

type seekerProfile struct {
	ID                   int64  `json:"id"`
	User                 int64  `json:"user"`
	Location             string `json:"location"`
	Nationality          string `json:"nationality"`
	Bio                  string `json:"bio"`
	Education            string `json:"education"`
	InstitutionOrCompany string `json:"institution_or_company"`
	YearsOfExperience    int    `json:"years_of_experience"`
	Phone                string `json:"phone"`
	Gender               string `json:"gender"`
	Website              string `json:"website,omitempty"`
	Picture              string `json:"picture,omitempty"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}

func (p seekerProfile) MarshalJSON() ([]byte, error) {
	type alias seekerProfile
	return json.Marshal(struct {
		alias
		CreatedAt stamp `json:"created_at"`
		UpdatedAt stamp `json:"updated_at"`
	}{alias(p), stamp(p.CreatedAt), stamp(p.UpdatedAt)})
}

type recruiterProfile struct {
	ID                 int64  `json:"id"`
	User               int64  `json:"user"`
	CompanyName        string `json:"company_name"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyLogo        string `json:"company_logo,omitempty"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}

func (p recruiterProfile) MarshalJSON() ([]byte, error) {
	type alias recruiterProfile
	return json.Marshal(struct {
		alias
		CreatedAt stamp `json:"created_at"`
		UpdatedAt stamp `json:"updated_at"`
	}{alias(p), stamp(p.CreatedAt), stamp(p.UpdatedAt)})
}

type event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	EventType   string    `json:"event_type"`
	Date        time.Time `json:"-"`
	Candidate   *int64    `json:"candidate"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Recruiter   int64     `json:"recruiter"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (e event) MarshalJSON() ([]byte, error) {
	type alias event
	return json.Marshal(struct {
		alias
		Date      stamp  `json:"date"`
		Time      string `json:"time"`
		CreatedAt stamp  `json:"created_at"`
		UpdatedAt stamp  `json:"updated_at"`
	}{alias(e), stamp(e.Date), e.Date.Format("03:04 PM"), stamp(e.CreatedAt), stamp(e.UpdatedAt)})
}

var (
	jobTypes   = map[string]bool{"full_time": true, "part_time": true, "contract": true, "internship": true}
	eventTypes = map[string]bool{"interview": true, "meeting": true, "deadline": true, "other": true}
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// recruiterOf returns the caller's recruiter profile. Callers hold a.mu.
func (a *API) recruiterOf(u *user) *recruiterProfile {
	for _, p := range a.recruiters {
		if p.User == u.ID {
			return p
		}
	}
	return nil
}

// seekerOf returns the caller's job seeker profile. Callers hold a.mu.
func (a *API) seekerOf(u *user) *seekerProfile {
	for _, p := range a.seekers {
		if p.User == u.ID {
			return p
		}
	}
	return nil
}

func (a *API) today() time.Time {
	y, m, d := a.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (a *API) jobActive(j *job) bool {
	deadline, err := time.Parse(dateLayout, j.Deadline)
	return err == nil && !deadline.Before(a.today())
}

func (a *API) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.mu.Lock()
	var out []*job
	for _, j := range a.jobs {
		if t := q.Get("job_type"); t != "" && j.JobType != t {
			continue
		}
		if loc := q.Get("location"); loc != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(loc)) {
			continue
		}
		if q.Get("active_only") == "true" && !a.jobActive(j) {
			continue
		}
		if s := strings.ToLower(q.Get("search")); s != "" {
			hay := strings.ToLower(j.Title + " " + j.Description + " " + j.Location + " " + j.Requirements)
			if !strings.Contains(hay, s) {
				continue
			}
		}
		cp := *j
		out = append(out, &cp)
	}
	a.mu.Unlock()

	ordering := q.Get("ordering")
	if ordering == "" {
		ordering = "-created_at"
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	less := func(x, y *job) bool {
		switch field {
		case "title":
			return x.Title < y.Title
		case "deadline":
			return x.Deadline < y.Deadline
		default:
			return x.ID < y.ID
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	size := a.cfg.PageSize
	start := (page - 1) * size
	if start > len(out) {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	end := min(start+size, len(out))
	var next, prev *string
	if end < len(out) {
		s := pageURL(r, page+1)
		next = &s
	}
	if page > 1 {
		s := pageURL(r, page-1)
		prev = &s
	}
	results := out[start:end]
	if results == nil {
		results = []*job{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"next":     next,
		"previous": prev,
		"results":  results,
	})
}

func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func (a *API) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	a.mu.Lock()
	j, found := a.jobs[id]
	var cp job
	if found {
		cp = *j
	}
	a.mu.Unlock()
	if !ok || !found {
		writeDetail(w, http.StatusNotFound, "No Job matches the given query.")
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

type jobInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	Location     *string `json:"location"`
	JobType      *string `json:"job_type"`
	SalaryRange  *string `json:"salary_range"`
	Deadline     *string `json:"deadline"`
}

// applyJob copies the set fields of in onto j and validates the result.
func (a *API) applyJob(j *job, in jobInput) map[string]string {
	fields := map[string]string{}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&j.Title, in.Title)
	set(&j.Description, in.Description)
	set(&j.Requirements, in.Requirements)
	set(&j.Location, in.Location)
	set(&j.SalaryRange, in.SalaryRange)
	if in.JobType != nil {
		if !jobTypes[*in.JobType] {
			fields["job_type"] = fmt.Sprintf("%q is not a valid choice.", *in.JobType)
		}
		j.JobType = *in.JobType
	}
	if in.Deadline != nil {
		d, err := time.Parse(dateLayout, *in.Deadline)
		switch {
		case err != nil:
			fields["deadline"] = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
		case d.Before(a.today()):
			fields["deadline"] = "Deadline cannot be in the past."
		}
		j.Deadline = *in.Deadline
	}
	if j.Title == "" {
		fields["title"] = "This field is required."
	}
	if j.Deadline == "" {
		fields["deadline"] = "This field is required."
	}
	return fields
}

func (a *API) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var in jobInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	u := currentUser(r.Context())
	a.mu.Lock()
	defer a.mu.Unlock()
	rp := a.recruiterOf(u)
	if rp == nil {
		writeDetail(w, http.StatusForbidden, "You have to create recruiter profile.")
		return
	}
	j := &job{JobType: "full_time", Recruiter: rp.ID}
	if fields := a.applyJob(j, in); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	now := a.now()
	j.ID = a.id()
	j.CreatedAt, j.UpdatedAt = stamp(now), stamp(now)
	a.jobs[j.ID] = j
	writeJSON(w, http.StatusCreated, j)
}

// ownJob loads a job the caller posted. Callers hold a.mu.
func (a *API) ownJob(w http.ResponseWriter, r *http.Request) *job {
	id, ok := pathID(r)
	j, found := a.jobs[id]
	if !ok || !found {
		writeDetail(w, http.StatusNotFound, "No Job matches the given query.")
		return nil
	}
	rp := a.recruiterOf(currentUser(r.Context()))
	if rp == nil || rp.ID != j.Recruiter {
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return nil
	}
	return j
}

func (a *API) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var in jobInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	j := a.ownJob(w, r)
	if j == nil {
		return
	}
	updated := *j
	if fields := a.applyJob(&updated, in); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	updated.UpdatedAt = stamp(a.now())
	*j = updated
	writeJSON(w, http.StatusOK, j)
}

func (a *API) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	j := a.ownJob(w, r)
	if j == nil {
		return
	}
	delete(a.jobs, j.ID)
	for id, app := range a.applications {
		if app.Job == j.ID {
			delete(a.applications, id)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleJobStatistics(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := 0
	byType := map[string]int{}
	for _, j := range a.jobs {
		if a.jobActive(j) {
			active++
		}
		byType[j.JobType]++
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	buckets := make([]map[string]any, 0, len(types))
	for _, t := range types {
		buckets = append(buckets, map[string]any{"job_type": t, "count": byType[t]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_jobs":         len(a.jobs),
		"active_jobs":        active,
		"total_applications": len(a.applications),
		"by_job_type":        buckets,
	})
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rp := a.recruiterOf(currentUser(r.Context()))
	if rp == nil {
		writeError(w, http.StatusForbidden, "Only recruiters can access dashboard stats")
		return
	}
	stats := map[string]int{
		"interviews_scheduled":          0,
		"feedback_pending":              0,
		"approval_pending":              0,
		"offer_acceptance_pending":      0,
		"documentation_pending":         0,
		"total_candidates":              0,
		"supervisor_allocation_pending": 0,
		"project_allocation_pending":    0,
		"total_jobs":                    0,
		"active_jobs":                   0,
	}
	for _, j := range a.jobs {
		if j.Recruiter != rp.ID {
			continue
		}
		stats["total_jobs"]++
		if a.jobActive(j) {
			stats["active_jobs"]++
		}
		for _, app := range a.applications {
			if app.Job != j.ID {
				continue
			}
			stats["total_candidates"]++
			switch app.Status {
			case "under_review":
				stats["feedback_pending"]++
			case "submitted":
				stats["approval_pending"]++
			case "shortlisted":
				stats["offer_acceptance_pending"]++
			case "accepted":
				stats["documentation_pending"]++
			}
		}
	}
	now := a.now()
	for _, e := range a.events {
		if e.Recruiter == rp.ID && e.EventType == "interview" && !e.Date.Before(now) {
			stats["interviews_scheduled"]++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// SetApplicationStatus moves an application through review, as a recruiter
// would in the admin.
func (a *API) SetApplicationStatus(id int64, status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if app, ok := a.applications[id]; ok {
		app.Status = status
	}
}

func (a *API) handleListApplications(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sp := a.seekerOf(currentUser(r.Context()))
	if sp == nil {
		writeDetail(w, http.StatusForbidden, "You have to create a job seeker profile.")
		return
	}
	status := r.URL.Query().Get("status")
	out := []application{}
	for _, app := range a.applications {
		if app.Applicant != sp.ID || (status != "" && app.Status != status) {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

// ownApplication loads an application the caller submitted. Callers hold a.mu.
func (a *API) ownApplication(w http.ResponseWriter, r *http.Request) *application {
	id, ok := pathID(r)
	app, found := a.applications[id]
	sp := a.seekerOf(currentUser(r.Context()))
	if !ok || !found || sp == nil || app.Applicant != sp.ID {
		writeDetail(w, http.StatusNotFound, "No JobSeekerApplication matches the given query.")
		return nil
	}
	return app
}

func (a *API) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if app := a.ownApplication(w, r); app != nil {
		writeJSON(w, http.StatusOK, app)
	}
}

// readDocument validates an uploaded resume or cover letter. It returns the
// stored URL, or "" with a message when the file is rejected.
func readDocument(r *http.Request, field string) (url string, present bool, msg string) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", false, ""
	}
	defer f.Close()
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return "", true, "Only PDF and DOCX files are allowed."
	}
	n, _ := io.Copy(io.Discard, f)
	if n > maxDocumentSize {
		return "", true, "File size should not exceed 5MB."
	}
	return "/media/" + field + "s/" + filepath.Base(hdr.Filename), true, ""
}

func (a *API) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	fields := map[string]string{}
	jobID, err := strconv.ParseInt(r.FormValue("job"), 10, 64)
	if err != nil {
		fields["job"] = "This field is required."
	}
	resume, hasResume, msg := readDocument(r, "resume")
	switch {
	case !hasResume:
		fields["resume"] = "No file was submitted."
	case msg != "":
		fields["resume"] = msg
	}
	cover, _, msg := readDocument(r, "cover_letter")
	if msg != "" {
		fields["cover_letter"] = msg
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.jobs[jobID]; err == nil && !ok {
		fields["job"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", jobID)
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	sp := a.seekerOf(currentUser(r.Context()))
	if sp == nil {
		writeDetail(w, http.StatusForbidden, "You have to create a job seeker profile.")
		return
	}
	app := &application{
		ID:        a.id(),
		Job:       jobID,
		Applicant: sp.ID,
		Resume:    resume,
		Status:    "submitted",
		AppliedAt: stamp(a.now()),
	}
	if cover != "" {
		app.CoverLetter = &cover
	}
	a.applications[app.ID] = app
	writeJSON(w, http.StatusCreated, app)
}

func (a *API) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	fields := map[string]string{}
	resume, hasResume, msg := readDocument(r, "resume")
	if msg != "" {
		fields["resume"] = msg
	}
	cover, hasCover, msg := readDocument(r, "cover_letter")
	if msg != "" {
		fields["cover_letter"] = msg
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	app := a.ownApplication(w, r)
	if app == nil {
		return
	}
	if hasResume {
		app.Resume = resume
	}
	if hasCover {
		app.CoverLetter = &cover
	}
	writeJSON(w, http.StatusOK, app)
}

func (a *API) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if app := a.ownApplication(w, r); app != nil {
		delete(a.applications, app.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *API) handleGetSeekerProfile(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []seekerProfile{}
	if p := a.seekerOf(currentUser(r.Context())); p != nil {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleSaveSeekerProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	u := currentUser(r.Context())
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.seekerOf(u)
	status := http.StatusOK
	if r.Method == http.MethodPost {
		if p != nil {
			writeFieldErrors(w, map[string]string{"user": "job seeker profile with this user already exists."})
			return
		}
		p = &seekerProfile{ID: a.id(), User: u.ID, CreatedAt: a.now()}
		a.seekers[p.ID] = p
		status = http.StatusCreated
	} else if id, ok := pathID(r); !ok || p == nil || p.ID != id {
		writeDetail(w, http.StatusNotFound, "No JobSeekerProfile matches the given query.")
		return
	}
	setForm := func(dst *string, key string) {
		if v := r.FormValue(key); v != "" {
			*dst = v
		}
	}
	setForm(&p.Location, "location")
	setForm(&p.Nationality, "nationality")
	setForm(&p.Bio, "bio")
	setForm(&p.Education, "education")
	setForm(&p.InstitutionOrCompany, "institution_or_company")
	setForm(&p.Phone, "phone")
	setForm(&p.Gender, "gender")
	setForm(&p.Website, "website")
	if v, err := strconv.Atoi(r.FormValue("years_of_experience")); err == nil {
		p.YearsOfExperience = v
	}
	if _, hdr, err := r.FormFile("picture"); err == nil {
		p.Picture = "/media/pictures/" + filepath.Base(hdr.Filename)
	}
	p.UpdatedAt = a.now()
	writeJSON(w, status, p)
}

func (a *API) handleGetRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []recruiterProfile{}
	if p := a.recruiterOf(currentUser(r.Context())); p != nil {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleSaveRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	u := currentUser(r.Context())
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.recruiterOf(u)
	status := http.StatusOK
	if r.Method == http.MethodPost {
		if p != nil {
			writeFieldErrors(w, map[string]string{"user": "recruiter profile with this user already exists."})
			return
		}
		if r.FormValue("company_name") == "" {
			writeFieldErrors(w, map[string]string{"company_name": "This field is required."})
			return
		}
		p = &recruiterProfile{ID: a.id(), User: u.ID, CreatedAt: a.now()}
		a.recruiters[p.ID] = p
		status = http.StatusCreated
	} else if id, ok := pathID(r); !ok || p == nil || p.ID != id {
		writeDetail(w, http.StatusNotFound, "No RecruiterProfile matches the given query.")
		return
	}
	if v := r.FormValue("company_name"); v != "" {
		p.CompanyName = v
	}
	if v := r.FormValue("company_website"); v != "" {
		p.CompanyWebsite = v
	}
	if v := r.FormValue("company_description"); v != "" {
		p.CompanyDescription = v
	}
	if _, hdr, err := r.FormFile("company_logo"); err == nil {
		p.CompanyLogo = "/media/logos/" + filepath.Base(hdr.Filename)
	}
	p.UpdatedAt = a.now()
	writeJSON(w, status, p)
}

type eventInput struct {
	Title       *string `json:"title"`
	EventType   *string `json:"event_type"`
	Date        *string `json:"date"`
	Candidate   *int64  `json:"candidate"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (a *API) applyEvent(e *event, in eventInput) map[string]string {
	fields := map[string]string{}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.EventType != nil {
		if !eventTypes[*in.EventType] {
			fields["event_type"] = fmt.Sprintf("%q is not a valid choice.", *in.EventType)
		}
		e.EventType = *in.EventType
	}
	if in.Date != nil {
		d, err := time.Parse(timestampLayout, *in.Date)
		switch {
		case err != nil:
			fields["date"] = "Datetime has wrong format."
		case d.Before(a.now()):
			fields["date"] = "Event date cannot be in the past."
		}
		e.Date = d
	}
	if in.Candidate != nil {
		if _, ok := a.seekers[*in.Candidate]; !ok {
			fields["candidate"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.Candidate)
		}
		e.Candidate = in.Candidate
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if e.Title == "" {
		fields["title"] = "This field is required."
	}
	if e.EventType == "interview" && e.Candidate == nil {
		fields["candidate"] = "Candidate is required for interview events."
	}
	return fields
}

func (a *API) recruiterOrForbid(w http.ResponseWriter, r *http.Request) *recruiterProfile {
	rp := a.recruiterOf(currentUser(r.Context()))
	if rp == nil {
		writeError(w, http.StatusForbidden, "Only recruiters can access calendar")
	}
	return rp
}

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))
	typ := q.Get("type")
	a.mu.Lock()
	defer a.mu.Unlock()
	rp := a.recruiterOrForbid(w, r)
	if rp == nil {
		return
	}
	out := []event{}
	for _, e := range a.events {
		if e.Recruiter != rp.ID {
			continue
		}
		if year > 0 && e.Date.Year() != year {
			continue
		}
		if year > 0 && month > 0 && int(e.Date.Month()) != month {
			continue
		}
		if typ != "" && e.EventType != typ {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	rp := a.recruiterOrForbid(w, r)
	if rp == nil {
		return
	}
	e := &event{EventType: "interview", Recruiter: rp.ID}
	if in.Date == nil {
		writeFieldErrors(w, map[string]string{"date": "This field is required."})
		return
	}
	if fields := a.applyEvent(e, in); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	now := a.now()
	e.ID = a.id()
	e.CreatedAt, e.UpdatedAt = now, now
	a.events[e.ID] = e
	writeJSON(w, http.StatusCreated, e)
}

// ownEvent loads an event on the caller's calendar. Callers hold a.mu.
func (a *API) ownEvent(w http.ResponseWriter, r *http.Request) *event {
	rp := a.recruiterOrForbid(w, r)
	if rp == nil {
		return nil
	}
	id, ok := pathID(r)
	e, found := a.events[id]
	if !ok || !found || e.Recruiter != rp.ID {
		writeDetail(w, http.StatusNotFound, "No CalendarEvent matches the given query.")
		return nil
	}
	return e
}

func (a *API) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e := a.ownEvent(w, r); e != nil {
		writeJSON(w, http.StatusOK, e)
	}
}

func (a *API) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.ownEvent(w, r)
	if e == nil {
		return
	}
	updated := *e
	if fields := a.applyEvent(&updated, in); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	updated.UpdatedAt = a.now()
	*e = updated
	writeJSON(w, http.StatusOK, e)
}

func (a *API) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e := a.ownEvent(w, r); e != nil {
		delete(a.events, e.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *API) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rp := a.recruiterOrForbid(w, r)
	if rp == nil {
		return
	}
	today := a.today()
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)
	weekEnd := today.AddDate(0, 0, 7)
	out := map[string][]event{"today": {}, "tomorrow": {}, "this_week": {}}
	for _, e := range a.events {
		if e.Recruiter != rp.ID {
			continue
		}
		switch {
		case !e.Date.Before(today) && e.Date.Before(tomorrow):
			out["today"] = append(out["today"], *e)
		case !e.Date.Before(tomorrow) && e.Date.Before(dayAfter):
			out["tomorrow"] = append(out["tomorrow"], *e)
		case !e.Date.Before(dayAfter) && e.Date.Before(weekEnd):
			out["this_week"] = append(out["this_week"], *e)
		}
	}
	for k := range out {
		sort.Slice(out[k], func(i, j int) bool { return out[k][i].Date.Before(out[k][j].Date) })
	}
	writeJSON(w, http.StatusOK, out)
}
