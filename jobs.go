package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hirelane/hirelane/sdk/go/routes"
)

// JobListParams filters the job board. Zero values are omitted.
type JobListParams struct {
	Page       int
	Search     string
	JobType    JobType
	Location   string
	ActiveOnly bool
	// Ordering is one of created_at, deadline or title; prefix "-" for descending.
	Ordering string
}

func (p JobListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.JobType != "" {
		q.Set("job_type", string(p.JobType))
	}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.ActiveOnly {
		q.Set("active_only", "true")
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	return q
}

// JobsClient wraps the job posting endpoints.
type JobsClient struct {
	client *Client
}

// List returns a page of the public job board.
func (j *JobsClient) List(ctx context.Context, params JobListParams) (Page[Job], error) {
	if j == nil || j.client == nil {
		return Page[Job]{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodGet, withQuery(routes.Jobs, params.query()), nil)
	if err != nil {
		return Page[Job]{}, err
	}
	var page Page[Job]
	if err := j.client.do(req, &page); err != nil {
		return Page[Job]{}, err
	}
	return page, nil
}

// Get returns a single job.
func (j *JobsClient) Get(ctx context.Context, id int64) (Job, error) {
	if j == nil || j.client == nil {
		return Job{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	if id <= 0 {
		return Job{}, fmt.Errorf("sdk: job id required")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodGet, resourcePath(routes.JobByID, id), nil)
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := j.client.do(req, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Create publishes a job. The caller must have a recruiter profile.
func (j *JobsClient) Create(ctx context.Context, in JobInput) (Job, error) {
	if j == nil || j.client == nil {
		return Job{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	if in.Title == "" || in.Deadline == nil {
		return Job{}, fmt.Errorf("sdk: job title and deadline required")
	}
	if in.JobType != "" && !in.JobType.IsValid() {
		return Job{}, fmt.Errorf("sdk: unknown job type %q", in.JobType)
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodPost, routes.Jobs, in)
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := j.client.do(req, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Update changes the given fields of a job.
func (j *JobsClient) Update(ctx context.Context, id int64, in JobInput) (Job, error) {
	if j == nil || j.client == nil {
		return Job{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	if id <= 0 {
		return Job{}, fmt.Errorf("sdk: job id required")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodPatch, resourcePath(routes.JobByID, id), in)
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := j.client.do(req, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Delete removes a job posting and its applications.
func (j *JobsClient) Delete(ctx context.Context, id int64) error {
	if j == nil || j.client == nil {
		return fmt.Errorf("sdk: jobs client not initialized")
	}
	if id <= 0 {
		return fmt.Errorf("sdk: job id required")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodDelete, resourcePath(routes.JobByID, id), nil)
	if err != nil {
		return err
	}
	return j.client.do(req, nil)
}

// Statistics returns job board totals.
func (j *JobsClient) Statistics(ctx context.Context) (JobStatistics, error) {
	if j == nil || j.client == nil {
		return JobStatistics{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodGet, routes.JobStatistics, nil)
	if err != nil {
		return JobStatistics{}, err
	}
	var stats JobStatistics
	if err := j.client.do(req, &stats); err != nil {
		return JobStatistics{}, err
	}
	return stats, nil
}

// DashboardStats returns the signed-in recruiter's pipeline summary.
func (j *JobsClient) DashboardStats(ctx context.Context) (DashboardStats, error) {
	if j == nil || j.client == nil {
		return DashboardStats{}, fmt.Errorf("sdk: jobs client not initialized")
	}
	req, err := j.client.newJSONRequest(ctx, http.MethodGet, routes.JobDashboardStats, nil)
	if err != nil {
		return DashboardStats{}, err
	}
	var stats DashboardStats
	if err := j.client.do(req, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
