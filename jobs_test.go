package sdk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hirelane/hirelane/sdk/go/testutil/fakeapi"
)

func TestJobsCRUD(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, recruiterEmail)
	ctx := context.Background()

	created := mustCreateJob(t, client, "Platform engineer", JobTypeContract)
	if created.ID == 0 || created.JobType != JobTypeContract || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created job %#v", created)
	}

	got, err := client.Jobs.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Platform engineer" || !got.Deadline.Equal(created.Deadline.Time) {
		t.Fatalf("unexpected job %#v", got)
	}

	updated, err := client.Jobs.Update(ctx, created.ID, JobInput{Location: "Lagos"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != "Lagos" || updated.Title != "Platform engineer" {
		t.Fatalf("partial update lost fields: %#v", updated)
	}

	if err := client.Jobs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Jobs.Get(ctx, created.ID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestJobsCreateValidation(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, recruiterEmail)
	ctx := context.Background()

	if _, err := client.Jobs.Create(ctx, JobInput{Title: "No deadline"}); err == nil {
		t.Fatalf("expected local error for missing deadline")
	}
	deadline := futureDate(5)
	if _, err := client.Jobs.Create(ctx, JobInput{Title: "Gig", Deadline: &deadline, JobType: "gig"}); err == nil {
		t.Fatalf("expected local error for unknown job type")
	}

	past := futureDate(-3)
	_, err := client.Jobs.Create(ctx, JobInput{Title: "Late", Deadline: &past})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) || len(apiErr.FieldMessages("deadline")) != 1 {
		t.Fatalf("expected a deadline field error, got %#v", err)
	}
}

func TestJobsWritesNeedOwnership(t *testing.T) {
	api, srv := newFakeAPI(t, fakeapi.Config{})
	recruiter := newTestClient(t, srv, Config{})
	loginAs(t, recruiter, recruiterEmail)
	job := mustCreateJob(t, recruiter, "Owned", JobTypeFullTime)

	api.AddUser(fakeapi.User{Email: "other@example.com", Password: testPassword, FirstName: "Other", Role: "recruiter"})
	other := newTestClient(t, srv, Config{})
	loginAs(t, other, "other@example.com")
	if err := other.Jobs.Delete(context.Background(), job.ID); !IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	seeker := newTestClient(t, srv, Config{})
	loginAs(t, seeker, seekerEmail)
	if _, err := seeker.Jobs.Create(context.Background(), JobInput{Title: "Nope", Deadline: &job.Deadline}); !IsForbidden(err) {
		t.Fatalf("expected forbidden for a job seeker, got %v", err)
	}
}

func TestJobsListFiltersAndPages(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{PageSize: 2})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, recruiterEmail)
	ctx := context.Background()

	for i := range 3 {
		mustCreateJob(t, client, fmt.Sprintf("Go developer %d", i), JobTypeFullTime)
	}
	mustCreateJob(t, client, "Summer intern", JobTypeInternship)

	first, err := client.Jobs.List(ctx, JobListParams{Search: "go developer", Ordering: "title"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if first.Count != 3 || len(first.Results) != 2 || !first.HasNext() {
		t.Fatalf("unexpected first page %#v", first)
	}
	if first.Results[0].Title != "Go developer 0" {
		t.Fatalf("expected ordering by title, got %q", first.Results[0].Title)
	}
	second, err := client.Jobs.List(ctx, JobListParams{Search: "go developer", Ordering: "title", Page: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Results) != 1 || second.HasNext() || second.Previous == nil {
		t.Fatalf("unexpected second page %#v", second)
	}

	interns, err := client.Jobs.List(ctx, JobListParams{JobType: JobTypeInternship, ActiveOnly: true})
	if err != nil {
		t.Fatalf("list internships: %v", err)
	}
	if interns.Count != 1 || interns.Results[0].JobType != JobTypeInternship {
		t.Fatalf("unexpected internships %#v", interns)
	}
}

func TestJobStatisticsAndDashboard(t *testing.T) {
	api, srv := newFakeAPI(t, fakeapi.Config{})
	recruiter := newTestClient(t, srv, Config{})
	loginAs(t, recruiter, recruiterEmail)
	ctx := context.Background()

	job := mustCreateJob(t, recruiter, "Data engineer", JobTypeFullTime)
	mustCreateJob(t, recruiter, "Part-time analyst", JobTypePartTime)

	seeker := newTestClient(t, srv, Config{})
	loginAs(t, seeker, seekerEmail)
	mustCreateSeekerProfile(t, seeker)
	app, err := seeker.Applications.Apply(ctx, ApplyRequest{JobID: job.ID, Resume: pdf("cv.pdf")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	api.SetApplicationStatus(app.ID, string(ApplicationShortlisted))

	stats, err := seeker.Jobs.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalJobs != 2 || stats.ActiveJobs != 2 || stats.TotalApplications != 1 || len(stats.ByJobType) != 2 {
		t.Fatalf("unexpected statistics %#v", stats)
	}

	dash, err := recruiter.Jobs.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalJobs != 2 || dash.TotalCandidates != 1 || dash.OfferAcceptancePending != 1 {
		t.Fatalf("unexpected dashboard %#v", dash)
	}
	if _, err := seeker.Jobs.DashboardStats(ctx); !IsForbidden(err) {
		t.Fatalf("expected forbidden dashboard for a job seeker, got %v", err)
	}
}
