package sdk

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hirelane/hirelane/sdk/go/testutil/fakeapi"
)

const (
	seekerEmail    = "ada@example.com"
	recruiterEmail = "grace@example.com"
	testPassword   = "correct-horse"
)

func newFakeAPI(t *testing.T, cfg fakeapi.Config) (*fakeapi.API, *httptest.Server) {
	t.Helper()
	api, srv := fakeapi.NewServer(cfg)
	t.Cleanup(srv.Close)
	api.AddUser(fakeapi.User{Email: seekerEmail, Password: testPassword, FirstName: "Ada", LastName: "Lovelace", Role: "job_seeker"})
	api.AddUser(fakeapi.User{Email: recruiterEmail, Password: testPassword, FirstName: "Grace", LastName: "Hopper", Role: "recruiter"})
	return api, srv
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = srv.URL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = srv.Client()
	}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new test client: %v", err)
	}
	return client
}

func loginAs(t *testing.T, client *Client, email string) {
	t.Helper()
	if _, err := client.Auth.Login(context.Background(), LoginRequest{Email: email, Password: testPassword}); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
}

func futureDate(days int) Date {
	y, m, d := time.Now().UTC().AddDate(0, 0, days).Date()
	return NewDate(y, m, d)
}

// noonUTC returns noon UTC on the day days from today.
func noonUTC(days int) Timestamp {
	y, m, d := time.Now().UTC().Date()
	return NewTimestamp(time.Date(y, m, d+days, 12, 0, 0, 0, time.UTC))
}

func mustCreateJob(t *testing.T, client *Client, title string, jobType JobType) Job {
	t.Helper()
	deadline := futureDate(30)
	job, err := client.Jobs.Create(context.Background(), JobInput{
		Title:        title,
		Description:  "Build things",
		Requirements: "Go",
		Location:     "Remote",
		JobType:      jobType,
		Deadline:     &deadline,
	})
	if err != nil {
		t.Fatalf("create job %q: %v", title, err)
	}
	return job
}
