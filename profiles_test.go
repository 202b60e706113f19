package sdk

import (
	"context"
	"testing"

	"github.com/hirelane/hirelane/sdk/go/testutil/fakeapi"
)

func TestJobSeekerProfileLifecycle(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, seekerEmail)
	ctx := context.Background()

	if _, err := client.Profiles.JobSeeker(ctx); !IsNotFound(err) {
		t.Fatalf("expected not found before creation, got %v", err)
	}
	created := mustCreateSeekerProfile(t, client)
	if created.Location != "Accra" || created.YearsOfExperience != 4 {
		t.Fatalf("unexpected profile %#v", created)
	}

	picture := Upload{Filename: "me.png", Content: []byte("\x89PNG")}
	updated, err := client.Profiles.UpdateJobSeeker(ctx, created.ID, JobSeekerProfileInput{Bio: "SRE", Picture: &picture})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != "SRE" || updated.Location != "Accra" || updated.Picture == "" {
		t.Fatalf("unexpected updated profile %#v", updated)
	}

	own, err := client.Profiles.JobSeeker(ctx)
	if err != nil {
		t.Fatalf("get own: %v", err)
	}
	if own.ID != created.ID || own.Bio != "SRE" {
		t.Fatalf("unexpected own profile %#v", own)
	}

	if _, err := client.Profiles.CreateJobSeeker(ctx, JobSeekerProfileInput{Bio: "again"}); !IsValidation(err) {
		t.Fatalf("expected duplicate profile to be rejected, got %v", err)
	}
}

func TestRecruiterProfile(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, recruiterEmail)
	ctx := context.Background()

	profile, err := client.Profiles.Recruiter(ctx)
	if err != nil {
		t.Fatalf("get recruiter profile: %v", err)
	}
	if profile.CompanyName != "Grace Inc" {
		t.Fatalf("unexpected profile %#v", profile)
	}

	updated, err := client.Profiles.UpdateRecruiter(ctx, profile.ID, RecruiterProfileInput{CompanyWebsite: "https://grace.example.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompanyWebsite != "https://grace.example.com" || updated.CompanyName != "Grace Inc" {
		t.Fatalf("unexpected updated profile %#v", updated)
	}
	if _, err := client.Profiles.UpdateRecruiter(ctx, profile.ID+100, RecruiterProfileInput{CompanyName: "X"}); !IsNotFound(err) {
		t.Fatalf("expected not found for another profile, got %v", err)
	}
	if _, err := client.Profiles.CreateRecruiter(ctx, RecruiterProfileInput{}); err == nil {
		t.Fatalf("expected local error for missing company name")
	}
}

func TestCreateRecruiterProfile(t *testing.T) {
	api, srv := newFakeAPI(t, fakeapi.Config{})
	api.AddUser(fakeapi.User{Email: "new@example.com", Password: testPassword, FirstName: "New", Role: "job_seeker"})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, "new@example.com")

	logo := Upload{Filename: "logo.png", Content: []byte("\x89PNG")}
	profile, err := client.Profiles.CreateRecruiter(context.Background(), RecruiterProfileInput{CompanyName: "Acme", CompanyLogo: &logo})
	if err != nil {
		t.Fatalf("create recruiter profile: %v", err)
	}
	if profile.CompanyName != "Acme" || profile.CompanyLogo == "" {
		t.Fatalf("unexpected profile %#v", profile)
	}
	job := mustCreateJob(t, client, "First hire", JobTypeFullTime)
	if job.Recruiter != profile.ID {
		t.Fatalf("job posted under profile %d, want %d", job.Recruiter, profile.ID)
	}
}
