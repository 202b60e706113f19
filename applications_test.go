package sdk

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hirelane/hirelane/sdk/go/testutil/fakeapi"
)

func pdf(name string) Upload {
	return Upload{Filename: name, Content: []byte("%PDF-1.7\n%fake\n")}
}

func mustCreateSeekerProfile(t *testing.T, client *Client) JobSeekerProfile {
	t.Helper()
	profile, err := client.Profiles.CreateJobSeeker(context.Background(), JobSeekerProfileInput{
		Location:          "Accra",
		Bio:               "Backend developer",
		YearsOfExperience: IntPtr(4),
	})
	if err != nil {
		t.Fatalf("create job seeker profile: %v", err)
	}
	return profile
}

func TestApplyAndManageApplications(t *testing.T) {
	api, srv := newFakeAPI(t, fakeapi.Config{})
	recruiter := newTestClient(t, srv, Config{})
	loginAs(t, recruiter, recruiterEmail)
	job := mustCreateJob(t, recruiter, "SRE", JobTypeFullTime)
	other := mustCreateJob(t, recruiter, "DBA", JobTypeContract)

	seeker := newTestClient(t, srv, Config{})
	loginAs(t, seeker, seekerEmail)
	mustCreateSeekerProfile(t, seeker)
	ctx := context.Background()

	cover := Upload{Filename: "letter.docx", Content: []byte("PK\x03\x04")}
	app, err := seeker.Applications.Apply(ctx, ApplyRequest{JobID: job.ID, Resume: pdf("cv.pdf"), CoverLetter: &cover})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Job.ID != job.ID || app.Status != ApplicationSubmitted || app.CoverLetter == nil {
		t.Fatalf("unexpected application %#v", app)
	}
	second, err := seeker.Applications.Apply(ctx, ApplyRequest{JobID: other.ID, Resume: pdf("cv.pdf")})
	if err != nil {
		t.Fatalf("apply second: %v", err)
	}
	api.SetApplicationStatus(second.ID, string(ApplicationRejected))

	all, err := seeker.Applications.List(ctx, ApplicationListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Count != 2 || all.Results[0].ID != second.ID {
		t.Fatalf("expected newest first, got %#v", all.Results)
	}
	rejected, err := seeker.Applications.List(ctx, ApplicationListParams{Status: ApplicationRejected})
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if rejected.Count != 1 || !rejected.Results[0].Status.IsTerminal() {
		t.Fatalf("unexpected rejected list %#v", rejected)
	}

	newResume := pdf("cv-v2.pdf")
	updated, err := seeker.Applications.Update(ctx, app.ID, ApplicationUpdate{Resume: &newResume})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if filepath.Base(updated.Resume) != "cv-v2.pdf" || updated.CoverLetter == nil {
		t.Fatalf("unexpected updated application %#v", updated)
	}

	got, err := seeker.Applications.Get(ctx, app.ID)
	if err != nil || got.Resume != updated.Resume {
		t.Fatalf("get: %#v %v", got, err)
	}
	if err := seeker.Applications.Delete(ctx, app.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := seeker.Applications.Get(ctx, app.ID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestApplyRejectsDocumentsLocally(t *testing.T) {
	api, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, seekerEmail)
	lastRequest := api.LastHeaders().Get("X-Request-Id")
	ctx := context.Background()

	_, err := client.Applications.Apply(ctx, ApplyRequest{JobID: 1, Resume: Upload{Filename: "cv.txt", Content: []byte("hi")}})
	if !errors.Is(err, ErrUnsupportedDocument) {
		t.Fatalf("expected unsupported document, got %v", err)
	}
	big := Upload{Filename: "cv.pdf", Content: bytes.Repeat([]byte("a"), MaxDocumentSize+1)}
	_, err = client.Applications.Apply(ctx, ApplyRequest{JobID: 1, Resume: big})
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected too large document, got %v", err)
	}
	tooBigCover := big
	tooBigCover.Filename = "letter.docx"
	_, err = client.Applications.Update(ctx, 1, ApplicationUpdate{CoverLetter: &tooBigCover})
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected too large cover letter, got %v", err)
	}
	if _, err := client.Applications.Apply(ctx, ApplyRequest{Resume: pdf("cv.pdf")}); err == nil {
		t.Fatalf("expected error for missing job id")
	}
	if api.LastHeaders().Get("X-Request-Id") != lastRequest {
		t.Fatalf("rejected uploads must not reach the server")
	}
}

func TestApplyForUnknownJob(t *testing.T) {
	_, srv := newFakeAPI(t, fakeapi.Config{})
	client := newTestClient(t, srv, Config{})
	loginAs(t, client, seekerEmail)
	mustCreateSeekerProfile(t, client)

	_, err := client.Applications.Apply(context.Background(), ApplyRequest{JobID: 999, Resume: pdf("cv.pdf")})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	u, err := UploadFromFile(path)
	if err != nil {
		t.Fatalf("upload from file: %v", err)
	}
	if u.Filename != "resume.pdf" || string(u.Content) != "%PDF-1.4" {
		t.Fatalf("unexpected upload %#v", u)
	}
	if err := validateDocument("resume", u); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
	if _, err := UploadFromFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestUploadContentType(t *testing.T) {
	cases := []struct {
		upload Upload
		want   string
	}{
		{Upload{Filename: "cv.PDF"}, "application/pdf"},
		{Upload{Filename: "cv.docx"}, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{Upload{Filename: "logo.png"}, "image/png"},
		{Upload{Filename: "blob", Content: []byte("\x89PNG\r\n\x1a\n")}, "image/png"},
		{Upload{Filename: "notes", Content: []byte("plain words")}, "text/plain"},
		{Upload{Filename: "cv.pdf", ContentType: "Application/PDF; charset=binary"}, "application/pdf"},
	}
	for _, tc := range cases {
		if got := tc.upload.contentType(); got != tc.want {
			t.Fatalf("%s: content type = %q, want %q", tc.upload.Filename, got, tc.want)
		}
	}
}
