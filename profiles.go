package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hirelane/hirelane/sdk/go/routes"
)

// JobSeekerProfileInput is the writable part of a job seeker profile.
// Empty fields are not sent.
type JobSeekerProfileInput struct {
	Location             string
	Nationality          string
	Bio                  string
	Education            string
	InstitutionOrCompany string
	YearsOfExperience    *int
	Phone                string
	Gender               string
	Website              string
	Picture              *Upload
}

func (in JobSeekerProfileInput) form() *multipartForm {
	f := newMultipartForm()
	f.field("location", in.Location)
	f.field("nationality", in.Nationality)
	f.field("bio", in.Bio)
	f.field("education", in.Education)
	f.field("institution_or_company", in.InstitutionOrCompany)
	if in.YearsOfExperience != nil {
		f.field("years_of_experience", strconv.Itoa(*in.YearsOfExperience))
	}
	f.field("phone", in.Phone)
	f.field("gender", in.Gender)
	f.field("website", in.Website)
	f.file("picture", in.Picture)
	return f
}

// RecruiterProfileInput is the writable part of a recruiter profile.
type RecruiterProfileInput struct {
	CompanyName        string
	CompanyWebsite     string
	CompanyDescription string
	CompanyLogo        *Upload
}

func (in RecruiterProfileInput) form() *multipartForm {
	f := newMultipartForm()
	f.field("company_name", in.CompanyName)
	f.field("company_website", in.CompanyWebsite)
	f.field("company_description", in.CompanyDescription)
	f.file("company_logo", in.CompanyLogo)
	return f
}

// ProfilesClient wraps the job seeker and recruiter profile endpoints.
type ProfilesClient struct {
	client *Client
}

// JobSeeker returns the signed-in user's job seeker profile. It fails with
// a 404 APIError when none was created yet.
func (p *ProfilesClient) JobSeeker(ctx context.Context) (JobSeekerProfile, error) {
	if p == nil || p.client == nil {
		return JobSeekerProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	var out JobSeekerProfile
	if err := p.getOwn(ctx, routes.JobSeekerProfile, &out); err != nil {
		return JobSeekerProfile{}, err
	}
	return out, nil
}

// CreateJobSeeker creates the signed-in user's job seeker profile.
func (p *ProfilesClient) CreateJobSeeker(ctx context.Context, in JobSeekerProfileInput) (JobSeekerProfile, error) {
	if p == nil || p.client == nil {
		return JobSeekerProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	var out JobSeekerProfile
	if err := p.client.doForm(ctx, http.MethodPost, routes.JobSeekerProfile, in.form(), &out); err != nil {
		return JobSeekerProfile{}, err
	}
	return out, nil
}

// UpdateJobSeeker changes the given fields of a job seeker profile.
func (p *ProfilesClient) UpdateJobSeeker(ctx context.Context, id int64, in JobSeekerProfileInput) (JobSeekerProfile, error) {
	if p == nil || p.client == nil {
		return JobSeekerProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	if id <= 0 {
		return JobSeekerProfile{}, fmt.Errorf("sdk: profile id required")
	}
	var out JobSeekerProfile
	if err := p.client.doForm(ctx, http.MethodPatch, resourcePath(routes.JobSeekerProfileID, id), in.form(), &out); err != nil {
		return JobSeekerProfile{}, err
	}
	return out, nil
}

// Recruiter returns the signed-in user's recruiter profile.
func (p *ProfilesClient) Recruiter(ctx context.Context) (RecruiterProfile, error) {
	if p == nil || p.client == nil {
		return RecruiterProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	var out RecruiterProfile
	if err := p.getOwn(ctx, routes.RecruiterProfile, &out); err != nil {
		return RecruiterProfile{}, err
	}
	return out, nil
}

// CreateRecruiter creates the signed-in user's recruiter profile.
func (p *ProfilesClient) CreateRecruiter(ctx context.Context, in RecruiterProfileInput) (RecruiterProfile, error) {
	if p == nil || p.client == nil {
		return RecruiterProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	if in.CompanyName == "" {
		return RecruiterProfile{}, fmt.Errorf("sdk: company name required")
	}
	var out RecruiterProfile
	if err := p.client.doForm(ctx, http.MethodPost, routes.RecruiterProfile, in.form(), &out); err != nil {
		return RecruiterProfile{}, err
	}
	return out, nil
}

// UpdateRecruiter changes the given fields of a recruiter profile.
func (p *ProfilesClient) UpdateRecruiter(ctx context.Context, id int64, in RecruiterProfileInput) (RecruiterProfile, error) {
	if p == nil || p.client == nil {
		return RecruiterProfile{}, fmt.Errorf("sdk: profiles client not initialized")
	}
	if id <= 0 {
		return RecruiterProfile{}, fmt.Errorf("sdk: profile id required")
	}
	var out RecruiterProfile
	if err := p.client.doForm(ctx, http.MethodPatch, resourcePath(routes.RecruiterProfileID, id), in.form(), &out); err != nil {
		return RecruiterProfile{}, err
	}
	return out, nil
}

// getOwn reads a profile collection endpoint, which holds at most the
// caller's own profile, and decodes it into out. The endpoint may answer
// with a page, a bare list or the object itself.
func (p *ProfilesClient) getOwn(ctx context.Context, path string, out any) error {
	req, err := p.client.newJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if err := p.client.do(req, &raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return err
		}
		if _, paged := probe["results"]; !paged {
			return json.Unmarshal(trimmed, out)
		}
	}
	var page Page[json.RawMessage]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	if len(page.Results) == 0 {
		return APIError{Status: http.StatusNotFound, Message: "profile not found"}
	}
	return json.Unmarshal(page.Results[0], out)
}
