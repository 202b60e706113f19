package sdk

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hirelane/hirelane/sdk/go/routes"
)

// ApplicationListParams filters the signed-in job seeker's applications.
type ApplicationListParams struct {
	Status ApplicationStatus
	// Ordering is applied_at or status; prefix "-" for descending.
	Ordering string
}

func (p ApplicationListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	return q
}

// ApplyRequest submits an application. Resume is required; both documents
// must be PDF or DOCX and at most MaxDocumentSize bytes.
type ApplyRequest struct {
	JobID       int64
	Resume      Upload
	CoverLetter *Upload
}

// Validate checks the request locally before anything is uploaded.
func (r ApplyRequest) Validate() error {
	if r.JobID <= 0 {
		return fmt.Errorf("sdk: job id required")
	}
	if err := validateDocument("resume", r.Resume); err != nil {
		return err
	}
	if r.CoverLetter != nil {
		if err := validateDocument("cover_letter", *r.CoverLetter); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationUpdate replaces documents of an existing application. Nil
// fields are left unchanged.
type ApplicationUpdate struct {
	Resume      *Upload
	CoverLetter *Upload
}

// ApplicationsClient wraps the job application endpoints.
type ApplicationsClient struct {
	client *Client
}

// List returns the signed-in job seeker's applications, newest first.
func (a *ApplicationsClient) List(ctx context.Context, params ApplicationListParams) (Page[Application], error) {
	if a == nil || a.client == nil {
		return Page[Application]{}, fmt.Errorf("sdk: applications client not initialized")
	}
	req, err := a.client.newJSONRequest(ctx, http.MethodGet, withQuery(routes.Applications, params.query()), nil)
	if err != nil {
		return Page[Application]{}, err
	}
	var page Page[Application]
	if err := a.client.do(req, &page); err != nil {
		return Page[Application]{}, err
	}
	return page, nil
}

// Get returns a single application.
func (a *ApplicationsClient) Get(ctx context.Context, id int64) (Application, error) {
	if a == nil || a.client == nil {
		return Application{}, fmt.Errorf("sdk: applications client not initialized")
	}
	if id <= 0 {
		return Application{}, fmt.Errorf("sdk: application id required")
	}
	req, err := a.client.newJSONRequest(ctx, http.MethodGet, resourcePath(routes.ApplicationByID, id), nil)
	if err != nil {
		return Application{}, err
	}
	var app Application
	if err := a.client.do(req, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Apply uploads a resume (and optional cover letter) for a job.
func (a *ApplicationsClient) Apply(ctx context.Context, in ApplyRequest) (Application, error) {
	if a == nil || a.client == nil {
		return Application{}, fmt.Errorf("sdk: applications client not initialized")
	}
	if err := in.Validate(); err != nil {
		return Application{}, err
	}
	form := newMultipartForm()
	form.field("job", fmt.Sprint(in.JobID))
	form.file("resume", &in.Resume)
	form.file("cover_letter", in.CoverLetter)
	var app Application
	if err := a.client.doForm(ctx, http.MethodPost, routes.Applications, form, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Update replaces the documents of an application.
func (a *ApplicationsClient) Update(ctx context.Context, id int64, in ApplicationUpdate) (Application, error) {
	if a == nil || a.client == nil {
		return Application{}, fmt.Errorf("sdk: applications client not initialized")
	}
	if id <= 0 {
		return Application{}, fmt.Errorf("sdk: application id required")
	}
	if in.Resume != nil {
		if err := validateDocument("resume", *in.Resume); err != nil {
			return Application{}, err
		}
	}
	if in.CoverLetter != nil {
		if err := validateDocument("cover_letter", *in.CoverLetter); err != nil {
			return Application{}, err
		}
	}
	form := newMultipartForm()
	form.file("resume", in.Resume)
	form.file("cover_letter", in.CoverLetter)
	var app Application
	if err := a.client.doForm(ctx, http.MethodPatch, resourcePath(routes.ApplicationByID, id), form, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Delete withdraws an application.
func (a *ApplicationsClient) Delete(ctx context.Context, id int64) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("sdk: applications client not initialized")
	}
	if id <= 0 {
		return fmt.Errorf("sdk: application id required")
	}
	req, err := a.client.newJSONRequest(ctx, http.MethodDelete, resourcePath(routes.ApplicationByID, id), nil)
	if err != nil {
		return err
	}
	return a.client.do(req, nil)
}

// doForm sends a multipart form and decodes the JSON response into out.
func (c *Client) doForm(ctx context.Context, method, path string, form *multipartForm, out any) error {
	body, contentType, err := form.finish()
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}
