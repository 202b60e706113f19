package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultClassification(t *testing.T) {
	c := NewClassifier("")
	cases := []struct {
		method string
		path   string
		want   Visibility
	}{
		{http.MethodPost, "/auth/login/", Public},
		{http.MethodPost, "/auth/login", Public},
		{http.MethodPost, "/auth/register/", Public},
		{http.MethodPost, "/auth/token/refresh/", Public},
		{http.MethodPost, "/auth/otp/request/", Public},
		{http.MethodPost, "/auth/otp/verify/", Public},
		{http.MethodPost, "/auth/password/reset/", Public},
		{http.MethodGet, "/access/jobs/", Public},
		{"", "/access/jobs/", Public},
		{http.MethodPost, "/access/jobs/", Protected},
		{http.MethodGet, "/access/jobs/3/", Protected},
		{http.MethodGet, "/access/jobs/dashboard_stats/", Protected},
		{http.MethodPost, "/auth/logout/", Protected},
		{http.MethodPut, "/auth/update/", Protected},
		{http.MethodGet, "/access/calendar/upcoming/", Protected},
		{http.MethodGet, "/unknown", Protected},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}

func TestClassifierStripsBasePath(t *testing.T) {
	c := NewClassifier("/api/v1/")
	assert.Equal(t, Public, c.Classify(http.MethodPost, "/api/v1/auth/login/"))
	assert.Equal(t, Protected, c.Classify(http.MethodGet, "/api/v1/access/applications/"))
	assert.Equal(t, Public, c.Classify(http.MethodGet, "/api/v1/access/jobs"))
}

func TestClassifierCustomRules(t *testing.T) {
	c := NewClassifier("", Rule{Method: "get", Path: "health", Exact: true})
	assert.Equal(t, Public, c.Classify(http.MethodGet, "/health"))
	assert.Equal(t, Protected, c.Classify(http.MethodGet, "/health/deep"))
	assert.Equal(t, Protected, c.Classify(http.MethodPost, "/auth/login/"))
}

func TestNilClassifierIsProtected(t *testing.T) {
	var c *Classifier
	assert.Equal(t, Protected, c.Classify(http.MethodGet, "/auth/login/"))
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "public", Public.String())
}
