package session

import (
	"net/http"
	"strings"

	"github.com/hirelane/hirelane/sdk/go/routes"
)

// Visibility partitions requests into those that carry a credential and
// those that must not.
type Visibility int

const (
	Protected Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "protected"
}

// Rule matches public endpoints. An empty Method matches every method.
// Paths are compared with a trailing slash appended, so "/auth/login" and
// "/auth/login/" are the same endpoint.
type Rule struct {
	Method string
	Path   string
	Exact  bool
}

// DefaultRules is the public endpoint set of the API.
func DefaultRules() []Rule {
	return []Rule{
		{Path: routes.AuthRegister},
		{Path: routes.AuthLogin},
		{Path: routes.AuthTokenRefresh},
		{Path: routes.AuthOTPRequest},
		{Path: routes.AuthOTPVerify},
		{Path: routes.AuthPasswordReset},
		// The job board listing is public; details, writes and stats are not.
		{Method: http.MethodGet, Path: routes.Jobs, Exact: true},
	}
}

// Classifier decides the Visibility of a request path.
type Classifier struct {
	basePath string
	rules    []Rule
}

// NewClassifier builds a classifier. basePath is the API mount point (for
// example "/api/v1") and is stripped before matching. With no rules the
// DefaultRules are used.
func NewClassifier(basePath string, rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		r.Path = withSlash(r.Path)
		normalized = append(normalized, r)
	}
	return &Classifier{
		basePath: strings.TrimSuffix(strings.TrimSpace(basePath), "/"),
		rules:    normalized,
	}
}

// Classify matches path against the public set; anything else is Protected.
func (c *Classifier) Classify(method, path string) Visibility {
	if c == nil {
		return Protected
	}
	p := path
	if c.basePath != "" && strings.HasPrefix(p, c.basePath) {
		p = strings.TrimPrefix(p, c.basePath)
	}
	p = withSlash(p)
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	for _, r := range c.rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		if r.Exact && p == r.Path {
			return Public
		}
		if !r.Exact && strings.HasPrefix(p, r.Path) {
			return Public
		}
	}
	return Protected
}

func withSlash(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
