package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hirelane/hirelane/sdk/go/routes"
)

// CalendarListParams narrows the recruiter calendar. Month is only applied
// together with Year.
type CalendarListParams struct {
	Month int
	Year  int
	Type  EventType
}

func (p CalendarListParams) query() url.Values {
	q := url.Values{}
	if p.Year > 0 {
		q.Set("year", strconv.Itoa(p.Year))
		if p.Month >= 1 && p.Month <= 12 {
			q.Set("month", strconv.Itoa(p.Month))
		}
	}
	if p.Type != "" {
		q.Set("type", string(p.Type))
	}
	return q
}

// CalendarClient wraps the recruiter calendar endpoints.
type CalendarClient struct {
	client *Client
}

// List returns the signed-in recruiter's events ordered by date.
func (c *CalendarClient) List(ctx context.Context, params CalendarListParams) ([]CalendarEvent, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("sdk: calendar client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, withQuery(routes.Calendar, params.query()), nil)
	if err != nil {
		return nil, err
	}
	var page Page[CalendarEvent]
	if err := c.client.do(req, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Get returns a single event.
func (c *CalendarClient) Get(ctx context.Context, id int64) (CalendarEvent, error) {
	if c == nil || c.client == nil {
		return CalendarEvent{}, fmt.Errorf("sdk: calendar client not initialized")
	}
	if id <= 0 {
		return CalendarEvent{}, fmt.Errorf("sdk: event id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, resourcePath(routes.CalendarByID, id), nil)
	if err != nil {
		return CalendarEvent{}, err
	}
	var ev CalendarEvent
	if err := c.client.do(req, &ev); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

// Create schedules an event. Interviews need a candidate.
func (c *CalendarClient) Create(ctx context.Context, in CalendarEventInput) (CalendarEvent, error) {
	if c == nil || c.client == nil {
		return CalendarEvent{}, fmt.Errorf("sdk: calendar client not initialized")
	}
	if in.Title == "" || in.Date == nil {
		return CalendarEvent{}, fmt.Errorf("sdk: event title and date required")
	}
	if in.EventType == EventInterview && in.Candidate == nil {
		return CalendarEvent{}, fmt.Errorf("sdk: candidate is required for interview events")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodPost, routes.Calendar, in)
	if err != nil {
		return CalendarEvent{}, err
	}
	var ev CalendarEvent
	if err := c.client.do(req, &ev); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

// Update changes the given fields of an event.
func (c *CalendarClient) Update(ctx context.Context, id int64, in CalendarEventInput) (CalendarEvent, error) {
	if c == nil || c.client == nil {
		return CalendarEvent{}, fmt.Errorf("sdk: calendar client not initialized")
	}
	if id <= 0 {
		return CalendarEvent{}, fmt.Errorf("sdk: event id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodPatch, resourcePath(routes.CalendarByID, id), in)
	if err != nil {
		return CalendarEvent{}, err
	}
	var ev CalendarEvent
	if err := c.client.do(req, &ev); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

// Delete removes an event.
func (c *CalendarClient) Delete(ctx context.Context, id int64) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: calendar client not initialized")
	}
	if id <= 0 {
		return fmt.Errorf("sdk: event id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodDelete, resourcePath(routes.CalendarByID, id), nil)
	if err != nil {
		return err
	}
	return c.client.do(req, nil)
}

// Upcoming returns the next seven days of events grouped as today,
// tomorrow and the rest of the week.
func (c *CalendarClient) Upcoming(ctx context.Context) (UpcomingEvents, error) {
	if c == nil || c.client == nil {
		return UpcomingEvents{}, fmt.Errorf("sdk: calendar client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.CalendarUpcoming, nil)
	if err != nil {
		return UpcomingEvents{}, err
	}
	var out UpcomingEvents
	if err := c.client.do(req, &out); err != nil {
		return UpcomingEvents{}, err
	}
	return out, nil
}
