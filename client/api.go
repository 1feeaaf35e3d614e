package client

import (
	"context"
	"net/url"

	"github.com/alumniconnect/alumniconnect/core/event"
	"github.com/alumniconnect/alumniconnect/core/feed"
	"github.com/alumniconnect/alumniconnect/core/job"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
	"github.com/alumniconnect/alumniconnect/core/report"
	"github.com/alumniconnect/alumniconnect/core/user"
)

// Typed wrappers over the dashboard endpoints.

func (c *Client) RegisterStudent(ctx context.Context, data user.NewStudent) (user.User, error) {
	var usr user.User
	err := c.post(ctx, "/api/student/register", data, &usr)
	return usr, err
}

func (c *Client) RegisterAlumni(ctx context.Context, data user.NewAlumni) (user.User, error) {
	var usr user.User
	err := c.post(ctx, "/api/alumni/register", data, &usr)
	return usr, err
}

// Jobs

func (c *Client) Jobs(ctx context.Context, query url.Values) ([]job.Job, error) {
	var jobs []job.Job
	err := c.get(ctx, withQuery("/api/jobs", query), &jobs)
	return jobs, err
}

func (c *Client) PostJob(ctx context.Context, data job.NewJob) (job.Job, error) {
	var jb job.Job
	err := c.post(ctx, "/api/jobs", data, &jb)
	return jb, err
}

func (c *Client) MyJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	err := c.get(ctx, "/api/jobs/mine", &jobs)
	return jobs, err
}

func (c *Client) PendingJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	err := c.get(ctx, "/api/jobs/admin/pending", &jobs)
	return jobs, err
}

func (c *Client) SetJobStatus(ctx context.Context, data job.StatusUpdate) (job.Job, error) {
	var jb job.Job
	err := c.put(ctx, "/api/jobs/admin/status", data, &jb)
	return jb, err
}

// Events

func (c *Client) Events(ctx context.Context, query url.Values) ([]event.Event, error) {
	var events []event.Event
	err := c.get(ctx, withQuery("/api/events", query), &events)
	return events, err
}

func (c *Client) CreateEvent(ctx context.Context, data event.NewEvent) (event.Event, error) {
	var evt event.Event
	err := c.post(ctx, "/api/events", data, &evt)
	return evt, err
}

func (c *Client) RSVP(ctx context.Context, eventID string) (event.Event, error) {
	var evt event.Event
	err := c.post(ctx, "/api/events/"+eventID+"/rsvp", nil, &evt)
	return evt, err
}

func (c *Client) CancelRSVP(ctx context.Context, eventID string) (event.Event, error) {
	var evt event.Event
	err := c.delete(ctx, "/api/events/"+eventID+"/rsvp", &evt)
	return evt, err
}

func (c *Client) PendingEvents(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	err := c.get(ctx, "/api/events/admin/pending", &events)
	return events, err
}

func (c *Client) SetEventStatus(ctx context.Context, data event.StatusUpdate) (event.Event, error) {
	var evt event.Event
	err := c.put(ctx, "/api/events/admin/status", data, &evt)
	return evt, err
}

// Mentorship

func (c *Client) RequestMentorship(ctx context.Context, data mentorship.NewRequest) (mentorship.Request, error) {
	var req mentorship.Request
	err := c.post(ctx, "/api/mentorship", data, &req)
	return req, err
}

func (c *Client) MyMentorshipRequests(ctx context.Context) ([]mentorship.Request, error) {
	var reqs []mentorship.Request
	err := c.get(ctx, "/api/mentorship/mine", &reqs)
	return reqs, err
}

func (c *Client) MentorshipInbox(ctx context.Context) ([]mentorship.Request, error) {
	var reqs []mentorship.Request
	err := c.get(ctx, "/api/mentorship/requests", &reqs)
	return reqs, err
}

func (c *Client) RespondMentorship(ctx context.Context, id string, resp mentorship.Response) (mentorship.Request, error) {
	var req mentorship.Request
	err := c.put(ctx, "/api/mentorship/"+id+"/respond", resp, &req)
	return req, err
}

// Feed

func (c *Client) Feed(ctx context.Context, query url.Values) ([]feed.Post, error) {
	var posts []feed.Post
	err := c.get(ctx, withQuery("/api/feed", query), &posts)
	return posts, err
}

func (c *Client) PublishPost(ctx context.Context, data feed.NewPost) (feed.Post, error) {
	var post feed.Post
	err := c.post(ctx, "/api/feed", data, &post)
	return post, err
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/feed/"+id, nil)
}

// Reports

func (c *Client) FileReport(ctx context.Context, data report.NewReport) (report.Report, error) {
	var rpt report.Report
	err := c.post(ctx, "/api/reports", data, &rpt)
	return rpt, err
}

func (c *Client) OpenReports(ctx context.Context) ([]report.Report, error) {
	var reports []report.Report
	err := c.get(ctx, "/api/reports/admin", &reports)
	return reports, err
}

func (c *Client) SetReportStatus(ctx context.Context, data report.StatusUpdate) (report.Report, error) {
	var rpt report.Report
	err := c.put(ctx, "/api/reports/admin/status", data, &rpt)
	return rpt, err
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
