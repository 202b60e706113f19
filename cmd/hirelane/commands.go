package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hirelane/hirelane/sdk/go"
)

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (default: $HIRELANE_PASSWORD or stdin)")
	remember := fs.Bool("remember", true, "keep the session across runs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("login: -email is required")
	}
	pw := *password
	if pw == "" {
		pw = os.Getenv("HIRELANE_PASSWORD")
	}
	if pw == "" {
		pw = readLine(a.stdin)
	}
	if pw == "" {
		return errors.New("login: no password given")
	}

	s, err := a.client.Auth.Login(ctx, sdk.LoginRequest{Email: *email, Password: pw, Remember: *remember})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	name := *email
	if s.User != nil {
		name = strings.TrimSpace(s.User.FirstName + " " + s.User.LastName)
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", name)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.client.Auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami() error {
	s := a.client.Session().Current()
	if s == nil {
		return errors.New("not signed in")
	}
	if s.User != nil {
		fmt.Fprintf(a.out, "%s %s <%s> (%s)\n", s.User.FirstName, s.User.LastName, s.User.Email, s.User.Role)
	}
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "access token expires %s\n", s.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *app) jobs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	var params sdk.JobListParams
	fs.StringVar(&params.Search, "search", "", "full-text search")
	jobType := fs.String("type", "", "full_time, part_time, contract or internship")
	fs.StringVar(&params.Location, "location", "", "location contains")
	fs.BoolVar(&params.ActiveOnly, "active", false, "only jobs still open")
	fs.StringVar(&params.Ordering, "order", "", "created_at, deadline or title; prefix - for descending")
	fs.IntVar(&params.Page, "page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jobType != "" {
		params.JobType = sdk.ParseJobType(*jobType)
		if !params.JobType.IsValid() {
			return fmt.Errorf("jobs: unknown type %q", *jobType)
		}
	}

	page, err := a.client.Jobs.List(ctx, params)
	if err != nil {
		return fmt.Errorf("jobs: %w", err)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tLOCATION\tDEADLINE")
	for _, j := range page.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.JobType, j.Location, j.Deadline)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d jobs", len(page.Results), page.Count)
	if page.HasNext() {
		fmt.Fprintf(a.out, "; next: -page %d", params.Page+1)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) applications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("applications", flag.ContinueOnError)
	status := fs.String("status", "", "submitted, under_review, shortlisted, rejected or accepted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	page, err := a.client.Applications.List(ctx, sdk.ApplicationListParams{Status: sdk.ApplicationStatus(*status)})
	if err != nil {
		return fmt.Errorf("applications: %w", err)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tSTATUS\tAPPLIED")
	for _, item := range page.Results {
		job := fmt.Sprint(item.Job.ID)
		if item.Job.Job != nil {
			job = item.Job.Job.Title
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, job, item.Status, item.AppliedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func (a *app) upcoming(ctx context.Context) error {
	events, err := a.client.Calendar.Upcoming(ctx)
	if err != nil {
		return fmt.Errorf("upcoming: %w", err)
	}
	for _, group := range []struct {
		label  string
		events []sdk.CalendarEvent
	}{
		{"Today", events.Today},
		{"Tomorrow", events.Tomorrow},
		{"This week", events.ThisWeek},
	} {
		fmt.Fprintf(a.out, "%s:\n", group.label)
		if len(group.events) == 0 {
			fmt.Fprintln(a.out, "  nothing scheduled")
			continue
		}
		for _, ev := range group.events {
			line := fmt.Sprintf("  %s %s  %s [%s]", ev.Date.Format("Mon Jan 2"), ev.Time, ev.Title, ev.EventType)
			if ev.CandidateName != nil {
				line += " with " + *ev.CandidateName
			}
			fmt.Fprintln(a.out, line)
		}
	}
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	public := fs.Bool("public", false, "show job board totals instead of your dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if *public {
		s, err := a.client.Jobs.Statistics(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		fmt.Fprintf(tw, "total jobs\t%d\n", s.TotalJobs)
		fmt.Fprintf(tw, "active jobs\t%d\n", s.ActiveJobs)
		fmt.Fprintf(tw, "applications\t%d\n", s.TotalApplications)
		for _, b := range s.ByJobType {
			fmt.Fprintf(tw, "  %s\t%d\n", b.JobType, b.Count)
		}
		return tw.Flush()
	}
	s, err := a.client.Jobs.DashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Fprintf(tw, "jobs (active)\t%d (%d)\n", s.TotalJobs, s.ActiveJobs)
	fmt.Fprintf(tw, "candidates\t%d\n", s.TotalCandidates)
	fmt.Fprintf(tw, "interviews scheduled\t%d\n", s.InterviewsScheduled)
	fmt.Fprintf(tw, "feedback pending\t%d\n", s.FeedbackPending)
	fmt.Fprintf(tw, "approval pending\t%d\n", s.ApprovalPending)
	fmt.Fprintf(tw, "offer acceptance pending\t%d\n", s.OfferAcceptancePending)
	fmt.Fprintf(tw, "documentation pending\t%d\n", s.DocumentationPending)
	return tw.Flush()
}

// keepalive refreshes the session on a timer and, with -metrics-addr,
// serves the client's Prometheus metrics until ctx is cancelled.
func (a *app) keepalive(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("keepalive", flag.ContinueOnError)
	interval := fs.Duration("interval", a.cfg.RefreshInterval, "refresh period")
	metricsAddr := fs.String("metrics-addr", "", "serve /metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.client.Session().Current() == nil {
		return errors.New("keepalive: not signed in")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Dur("interval", *interval).Msg("keeping session alive")
		return a.client.Session().KeepAlive(ctx, *interval)
	})
	if *metricsAddr != "" {
		ln, err := net.Listen("tcp", *metricsAddr)
		if err != nil {
			return fmt.Errorf("keepalive: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			a.logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func readLine(r io.Reader) string {
	if r == nil {
		return ""
	}
	if f, ok := r.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			fmt.Fprint(os.Stderr, "Password: ")
		}
	}
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(line)
}
