package alertsrv

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

const (
	defaultSendTimeout = 10 * time.Second
	defaultConcurrency = 8
)

// JobSource is the slice of the job repository the dispatcher needs
type JobSource interface {
	GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error)
}

// ProfileSource is the slice of the candidate repository the dispatcher needs
type ProfileSource interface {
	GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Profile, error)
}

// Dispatcher evaluates active instant subscriptions against a freshly
// published subject and notifies the matching owners. Subscriptions are
// independent: a failure on one is logged and never stops the rest, and
// nothing here can fail the write that triggered the event.
type Dispatcher struct {
	alertRepo     alert.Repository
	jobRepo       JobSource
	candidateRepo ProfileSource
	contacts      alert.ContactDirectory
	gateway       alert.NotificationGateway

	sendTimeout time.Duration
	concurrency int
}

// NewDispatcher creates a dispatcher with default fan-out settings
func NewDispatcher(
	alertRepo alert.Repository,
	jobRepo JobSource,
	candidateRepo ProfileSource,
	contacts alert.ContactDirectory,
	gateway alert.NotificationGateway,
) *Dispatcher {
	return &Dispatcher{
		alertRepo:     alertRepo,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		contacts:      contacts,
		gateway:       gateway,
		sendTimeout:   defaultSendTimeout,
		concurrency:   defaultConcurrency,
	}
}

// Dispatch runs one evaluation pass for an event. The returned error
// covers only failures to load the working set; per-subscription
// problems are contained inside the pass.
func (d *Dispatcher) Dispatch(ctx context.Context, event alert.Event) error {
	switch event.Kind {
	case alert.SubjectJob:
		return d.dispatchJob(ctx, event)
	case alert.SubjectProfile:
		return d.dispatchProfile(ctx, event)
	}
	return alert.ErrInvalidKind().WithDetail("kind", event.Kind)
}

func (d *Dispatcher) dispatchJob(ctx context.Context, event alert.Event) error {
	jobEntity, err := d.jobRepo.GetByID(ctx, kernel.JobID(event.SubjectID))
	if err != nil {
		return errx.Wrap(err, "failed to load job for dispatch", errx.TypeInternal)
	}

	// the posting may have been closed between publish and dispatch
	if !jobEntity.IsPublished() {
		logx.Infof("Skipping dispatch for job %s: no longer published", event.SubjectID)
		return nil
	}

	subs, err := d.alertRepo.ListActiveInstant(ctx, alert.KindJobAlert)
	if err != nil {
		return errx.Wrap(err, "failed to load job alert subscriptions", errx.TypeInternal)
	}

	matched := 0
	d.forEach(ctx, subs, func(ctx context.Context, sub *alert.Subscription) bool {
		if !sub.Criteria.MatchesJob(jobEntity) {
			return false
		}
		return d.notify(ctx, sub, alert.Notification{
			TemplateKind: "job_alert",
			SubjectID:    event.SubjectID,
			Metadata: map[string]string{
				"title": string(jobEntity.Title),
				"city":  jobEntity.City.String(),
			},
		})
	}, &matched)

	logx.Infof("Dispatched job %s to %d of %d instant subscriptions", event.SubjectID, matched, len(subs))
	return nil
}

func (d *Dispatcher) dispatchProfile(ctx context.Context, event alert.Event) error {
	profile, err := d.candidateRepo.GetByID(ctx, kernel.CandidateID(event.SubjectID))
	if err != nil {
		return errx.Wrap(err, "failed to load profile for dispatch", errx.TypeInternal)
	}

	subs, err := d.alertRepo.ListActiveInstant(ctx, alert.KindResumeAlert)
	if err != nil {
		return errx.Wrap(err, "failed to load resume alert subscriptions", errx.TypeInternal)
	}

	matched := 0
	d.forEach(ctx, subs, func(ctx context.Context, sub *alert.Subscription) bool {
		if !sub.Criteria.MatchesProfile(profile) {
			return false
		}
		return d.notify(ctx, sub, alert.Notification{
			TemplateKind: "resume_alert",
			SubjectID:    event.SubjectID,
			Metadata: map[string]string{
				"headline":    profile.Headline,
				"match_score": strconv.Itoa(sub.Criteria.ScoreProfile(profile)),
			},
		})
	}, &matched)

	logx.Infof("Dispatched profile %s to %d of %d instant subscriptions", event.SubjectID, matched, len(subs))
	return nil
}

// forEach fans out over subscriptions with bounded concurrency. Each
// callback reports whether it resulted in a delivery.
func (d *Dispatcher) forEach(ctx context.Context, subs []alert.Subscription, fn func(context.Context, *alert.Subscription) bool, delivered *int) {
	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range subs {
		sub := &subs[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if fn(ctx, sub) {
				mu.Lock()
				*delivered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

// notify resolves the owner's address, sends one notification with its
// own timeout, and records the delivery on success. Returns whether a
// send was confirmed.
func (d *Dispatcher) notify(ctx context.Context, sub *alert.Subscription, n alert.Notification) bool {
	email, err := d.contacts.EmailFor(ctx, sub.Owner)
	if err != nil || email.IsEmpty() {
		logx.Warnf("Skipping alert %s: owner %s has no contact address", sub.ID, sub.Owner)
		return false
	}
	n.Recipient = email

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.gateway.Send(sendCtx, n); err != nil {
		logx.Errorf("Notification for alert %s failed: %v", sub.ID, err)
		return false
	}

	if err := d.alertRepo.RecordDelivery(ctx, sub.ID, time.Now()); err != nil {
		// the email went out; losing a counter tick is the lesser harm
		logx.Errorf("Failed to record delivery for alert %s: %v", sub.ID, err)
	}
	return true
}
