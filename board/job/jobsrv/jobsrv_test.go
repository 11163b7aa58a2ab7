package jobsrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/board/job/jobsrv"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeJobRepo struct {
	jobs map[kernel.JobID]*job.Job
}

func newFakeJobRepo(jobs ...*job.Job) *fakeJobRepo {
	repo := &fakeJobRepo{jobs: make(map[kernel.JobID]*job.Job)}
	for _, j := range jobs {
		copied := *j
		repo.jobs[j.ID] = &copied
	}
	return repo
}

func (f *fakeJobRepo) Create(ctx context.Context, j *job.Job) error {
	if _, ok := f.jobs[j.ID]; ok {
		return job.ErrJobAlreadyExists()
	}
	copied := *j
	f.jobs[j.ID] = &copied
	return nil
}

func (f *fakeJobRepo) Update(ctx context.Context, id kernel.JobID, j *job.Job) error {
	if _, ok := f.jobs[id]; !ok {
		return job.ErrJobNotFound()
	}
	copied := *j
	f.jobs[id] = &copied
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	copied := *j
	return &copied, nil
}

func (f *fakeJobRepo) Delete(ctx context.Context, id kernel.JobID) error {
	if _, ok := f.jobs[id]; !ok {
		return job.ErrJobNotFound()
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	items := make([]job.Job, 0)
	for _, j := range f.jobs {
		if scope.MatchesOwner(j.Employer) {
			items = append(items, *j)
		}
	}
	return &kernel.Paginated[job.Job]{Items: items, Page: kernel.NewPage(pagination, len(items))}, nil
}

func (f *fakeJobRepo) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	items := make([]job.Job, 0)
	for _, j := range f.jobs {
		if j.IsPublished() {
			items = append(items, *j)
		}
	}
	return &kernel.Paginated[job.Job]{Items: items, Page: kernel.NewPage(pagination, len(items))}, nil
}

// Publish mirrors the persistence guard: only a DRAFT row transitions,
// so racing publishes cannot both succeed.
func (f *fakeJobRepo) Publish(ctx context.Context, id kernel.JobID) error {
	j, ok := f.jobs[id]
	if !ok {
		return job.ErrJobNotFound()
	}
	if j.Status != job.JobStatusDraft {
		return job.ErrCannotPublish()
	}
	now := time.Now()
	j.Status = job.JobStatusPublished
	j.PublishedAt = &now
	return nil
}

func (f *fakeJobRepo) Close(ctx context.Context, id kernel.JobID) error {
	j, ok := f.jobs[id]
	if !ok {
		return job.ErrJobNotFound()
	}
	j.Status = job.JobStatusClosed
	return nil
}

func (f *fakeJobRepo) Reopen(ctx context.Context, id kernel.JobID) error {
	j, ok := f.jobs[id]
	if !ok {
		return job.ErrJobNotFound()
	}
	j.Status = job.JobStatusPublished
	return nil
}

type fakeEventQueue struct {
	published []alert.Event
}

func (f *fakeEventQueue) Publish(ctx context.Context, event alert.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventQueue) Dequeue(ctx context.Context, timeout time.Duration) (*alert.Event, error) {
	return nil, nil
}

// ============================================================================
// Helpers
// ============================================================================

func employerPrincipal(id string) iam.Principal {
	return iam.Principal{ID: kernel.UserID(id), Role: iam.RoleEmployer}
}

func hrAdminPrincipal(id string, employers ...kernel.EmployerID) iam.Principal {
	return iam.Principal{ID: kernel.UserID(id), Role: iam.RoleHRAdmin, EmployerIDs: employers}
}

func draftJob(id kernel.JobID, employer kernel.EmployerID) *job.Job {
	return &job.Job{
		ID:       id,
		Employer: employer,
		Title:    "Backend Engineer",
		Status:   job.JobStatusDraft,
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateJob_EmployerPostsForSelf(t *testing.T) {
	repo := newFakeJobRepo()
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)

	created, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "Go services",
	}, employerPrincipal("emp-1"))

	require.NoError(t, err)
	assert.Equal(t, kernel.EmployerID("emp-1"), created.Employer, "employer is taken from the principal, not the request")
	assert.True(t, created.IsDraft())
	assert.Empty(t, queue.published, "drafts do not dispatch")
}

func TestCreateJob_PublishImmediatelyEmitsOneEvent(t *testing.T) {
	repo := newFakeJobRepo()
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)

	created, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:              "Backend Engineer",
		PublishImmediately: true,
	}, employerPrincipal("emp-1"))

	require.NoError(t, err)
	assert.True(t, created.IsPublished())
	require.Len(t, queue.published, 1)
	assert.Equal(t, alert.SubjectJob, queue.published[0].Kind)
	assert.Equal(t, created.ID.String(), queue.published[0].SubjectID)
}

func TestCreateJob_CandidateDenied(t *testing.T) {
	svc := jobsrv.NewJobService(newFakeJobRepo(), &fakeEventQueue{})

	_, err := svc.CreateJob(context.Background(), job.CreateJobRequest{Title: "x"},
		iam.Principal{ID: "cand-1", Role: iam.RoleCandidate})
	assert.Error(t, err)
}

func TestCreateJob_HRAdminOnBehalf(t *testing.T) {
	repo := newFakeJobRepo()
	svc := jobsrv.NewJobService(repo, &fakeEventQueue{})
	admin := hrAdminPrincipal("hr-1", "emp-1", "emp-2")

	created, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:    "Backend Engineer",
		Employer: "emp-2",
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, kernel.EmployerID("emp-2"), created.Employer)

	_, err = svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:    "Backend Engineer",
		Employer: "emp-9",
	}, admin)
	assert.Error(t, err, "hr-admin cannot post for an employer outside their assignment set")
}

func TestPublishJob_EmitsExactlyOnce(t *testing.T) {
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"))
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)
	owner := employerPrincipal("emp-1")

	require.NoError(t, svc.PublishJob(context.Background(), "job-1", owner))
	require.Len(t, queue.published, 1)

	err := svc.PublishJob(context.Background(), "job-1", owner)
	assert.Error(t, err, "publishing a published posting is a conflict")
	assert.Len(t, queue.published, 1, "second publish must not re-fire")
}

func TestPublishJob_NonOwnerDenied(t *testing.T) {
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"))
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)

	err := svc.PublishJob(context.Background(), "job-1", employerPrincipal("emp-2"))
	assert.Error(t, err)
	assert.Empty(t, queue.published)

	err = svc.PublishJob(context.Background(), "job-1", hrAdminPrincipal("hr-1", "emp-9"))
	assert.Error(t, err, "hr-admin outside the assignment set cannot publish")
	assert.Empty(t, queue.published)
}

func TestReopenJob_DoesNotRedispatch(t *testing.T) {
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"))
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)
	owner := employerPrincipal("emp-1")

	require.NoError(t, svc.PublishJob(context.Background(), "job-1", owner))
	require.NoError(t, svc.CloseJob(context.Background(), "job-1", owner))
	require.NoError(t, svc.ReopenJob(context.Background(), "job-1", owner))

	reopened, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, reopened.IsPublished())
	assert.Len(t, queue.published, 1, "reopen restores visibility without re-firing alerts")
}

func TestUpdateJob_NoEventOnResave(t *testing.T) {
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"))
	queue := &fakeEventQueue{}
	svc := jobsrv.NewJobService(repo, queue)
	owner := employerPrincipal("emp-1")

	require.NoError(t, svc.PublishJob(context.Background(), "job-1", owner))

	title := kernel.JobTitle("Staff Engineer")
	_, err := svc.UpdateJob(context.Background(), "job-1", job.UpdateJobRequest{Title: &title}, owner)
	require.NoError(t, err)
	assert.Len(t, queue.published, 1, "editing a published posting is not a publish transition")
}

func TestGetJob_DraftMaskedFromOutsiders(t *testing.T) {
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"))
	svc := jobsrv.NewJobService(repo, &fakeEventQueue{})

	_, err := svc.GetJob(context.Background(), "job-1", iam.Principal{ID: "cand-1", Role: iam.RoleCandidate})
	assert.Error(t, err, "drafts are invisible to non-managers, indistinguishably from absence")

	got, err := svc.GetJob(context.Background(), "job-1", employerPrincipal("emp-1"))
	require.NoError(t, err)
	assert.Equal(t, kernel.JobID("job-1"), got.ID)
}

func TestListManagedJobs_FollowsScope(t *testing.T) {
	published := draftJob("job-2", "emp-2")
	published.Status = job.JobStatusPublished
	repo := newFakeJobRepo(draftJob("job-1", "emp-1"), published)
	svc := jobsrv.NewJobService(repo, &fakeEventQueue{})

	own, err := svc.ListManagedJobs(context.Background(), employerPrincipal("emp-1"), kernel.PaginationOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, kernel.JobID("job-1"), own.Items[0].ID)

	all, err := svc.ListManagedJobs(context.Background(), iam.Principal{ID: "root", Role: iam.RoleSuperadmin}, kernel.PaginationOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	none, err := svc.ListManagedJobs(context.Background(), iam.Principal{ID: "cand-1", Role: iam.RoleCandidate}, kernel.PaginationOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, none.Items, "candidates manage nothing")
}
