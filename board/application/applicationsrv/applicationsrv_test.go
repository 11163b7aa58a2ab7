package applicationsrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchbox-hr/matchbox/board/application"
	"github.com/matchbox-hr/matchbox/board/application/applicationsrv"
	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeApplicationRepo struct {
	apps map[kernel.ApplicationID]*application.Application
}

func newFakeApplicationRepo(apps ...*application.Application) *fakeApplicationRepo {
	repo := &fakeApplicationRepo{apps: make(map[kernel.ApplicationID]*application.Application)}
	for _, a := range apps {
		copied := *a
		repo.apps[a.ID] = &copied
	}
	return repo
}

func (f *fakeApplicationRepo) Create(ctx context.Context, app *application.Application) error {
	copied := *app
	f.apps[app.ID] = &copied
	return nil
}

func (f *fakeApplicationRepo) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound()
	}
	copied := *a
	return &copied, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) error {
	a, ok := f.apps[id]
	if !ok {
		return application.ErrApplicationNotFound()
	}
	a.Status = status
	return nil
}

func (f *fakeApplicationRepo) ExistsForJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicant kernel.UserID) (bool, error) {
	for _, a := range f.apps {
		if a.JobID == jobID && a.Applicant == applicant {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationRepo) ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	items := make([]application.Application, 0)
	for _, a := range f.apps {
		if a.JobID == jobID {
			items = append(items, *a)
		}
	}
	return &kernel.Paginated[application.Application]{Items: items, Page: kernel.NewPage(pagination, len(items))}, nil
}

func (f *fakeApplicationRepo) ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	items := make([]application.Application, 0)
	for _, a := range f.apps {
		if scope.MatchesOwner(a.Employer) {
			items = append(items, *a)
		}
	}
	return &kernel.Paginated[application.Application]{Items: items, Page: kernel.NewPage(pagination, len(items))}, nil
}

func (f *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicant kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	items := make([]application.Application, 0)
	for _, a := range f.apps {
		if a.Applicant == applicant {
			items = append(items, *a)
		}
	}
	return &kernel.Paginated[application.Application]{Items: items, Page: kernel.NewPage(pagination, len(items))}, nil
}

type fakeJobRepo struct {
	jobs map[kernel.JobID]*job.Job
}

func (f *fakeJobRepo) Create(ctx context.Context, j *job.Job) error { return nil }
func (f *fakeJobRepo) Update(ctx context.Context, id kernel.JobID, j *job.Job) error {
	return nil
}
func (f *fakeJobRepo) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return j, nil
}
func (f *fakeJobRepo) Delete(ctx context.Context, id kernel.JobID) error { return nil }
func (f *fakeJobRepo) ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	return &kernel.Paginated[job.Job]{}, nil
}
func (f *fakeJobRepo) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	return &kernel.Paginated[job.Job]{}, nil
}
func (f *fakeJobRepo) Publish(ctx context.Context, id kernel.JobID) error { return nil }
func (f *fakeJobRepo) Close(ctx context.Context, id kernel.JobID) error   { return nil }
func (f *fakeJobRepo) Reopen(ctx context.Context, id kernel.JobID) error  { return nil }

type fakeCandidateRepo struct {
	profiles map[kernel.UserID]*candidate.Profile
}

func (f *fakeCandidateRepo) Create(ctx context.Context, p *candidate.Profile) error { return nil }
func (f *fakeCandidateRepo) Update(ctx context.Context, id kernel.CandidateID, p *candidate.Profile) error {
	return nil
}
func (f *fakeCandidateRepo) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Profile, error) {
	return nil, candidate.ErrProfileNotFound()
}
func (f *fakeCandidateRepo) GetByOwner(ctx context.Context, owner kernel.UserID) (*candidate.Profile, error) {
	p, ok := f.profiles[owner]
	if !ok {
		return nil, candidate.ErrProfileNotFound()
	}
	return p, nil
}
func (f *fakeCandidateRepo) Delete(ctx context.Context, id kernel.CandidateID) error { return nil }
func (f *fakeCandidateRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Profile], error) {
	return &kernel.Paginated[candidate.Profile]{}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func publishedJob(id kernel.JobID, employer kernel.EmployerID) *job.Job {
	now := time.Now()
	return &job.Job{ID: id, Employer: employer, Status: job.JobStatusPublished, PublishedAt: &now}
}

func submitted(id kernel.ApplicationID, jobID kernel.JobID, employer kernel.EmployerID, applicant kernel.UserID) *application.Application {
	return &application.Application{
		ID:        id,
		JobID:     jobID,
		Employer:  employer,
		Applicant: applicant,
		Status:    application.ApplicationStatusSubmitted,
	}
}

func newService(appRepo *fakeApplicationRepo, jobs ...*job.Job) *applicationsrv.ApplicationService {
	jobRepo := &fakeJobRepo{jobs: make(map[kernel.JobID]*job.Job)}
	for _, j := range jobs {
		jobRepo.jobs[j.ID] = j
	}
	candRepo := &fakeCandidateRepo{profiles: map[kernel.UserID]*candidate.Profile{
		"cand-1": {ID: "prof-1", Owner: "cand-1"},
	}}
	return applicationsrv.NewApplicationService(appRepo, jobRepo, candRepo)
}

var page = kernel.PaginationOptions{Page: 1, PageSize: 10}

// ============================================================================
// Tests
// ============================================================================

func TestSubmitApplication(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := newService(repo, publishedJob("job-1", "emp-1"))
	applicant := iam.Principal{ID: "cand-1", Role: iam.RoleCandidate}

	app, err := svc.SubmitApplication(context.Background(), application.SubmitApplicationRequest{JobID: "job-1"}, applicant)
	require.NoError(t, err)
	assert.Equal(t, kernel.EmployerID("emp-1"), app.Employer, "employer is denormalized from the posting")
	assert.Equal(t, application.ApplicationStatusSubmitted, app.Status)

	_, err = svc.SubmitApplication(context.Background(), application.SubmitApplicationRequest{JobID: "job-1"}, applicant)
	assert.Error(t, err, "second application to the same posting is a conflict")
}

func TestSubmitApplication_DraftJobRejected(t *testing.T) {
	draft := publishedJob("job-1", "emp-1")
	draft.Status = job.JobStatusDraft
	svc := newService(newFakeApplicationRepo(), draft)

	_, err := svc.SubmitApplication(context.Background(), application.SubmitApplicationRequest{JobID: "job-1"},
		iam.Principal{ID: "cand-1", Role: iam.RoleCandidate})
	assert.Error(t, err)
}

func TestListForJob_RequiresManagement(t *testing.T) {
	repo := newFakeApplicationRepo(
		submitted("app-1", "job-1", "emp-1", "cand-1"),
	)
	svc := newService(repo, publishedJob("job-1", "emp-1"))

	apps, err := svc.ListForJob(context.Background(), "job-1", iam.Principal{ID: "emp-1", Role: iam.RoleEmployer}, page)
	require.NoError(t, err)
	assert.Len(t, apps.Items, 1)

	_, err = svc.ListForJob(context.Background(), "job-1", iam.Principal{ID: "emp-2", Role: iam.RoleEmployer}, page)
	assert.Error(t, err, "another employer cannot read the applicant list")

	apps, err = svc.ListForJob(context.Background(), "job-1", iam.Principal{ID: "hr-1", Role: iam.RoleHRAdmin, EmployerIDs: []kernel.EmployerID{"emp-1"}}, page)
	require.NoError(t, err)
	assert.Len(t, apps.Items, 1)

	_, err = svc.ListForJob(context.Background(), "job-1", iam.Principal{ID: "hr-2", Role: iam.RoleHRAdmin, EmployerIDs: []kernel.EmployerID{"emp-9"}}, page)
	assert.Error(t, err, "hr-admin outside the assignment set is denied")
}

func TestListVisible_FollowsScope(t *testing.T) {
	repo := newFakeApplicationRepo(
		submitted("app-1", "job-1", "emp-1", "cand-1"),
		submitted("app-2", "job-2", "emp-2", "cand-2"),
		submitted("app-3", "job-3", "emp-3", "cand-3"),
	)
	svc := newService(repo)

	admin := iam.Principal{ID: "hr-1", Role: iam.RoleHRAdmin, EmployerIDs: []kernel.EmployerID{"emp-1", "emp-2"}}
	apps, err := svc.ListVisible(context.Background(), admin, page)
	require.NoError(t, err)
	assert.Len(t, apps.Items, 2)

	root := iam.Principal{ID: "root", Role: iam.RoleSuperadmin}
	apps, err = svc.ListVisible(context.Background(), root, page)
	require.NoError(t, err)
	assert.Len(t, apps.Items, 3)

	cand := iam.Principal{ID: "cand-1", Role: iam.RoleCandidate}
	apps, err = svc.ListVisible(context.Background(), cand, page)
	require.NoError(t, err)
	assert.Empty(t, apps.Items, "candidates fall into the match-nothing scope")
}

func TestUpdateStatus_ManagementGate(t *testing.T) {
	repo := newFakeApplicationRepo(submitted("app-1", "job-1", "emp-1", "cand-1"))
	svc := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusShortlisted},
		iam.Principal{ID: "emp-2", Role: iam.RoleEmployer})
	assert.Error(t, err)

	app, err := svc.UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusShortlisted},
		iam.Principal{ID: "emp-1", Role: iam.RoleEmployer})
	require.NoError(t, err)
	assert.Equal(t, application.ApplicationStatusShortlisted, app.Status)
}

func TestWithdraw_OnlyApplicant(t *testing.T) {
	repo := newFakeApplicationRepo(submitted("app-1", "job-1", "emp-1", "cand-1"))
	svc := newService(repo)

	err := svc.WithdrawApplication(context.Background(), "app-1", iam.Principal{ID: "cand-2", Role: iam.RoleCandidate})
	assert.Error(t, err)

	// the posting's employer manages review but cannot withdraw on the
	// candidate's behalf
	err = svc.WithdrawApplication(context.Background(), "app-1", iam.Principal{ID: "emp-1", Role: iam.RoleEmployer})
	assert.Error(t, err)

	err = svc.WithdrawApplication(context.Background(), "app-1", iam.Principal{ID: "cand-1", Role: iam.RoleCandidate})
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, application.ApplicationStatusWithdrawn, got.Status)
}
