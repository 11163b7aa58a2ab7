package applicationsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matchbox-hr/matchbox/board/application"
	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// ApplicationService provides application submission and review. Review
// operations are guarded by the employer-assignment rule on the posting's
// owner; a candidate's own listing is plain ownership.
type ApplicationService struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
	candidateRepo   candidate.Repository
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	jobRepo job.Repository,
	candidateRepo candidate.Repository,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		candidateRepo:   candidateRepo,
	}
}

// SubmitApplication applies the principal's profile to a published
// posting. One application per candidate per posting.
func (s *ApplicationService) SubmitApplication(ctx context.Context, req application.SubmitApplicationRequest, principal iam.Principal) (*application.Application, error) {
	if principal.Role != iam.RoleCandidate {
		return nil, iam.ErrPermissionDenied()
	}

	jobEntity, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", req.JobID.String())
	}
	if !jobEntity.IsPublished() {
		return nil, application.ErrJobNotOpen().WithDetail("job_id", req.JobID.String())
	}

	profile, err := s.candidateRepo.GetByOwner(ctx, principal.ID)
	if err != nil {
		return nil, candidate.ErrProfileNotFound().WithDetail("owner_id", principal.ID.String())
	}

	exists, err := s.applicationRepo.ExistsForJobAndApplicant(ctx, req.JobID, principal.ID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check existing application", errx.TypeInternal)
	}
	if exists {
		return nil, application.ErrAlreadyApplied().WithDetail("job_id", req.JobID.String())
	}

	now := time.Now()
	app := &application.Application{
		ID:          kernel.NewApplicationID(uuid.NewString()),
		JobID:       jobEntity.ID,
		Employer:    jobEntity.Employer,
		CandidateID: profile.ID,
		Applicant:   principal.ID,
		CoverNote:   req.CoverNote,
		Status:      application.ApplicationStatusSubmitted,
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// WithdrawApplication lets the applicant pull their own application
func (s *ApplicationService) WithdrawApplication(ctx context.Context, id kernel.ApplicationID, principal iam.Principal) error {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	if !authz.OwnsOrAdmin(app.Applicant, principal) {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	if !app.IsOpen() {
		return application.ErrInvalidStatus().WithDetail("current_status", app.Status)
	}

	return s.applicationRepo.UpdateStatus(ctx, id, application.ApplicationStatusWithdrawn)
}

// UpdateStatus moves an application through review. Only a principal who
// can manage the posting may review its applications.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id kernel.ApplicationID, req application.UpdateStatusRequest, principal iam.Principal) (*application.Application, error) {
	if !req.Status.IsValid() || req.Status == application.ApplicationStatusWithdrawn {
		return nil, application.ErrInvalidStatus().WithDetail("status", req.Status)
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	if !authz.CanManage(app, principal) {
		return nil, iam.ErrPermissionDenied()
	}

	if err := s.applicationRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
	}
	app.Status = req.Status
	app.UpdatedAt = time.Now()
	return app, nil
}

// GetApplication retrieves one application. Visible to the applicant and
// to anyone who can manage the posting; everyone else sees absence.
func (s *ApplicationService) GetApplication(ctx context.Context, id kernel.ApplicationID, principal iam.Principal) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	if !authz.OwnsOrAdmin(app.Applicant, principal) && !authz.CanManage(app, principal) {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	return app, nil
}

// ListForJob retrieves the applications of one posting, gated by whether
// the principal can manage that posting
func (s *ApplicationService) ListForJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return nil, iam.ErrPermissionDenied()
	}

	apps, err := s.applicationRepo.ListByJob(ctx, jobID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications for job", errx.TypeInternal)
	}
	return apps, nil
}

// ListVisible retrieves applications across every posting the principal
// may manage, pushing the visibility scope into the query
func (s *ApplicationService) ListVisible(ctx context.Context, principal iam.Principal, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	apps, err := s.applicationRepo.ListVisible(ctx, authz.ScopeFor(principal), pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list visible applications", errx.TypeInternal)
	}
	return apps, nil
}

// ListOwn retrieves the principal's own applications
func (s *ApplicationService) ListOwn(ctx context.Context, principal iam.Principal, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	apps, err := s.applicationRepo.ListByApplicant(ctx, principal.ID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list own applications", errx.TypeInternal)
	}
	return apps, nil
}
