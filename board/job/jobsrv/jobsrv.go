package jobsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

// JobService provides business operations for postings. Every permission
// decision goes through authz; nothing here re-derives ownership inline.
type JobService struct {
	jobRepo job.Repository
	events  alert.EventQueue
}

// NewJobService creates a new instance of the job service
func NewJobService(jobRepo job.Repository, events alert.EventQueue) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		events:  events,
	}
}

// CreateJob creates a new posting, optionally directly as published.
// Employers post for themselves; hr-admins may post on behalf of any
// employer in their assignment set.
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest, principal iam.Principal) (*job.Job, error) {
	if !principal.Role.IsEmployerLike() {
		return nil, iam.ErrPermissionDenied()
	}

	employer := req.Employer
	if principal.Role == iam.RoleEmployer {
		employer = kernel.EmployerID(principal.ID)
	}
	if employer.IsEmpty() {
		return nil, job.ErrInvalidJob().WithDetail("field", "employer_id")
	}
	if !authz.ScopeFor(principal).MatchesOwner(employer) {
		return nil, iam.ErrPermissionDenied().WithDetail("employer_id", employer.String())
	}

	now := time.Now()
	newJob := &job.Job{
		ID:              kernel.NewJobID(uuid.NewString()),
		Employer:        employer,
		PostedBy:        principal.ID,
		Title:           req.Title,
		Description:     req.Description,
		FunctionalAreas: req.FunctionalAreas,
		Industry:        req.Industry,
		Role:            req.Role,
		Skills:          req.Skills,
		Specialisms:     req.Specialisms,
		City:            req.City,
		OfferedSalary:   req.OfferedSalary,
		JobType:         req.JobType,
		Experience:      req.Experience,
		Status:          job.JobStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.PublishImmediately {
		newJob.Status = job.JobStatusPublished
		newJob.PublishedAt = &now
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	// creating directly as published is a publish transition
	if newJob.IsPublished() {
		s.emitPublished(ctx, newJob.ID)
	}

	return newJob, nil
}

// PublishJob transitions a draft posting to published and schedules alert
// dispatch. Publishing an already-published posting is a conflict and
// emits nothing; neither does reopening a closed one (see ReopenJob).
func (s *JobService) PublishJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal) error {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return iam.ErrPermissionDenied()
	}

	if jobEntity.IsPublished() {
		return job.ErrJobAlreadyPublished().WithDetail("job_id", jobID.String())
	}
	if !jobEntity.IsDraft() {
		return job.ErrCannotPublish().WithDetail("current_status", jobEntity.Status)
	}

	// the repo guards the DRAFT precondition again, so two racing
	// publishes cannot both succeed
	if err := s.jobRepo.Publish(ctx, jobID); err != nil {
		return err
	}

	s.emitPublished(ctx, jobID)
	return nil
}

// CloseJob stops a published posting from accepting applications
func (s *JobService) CloseJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal) error {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return iam.ErrPermissionDenied()
	}

	if err := jobEntity.Close(); err != nil {
		return err
	}
	return s.jobRepo.Close(ctx, jobID)
}

// ReopenJob brings a closed posting back to published. This restores
// visibility without re-firing alert dispatch: subscribers were already
// notified when the posting first went live.
func (s *JobService) ReopenJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal) error {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return iam.ErrPermissionDenied()
	}

	if err := jobEntity.Reopen(); err != nil {
		return err
	}
	return s.jobRepo.Reopen(ctx, jobID)
}

// UpdateJob updates posting details. Re-saving a published posting is not
// a publish transition and triggers no alert dispatch.
func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, req job.UpdateJobRequest, principal iam.Principal) (*job.Job, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return nil, iam.ErrPermissionDenied()
	}

	updated := false

	if req.Title != nil && *req.Title != jobEntity.Title {
		jobEntity.Title = *req.Title
		updated = true
	}
	if req.Description != nil && *req.Description != jobEntity.Description {
		jobEntity.Description = *req.Description
		updated = true
	}
	if req.FunctionalAreas != nil {
		jobEntity.FunctionalAreas = *req.FunctionalAreas
		updated = true
	}
	if req.Industry != nil && *req.Industry != jobEntity.Industry {
		jobEntity.Industry = *req.Industry
		updated = true
	}
	if req.Role != nil && *req.Role != jobEntity.Role {
		jobEntity.Role = *req.Role
		updated = true
	}
	if req.Skills != nil {
		jobEntity.Skills = *req.Skills
		updated = true
	}
	if req.Specialisms != nil {
		jobEntity.Specialisms = *req.Specialisms
		updated = true
	}
	if req.City != nil && *req.City != jobEntity.City {
		jobEntity.City = *req.City
		updated = true
	}
	if req.OfferedSalary != nil && *req.OfferedSalary != jobEntity.OfferedSalary {
		jobEntity.OfferedSalary = *req.OfferedSalary
		updated = true
	}
	if req.JobType != nil && *req.JobType != jobEntity.JobType {
		jobEntity.JobType = *req.JobType
		updated = true
	}
	if req.Experience != nil && *req.Experience != jobEntity.Experience {
		jobEntity.Experience = *req.Experience
		updated = true
	}

	if updated {
		jobEntity.UpdatedAt = time.Now()
		if err := s.jobRepo.Update(ctx, jobID, jobEntity); err != nil {
			return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
		}
	}

	return jobEntity, nil
}

// GetJob retrieves a posting. Published postings are public; anything
// else is visible only to a principal who can manage it, and the error
// does not reveal which case applied.
func (s *JobService) GetJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal) (*job.JobResponse, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !jobEntity.IsPublished() && !authz.CanManage(jobEntity, principal) {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	resp := toJobResponse(jobEntity)
	return &resp, nil
}

// ListPublishedJobs retrieves the public board
func (s *JobService) ListPublishedJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.ListPublished(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list published jobs", errx.TypeInternal)
	}
	return paginate(jobs), nil
}

// ListManagedJobs retrieves the postings the principal may manage,
// pushing the visibility scope into the query
func (s *JobService) ListManagedJobs(ctx context.Context, principal iam.Principal, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.ListVisible(ctx, authz.ScopeFor(principal), pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list managed jobs", errx.TypeInternal)
	}
	return paginate(jobs), nil
}

// DeleteJob deletes a posting
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID, principal iam.Principal) error {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	if !authz.CanManage(jobEntity, principal) {
		return iam.ErrPermissionDenied()
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
	}
	return nil
}

// emitPublished enqueues the post-commit dispatch event. Enqueue failure
// is logged and swallowed: the posting write already succeeded and must
// not be failed by downstream alerting.
func (s *JobService) emitPublished(ctx context.Context, jobID kernel.JobID) {
	event := alert.Event{
		Kind:       alert.SubjectJob,
		SubjectID:  jobID.String(),
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logx.Errorf("Failed to enqueue publish event for job %s: %v", jobID, err)
	}
}

// ============================================================================
// Helper Methods
// ============================================================================

func paginate(jobs *kernel.Paginated[job.Job]) *job.PaginatedJobsResponse {
	responses := make([]job.JobResponse, 0, len(jobs.Items))
	for _, j := range jobs.Items {
		responses = append(responses, toJobResponse(&j))
	}
	return &kernel.Paginated[job.JobResponse]{
		Items: responses,
		Page:  jobs.Page,
		Empty: jobs.Empty,
	}
}

func toJobResponse(j *job.Job) job.JobResponse {
	return job.JobResponse{
		ID:              j.ID,
		Employer:        j.Employer,
		PostedBy:        j.PostedBy,
		Title:           j.Title,
		Description:     j.Description,
		FunctionalAreas: j.FunctionalAreas,
		Industry:        j.Industry,
		Role:            j.Role,
		Skills:          j.Skills,
		Specialisms:     j.Specialisms,
		City:            j.City,
		OfferedSalary:   j.OfferedSalary,
		JobType:         j.JobType,
		Experience:      j.Experience,
		Status:          j.Status,
		PublishedAt:     j.PublishedAt,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}
