package candidatesrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

// CandidateService provides profile self-service. Profiles follow plain
// ownership: the employer-assignment rule never applies here.
type CandidateService struct {
	candidateRepo candidate.Repository
	events        alert.EventQueue
}

// NewCandidateService creates a new instance of the candidate service
func NewCandidateService(candidateRepo candidate.Repository, events alert.EventQueue) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		events:        events,
	}
}

// CreateProfile creates the principal's profile. One profile per account;
// a second create is a conflict. A fresh profile is immediately visible
// to resume alerts.
func (s *CandidateService) CreateProfile(ctx context.Context, req candidate.CreateProfileRequest, principal iam.Principal) (*candidate.Profile, error) {
	if principal.Role != iam.RoleCandidate && principal.Role != iam.RoleSuperadmin {
		return nil, iam.ErrPermissionDenied()
	}

	if existing, err := s.candidateRepo.GetByOwner(ctx, principal.ID); err == nil && existing != nil {
		return nil, candidate.ErrProfileAlreadyExists().WithDetail("owner_id", principal.ID.String())
	}

	now := time.Now()
	profile := &candidate.Profile{
		ID:          kernel.NewCandidateID(uuid.NewString()),
		Owner:       principal.ID,
		Headline:    req.Headline,
		Summary:     req.Summary,
		Skills:      req.Skills,
		Specialisms: req.Specialisms,
		City:        req.City,
		Experience:  req.Experience,
		Education:   req.Education,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.candidateRepo.Create(ctx, profile); err != nil {
		return nil, errx.Wrap(err, "failed to create profile", errx.TypeInternal)
	}

	s.emitUpdated(ctx, profile.ID)
	return profile, nil
}

// UpdateProfile updates the profile and re-announces it to resume alerts
func (s *CandidateService) UpdateProfile(ctx context.Context, id kernel.CandidateID, req candidate.UpdateProfileRequest, principal iam.Principal) (*candidate.Profile, error) {
	profile, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, candidate.ErrProfileNotFound().WithDetail("candidate_id", id.String())
	}

	if !authz.OwnsOrAdmin(profile.Owner, principal) {
		return nil, iam.ErrPermissionDenied()
	}

	if req.Headline != nil {
		profile.Headline = *req.Headline
	}
	if req.Summary != nil {
		profile.Summary = *req.Summary
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Specialisms != nil {
		profile.Specialisms = *req.Specialisms
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Experience != nil {
		profile.Experience = *req.Experience
	}
	if req.Education != nil {
		profile.Education = *req.Education
	}
	profile.UpdatedAt = time.Now()

	if err := s.candidateRepo.Update(ctx, id, profile); err != nil {
		return nil, errx.Wrap(err, "failed to update profile", errx.TypeInternal)
	}

	s.emitUpdated(ctx, id)
	return profile, nil
}

// GetProfile retrieves a profile. Employer-like principals browse the
// pool; candidates see only their own.
func (s *CandidateService) GetProfile(ctx context.Context, id kernel.CandidateID, principal iam.Principal) (*candidate.Profile, error) {
	profile, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, candidate.ErrProfileNotFound().WithDetail("candidate_id", id.String())
	}

	if !principal.Role.IsEmployerLike() && !authz.OwnsOrAdmin(profile.Owner, principal) {
		return nil, candidate.ErrProfileNotFound().WithDetail("candidate_id", id.String())
	}
	return profile, nil
}

// GetOwnProfile retrieves the principal's own profile
func (s *CandidateService) GetOwnProfile(ctx context.Context, principal iam.Principal) (*candidate.Profile, error) {
	profile, err := s.candidateRepo.GetByOwner(ctx, principal.ID)
	if err != nil {
		return nil, candidate.ErrProfileNotFound().WithDetail("owner_id", principal.ID.String())
	}
	return profile, nil
}

// ListProfiles retrieves the candidate pool for employer-like principals
func (s *CandidateService) ListProfiles(ctx context.Context, principal iam.Principal, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Profile], error) {
	if !principal.Role.IsEmployerLike() {
		return nil, iam.ErrPermissionDenied()
	}

	profiles, err := s.candidateRepo.List(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.TypeInternal)
	}
	return profiles, nil
}

// DeleteProfile deletes a profile the principal owns
func (s *CandidateService) DeleteProfile(ctx context.Context, id kernel.CandidateID, principal iam.Principal) error {
	profile, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return candidate.ErrProfileNotFound().WithDetail("candidate_id", id.String())
	}

	if !authz.OwnsOrAdmin(profile.Owner, principal) {
		return iam.ErrPermissionDenied()
	}

	if err := s.candidateRepo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete profile", errx.TypeInternal)
	}
	return nil
}

// emitUpdated enqueues the post-commit dispatch event. Enqueue failure is
// logged and swallowed: the profile write already succeeded.
func (s *CandidateService) emitUpdated(ctx context.Context, id kernel.CandidateID) {
	event := alert.Event{
		Kind:       alert.SubjectProfile,
		SubjectID:  id.String(),
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logx.Errorf("Failed to enqueue update event for profile %s: %v", id, err)
	}
}
