package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"
	"strings"
)

// ProjectService 项目的增删改查。
type ProjectService struct {
	*base
}

func (s *ProjectService) List(ctx context.Context, userID entity.UserID) ([]db.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, userID entity.UserID, id entity.ProjectID) (*db.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	project, err := s.repo.GetProject(ctx, userID, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, userID entity.UserID, req dto.ProjectCreateRequest) (*db.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	project := &db.Project{
		ID:          entity.NewProjectID(),
		UserID:      userID,
		Title:       title,
		Description: optionalDescription(req.Description),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, translateRepoError(err)
	}
	if len(project.Tags) > 0 {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemProjects), "create")
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, userID entity.UserID, id entity.ProjectID, req dto.ProjectUpdateRequest) (*db.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := normalizeOptionalTitle(req.Title)
	if err != nil {
		return nil, err
	}
	tags, err := optionalTags(req.Tags)
	if err != nil {
		return nil, err
	}
	updates := entity.ProjectUpdates{
		Title:       title,
		Description: req.Description,
		Tags:        tags,
	}

	project, err := s.repo.UpdateProject(ctx, userID, id, updates, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	if updates.Tags != nil {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemProjects), "update")
	return project, nil
}

// Delete removes the project only. Its scripts, notes and inspirations keep
// the now dangling project id.
func (s *ProjectService) Delete(ctx context.Context, userID entity.UserID, id entity.ProjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.DeleteProject(ctx, userID, id); err != nil {
		return translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation(string(entity.ItemProjects), "delete")
	return nil
}

func optionalDescription(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
