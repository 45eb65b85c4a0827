package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"
)

// ScriptService 脚本的增删改查。未关联项目的脚本即收件箱。
type ScriptService struct {
	*base
}

// List returns the caller's scripts, newest first, narrowed by the filter.
func (s *ScriptService) List(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Script, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListScripts(ctx, userID, filter)
}

// ListByProject returns the caller's scripts of one project.
func (s *ScriptService) ListByProject(ctx context.Context, userID entity.UserID, projectID entity.ProjectID) ([]db.Script, error) {
	return s.List(ctx, userID, entity.DocumentFilter{ProjectID: &projectID})
}

// ListInbox returns the caller's scripts without a project.
func (s *ScriptService) ListInbox(ctx context.Context, userID entity.UserID) ([]db.Script, error) {
	return s.List(ctx, userID, entity.DocumentFilter{InboxOnly: true})
}

func (s *ScriptService) Get(ctx context.Context, userID entity.UserID, id entity.ScriptID) (*db.Script, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	script, err := s.repo.GetScript(ctx, userID, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return script, nil
}

func (s *ScriptService) Create(ctx context.Context, userID entity.UserID, req dto.DocumentCreateRequest) (*db.Script, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, err := prepareContent(req.Content, entity.ScriptBlockTypes)
	if err != nil {
		return nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}
	projectID := entity.ProjectRef(req.ProjectID)
	if err := s.checkProjectRef(ctx, userID, projectID); err != nil {
		return nil, err
	}

	now := s.clock()
	script := &db.Script{
		ID:        entity.NewScriptID(),
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateScript(ctx, script); err != nil {
		return nil, translateRepoError(err)
	}
	if len(script.Tags) > 0 {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemScripts), "create")
	return script, nil
}

func (s *ScriptService) Update(ctx context.Context, userID entity.UserID, id entity.ScriptID, req dto.DocumentUpdateRequest) (*db.Script, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	updates, err := documentUpdates(req, entity.ScriptBlockTypes)
	if err != nil {
		return nil, err
	}
	if updates.Project != nil {
		if err := s.checkProjectRef(ctx, userID, updates.Project.ID); err != nil {
			return nil, err
		}
	}

	script, err := s.repo.UpdateScript(ctx, userID, id, updates, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	if updates.Tags != nil {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemScripts), "update")
	return script, nil
}

func (s *ScriptService) Delete(ctx context.Context, userID entity.UserID, id entity.ScriptID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.DeleteScript(ctx, userID, id); err != nil {
		return translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation(string(entity.ItemScripts), "delete")
	return nil
}
