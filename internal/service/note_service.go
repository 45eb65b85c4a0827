package service

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"
)

// NoteService 笔记的增删改查，规则与脚本相同但允许更多块类型。
type NoteService struct {
	*base
}

// List returns the caller's notes, newest first, narrowed by the filter.
func (s *NoteService) List(ctx context.Context, userID entity.UserID, filter entity.DocumentFilter) ([]db.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, userID, filter)
}

// ListByProject returns the caller's notes of one project.
func (s *NoteService) ListByProject(ctx context.Context, userID entity.UserID, projectID entity.ProjectID) ([]db.Note, error) {
	return s.List(ctx, userID, entity.DocumentFilter{ProjectID: &projectID})
}

func (s *NoteService) Get(ctx context.Context, userID entity.UserID, id entity.NoteID) (*db.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	note, err := s.repo.GetNote(ctx, userID, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return note, nil
}

func (s *NoteService) Create(ctx context.Context, userID entity.UserID, req dto.DocumentCreateRequest) (*db.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, err := prepareContent(req.Content, entity.NoteBlockTypes)
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
	note := &db.Note{
		ID:        entity.NewNoteID(),
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, translateRepoError(err)
	}
	if len(note.Tags) > 0 {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemNotes), "create")
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, userID entity.UserID, id entity.NoteID, req dto.DocumentUpdateRequest) (*db.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	updates, err := documentUpdates(req, entity.NoteBlockTypes)
	if err != nil {
		return nil, err
	}
	if updates.Project != nil {
		if err := s.checkProjectRef(ctx, userID, updates.Project.ID); err != nil {
			return nil, err
		}
	}

	note, err := s.repo.UpdateNote(ctx, userID, id, updates, s.clock())
	if err != nil {
		return nil, translateRepoError(err)
	}
	if updates.Tags != nil {
		s.invalidateUsage(ctx, userID)
	}
	metrics.TrackContentOperation(string(entity.ItemNotes), "update")
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID entity.UserID, id entity.NoteID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.DeleteNote(ctx, userID, id); err != nil {
		return translateRepoError(err)
	}
	s.invalidateUsage(ctx, userID)
	metrics.TrackContentOperation(string(entity.ItemNotes), "delete")
	return nil
}
