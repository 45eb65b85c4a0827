package sql

import (
	"context"
	"posta/internal/entity"
	"posta/internal/entity/db"
)

// CountContent returns the dashboard counters of one user.
func (r *GormRepository) CountContent(ctx context.Context, userID entity.UserID) (*db.ContentCounts, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx)

	var counts db.ContentCounts
	steps := []struct {
		model interface{}
		inbox bool
		dest  *int64
	}{
		{model: &db.Project{}, dest: &counts.Projects},
		{model: &db.Script{}, dest: &counts.Scripts},
		{model: &db.Script{}, inbox: true, dest: &counts.InboxScripts},
		{model: &db.Note{}, dest: &counts.Notes},
		{model: &db.Inspiration{}, dest: &counts.Inspirations},
		{model: &db.Tag{}, dest: &counts.Tags},
	}
	for _, step := range steps {
		query := ownedBy(tx.Model(step.model), userID)
		if step.inbox {
			query = query.Where("project_id IS NULL")
		}
		if err := query.Count(step.dest).Error; err != nil {
			return nil, err
		}
	}
	return &counts, nil
}
