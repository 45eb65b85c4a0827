package service

import (
	"posta/internal/entity"
	"posta/internal/entity/dto"
)

// prepareContent validates a document body against the allowed block types.
// An absent or empty body becomes a single empty text block.
func prepareContent(blocks []entity.Block, allowed []entity.BlockType) (entity.Blocks, error) {
	if len(blocks) == 0 {
		return entity.DefaultBlocks(), nil
	}
	content := make(entity.Blocks, len(blocks))
	copy(content, blocks)
	if err := content.Validate(allowed); err != nil {
		return nil, invalidArgument("%v", err)
	}
	return content, nil
}

// documentUpdates converts an update request for a script or a note.
func documentUpdates(req dto.DocumentUpdateRequest, allowed []entity.BlockType) (entity.DocumentUpdates, error) {
	title, err := normalizeOptionalTitle(req.Title)
	if err != nil {
		return entity.DocumentUpdates{}, err
	}
	tags, err := optionalTags(req.Tags)
	if err != nil {
		return entity.DocumentUpdates{}, err
	}
	updates := entity.DocumentUpdates{
		Title:   title,
		Tags:    tags,
		Project: projectAssignment(req.ProjectID),
	}
	if req.Content != nil {
		content := make(entity.Blocks, len(*req.Content))
		copy(content, *req.Content)
		if err := content.Validate(allowed); err != nil {
			return entity.DocumentUpdates{}, invalidArgument("%v", err)
		}
		updates.Content = &content
	}
	return updates, nil
}
