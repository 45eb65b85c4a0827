package converter

import (
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
)

// TagToDTO converts a db.Tag to dto.Tag.
func TagToDTO(t *db.Tag) dto.Tag {
	if t == nil {
		return dto.Tag{}
	}
	return dto.Tag{
		ID:         t.ID.String(),
		Name:       t.Name,
		Color:      t.Color,
		UsageCount: t.UsageCount,
		CreatedAt:  t.CreatedAt,
	}
}

// TagsToDTOs converts a slice of db.Tag to dto.Tag.
func TagsToDTOs(tags []db.Tag) []dto.Tag {
	out := make([]dto.Tag, len(tags))
	for i := range tags {
		out[i] = TagToDTO(&tags[i])
	}
	return out
}

// TagsWithUsage pairs every tag with its scanned count. Missing names count 0.
func TagsWithUsage(tags []db.Tag, counts map[string]int64) []dto.TagWithUsage {
	out := make([]dto.TagWithUsage, len(tags))
	for i := range tags {
		out[i] = dto.TagWithUsage{
			Tag:              TagToDTO(&tags[i]),
			ActualUsageCount: counts[tags[i].Name],
		}
	}
	return out
}
