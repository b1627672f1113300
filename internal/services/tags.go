package services

import (
	"context"

	"playpartner-backend-go/internal/models"
)

const tagColumns = `id, tag_name, tag_group, created_at`

type TagInput struct {
	TagName  string `json:"tagName" yaml:"tagName"`
	TagGroup string `json:"tagGroup" yaml:"tagGroup"`
}

// ListTags returns the catalog grouped by tag group, then by name.
func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	items := []models.Tag{}
	if err := s.DB.SelectContext(ctx, &items, `SELECT `+tagColumns+` FROM tags ORDER BY tag_group, tag_name`); err != nil {
		return nil, WrapError(err, "list tags")
	}
	return items, nil
}

func (s *Store) CreateTag(ctx context.Context, in TagInput) (models.Tag, error) {
	name, err := NormalizeRequired(in.TagName, "Tag name is required")
	if err != nil {
		return models.Tag{}, err
	}
	if err := checkLength("Tag name", &name, 100); err != nil {
		return models.Tag{}, err
	}
	if !models.IsTagGroup(in.TagGroup) {
		return models.Tag{}, ErrBadRequest("Invalid tag group: " + in.TagGroup)
	}
	var row models.Tag
	err = s.DB.GetContext(ctx, &row, `
INSERT INTO tags (tag_name, tag_group, created_at)
VALUES ($1,$2,$3)
RETURNING `+tagColumns, name, in.TagGroup, s.now())
	if err != nil {
		return models.Tag{}, translatePgError(err, "create tag", "Tag already exists")
	}
	return row, nil
}

// UpsertTag is used by seeding; an existing tag keeps its id and takes the
// new group.
func (s *Store) UpsertTag(ctx context.Context, in TagInput) (models.Tag, error) {
	name, err := NormalizeRequired(in.TagName, "Tag name is required")
	if err != nil {
		return models.Tag{}, err
	}
	if !models.IsTagGroup(in.TagGroup) {
		return models.Tag{}, ErrBadRequest("Invalid tag group: " + in.TagGroup)
	}
	var row models.Tag
	err = s.DB.GetContext(ctx, &row, `
INSERT INTO tags (tag_name, tag_group, created_at)
VALUES ($1,$2,$3)
ON CONFLICT (tag_name) DO UPDATE SET tag_group = EXCLUDED.tag_group
RETURNING `+tagColumns, name, in.TagGroup, s.now())
	if err != nil {
		return models.Tag{}, WrapError(err, "upsert tag")
	}
	return row, nil
}

// DeleteTag removes a catalog entry. Partner tag arrays are left untouched;
// a name no longer in the catalog simply stops counting as a risk tag.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete tag")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound("Tag not found")
	}
	return nil
}
