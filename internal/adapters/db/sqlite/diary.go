package sqlite

import (
	"context"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (r *Repository) toDiaryEntry(m DiaryEntryModel) domain.DiaryEntry {
	linked := []domain.LinkedEntityRef{}
	r.decodeInto(m.LinkedEntities, &linked, "diary_entries", "linked_entities", m.ID)
	return domain.DiaryEntry{
		ID:             m.ID,
		OwnerType:      domain.EntityType(m.OwnerType),
		OwnerID:        m.OwnerID,
		Description:    m.Description,
		Date:           m.Date,
		LinkedEntities: linked,
		IsImportant:    m.IsImportant,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fillDiaryEntry(m *DiaryEntryModel, value domain.DiaryEntry) {
	m.OwnerType = string(value.OwnerType)
	m.OwnerID = value.OwnerID
	m.Description = value.Description
	m.Date = value.Date
	m.LinkedEntities = encodeList(value.LinkedEntities)
	m.IsImportant = value.IsImportant
}

func (r *Repository) CreateDiaryEntry(ctx context.Context, value domain.DiaryEntry) (domain.DiaryEntry, error) {
	var m DiaryEntryModel
	fillDiaryEntry(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.DiaryEntry{}, translateErr("create diary entry", err)
	}
	return r.toDiaryEntry(m), nil
}

func (r *Repository) UpdateDiaryEntry(ctx context.Context, value domain.DiaryEntry) (domain.DiaryEntry, error) {
	var m DiaryEntryModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.DiaryEntry{}, translateErr("diary entry", err)
	}
	fillDiaryEntry(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.DiaryEntry{}, translateErr("update diary entry", err)
	}
	return r.toDiaryEntry(m), nil
}

func (r *Repository) GetDiaryEntry(ctx context.Context, id uint) (domain.DiaryEntry, error) {
	var m DiaryEntryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.DiaryEntry{}, translateErr("diary entry", err)
	}
	return r.toDiaryEntry(m), nil
}

func (r *Repository) ListDiaryEntries(ctx context.Context, owner domain.EntityRef) ([]domain.DiaryEntry, error) {
	rows := make([]DiaryEntryModel, 0)
	if err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID).
		Order("date DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, translateErr("list diary entries", err)
	}
	result := make([]domain.DiaryEntry, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toDiaryEntry(m))
	}
	return result, nil
}

func (r *Repository) DeleteDiaryEntry(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DiaryEntryModel{}, id)
	if res.Error != nil {
		return translateErr("delete diary entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("diary entry", id)
	}
	return nil
}
