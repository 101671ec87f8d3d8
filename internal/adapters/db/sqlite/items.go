package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (r *Repository) toMagicItem(m MagicItemModel) domain.MagicItem {
	return domain.MagicItem{
		ID:                 m.ID,
		Name:               m.Name,
		Rarity:             m.Rarity,
		ItemType:           m.ItemType,
		Description:        m.Description,
		Properties:         r.decodeObject(m.Properties, "magic_items", "properties", m.ID),
		RequiresAttunement: m.RequiresAttunement,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fillMagicItem(m *MagicItemModel, value domain.MagicItem) {
	m.Name = value.Name
	m.Rarity = value.Rarity
	m.ItemType = value.ItemType
	m.Description = value.Description
	m.Properties = encodeObject(value.Properties)
	m.RequiresAttunement = value.RequiresAttunement
}

func (r *Repository) CreateMagicItem(ctx context.Context, value domain.MagicItem) (domain.MagicItem, error) {
	var m MagicItemModel
	fillMagicItem(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.MagicItem{}, translateErr("create magic item", err)
	}
	return r.toMagicItem(m), nil
}

func (r *Repository) UpdateMagicItem(ctx context.Context, value domain.MagicItem) (domain.MagicItem, error) {
	var m MagicItemModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.MagicItem{}, translateErr("magic item", err)
	}
	fillMagicItem(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.MagicItem{}, translateErr("update magic item", err)
	}
	return r.toMagicItem(m), nil
}

func (r *Repository) GetMagicItem(ctx context.Context, id uint) (domain.MagicItem, error) {
	var m MagicItemModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.MagicItem{}, translateErr("magic item", err)
	}
	return r.toMagicItem(m), nil
}

func (r *Repository) ListMagicItems(ctx context.Context, query domain.ListQuery) ([]domain.MagicItem, error) {
	q := r.db.WithContext(ctx).Model(&MagicItemModel{})
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("name LIKE ? OR item_type LIKE ?", like, like)
	}
	q, err := applyFilter(q, magicItemFilter, query.Filter)
	if err != nil {
		return nil, err
	}

	rows := make([]MagicItemModel, 0)
	if err := q.Order("name ASC, id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list magic items", err)
	}
	result := make([]domain.MagicItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toMagicItem(m))
	}
	return result, nil
}

func (r *Repository) ListMagicItemsByIDs(ctx context.Context, ids []uint) ([]domain.MagicItem, error) {
	if len(ids) == 0 {
		return []domain.MagicItem{}, nil
	}
	rows := make([]MagicItemModel, 0, len(ids))
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list magic items", err)
	}
	result := make([]domain.MagicItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toMagicItem(m))
	}
	return result, nil
}

func (r *Repository) toAssignment(m MagicItemAssignmentModel) domain.MagicItemAssignment {
	return domain.MagicItemAssignment{
		ID:          m.ID,
		MagicItemID: m.MagicItemID,
		EntityType:  domain.EntityType(m.EntityType),
		EntityID:    m.EntityID,
		CampaignID:  m.CampaignID,
		Source:      m.Source,
		Notes:       m.Notes,
		Metadata:    r.decodeObject(m.Metadata, "magic_item_assignments", "metadata", m.ID),
		AssignedAt:  m.AssignedAt,
	}
}

func (r *Repository) CreateAssignment(ctx context.Context, value domain.MagicItemAssignment) (domain.MagicItemAssignment, error) {
	m := MagicItemAssignmentModel{
		MagicItemID: value.MagicItemID,
		EntityType:  string(value.EntityType),
		EntityID:    value.EntityID,
		CampaignID:  value.CampaignID,
		Source:      value.Source,
		Notes:       value.Notes,
		Metadata:    encodeObject(value.Metadata),
		AssignedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.MagicItemAssignment{}, translateErr("magic item assignment", err)
	}
	return r.toAssignment(m), nil
}

func (r *Repository) GetAssignment(ctx context.Context, id uint) (domain.MagicItemAssignment, error) {
	var m MagicItemAssignmentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.MagicItemAssignment{}, translateErr("magic item assignment", err)
	}
	return r.toAssignment(m), nil
}

func (r *Repository) DeleteAssignment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&MagicItemAssignmentModel{}, id)
	if res.Error != nil {
		return translateErr("delete magic item assignment", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("magic item assignment", id)
	}
	return nil
}

func (r *Repository) ListAssignmentsForItems(ctx context.Context, itemIDs []uint) ([]domain.MagicItemAssignment, error) {
	if len(itemIDs) == 0 {
		return []domain.MagicItemAssignment{}, nil
	}
	rows := make([]MagicItemAssignmentModel, 0)
	if err := r.db.WithContext(ctx).Where("magic_item_id IN ?", itemIDs).Order("assigned_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list magic item assignments", err)
	}
	result := make([]domain.MagicItemAssignment, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toAssignment(m))
	}
	return result, nil
}

func (r *Repository) ListAssignmentsForEntities(ctx context.Context, entityType domain.EntityType, entityIDs []uint) ([]domain.MagicItemAssignment, error) {
	if len(entityIDs) == 0 {
		return []domain.MagicItemAssignment{}, nil
	}
	rows := make([]MagicItemAssignmentModel, 0)
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id IN ?", string(entityType), entityIDs).
		Order("assigned_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateErr("list magic item assignments", err)
	}
	result := make([]domain.MagicItemAssignment, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toAssignment(m))
	}
	return result, nil
}
