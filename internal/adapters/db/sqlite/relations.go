package sqlite

import (
	"context"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (r *Repository) toRelation(m RelationModel) domain.Relation {
	return domain.Relation{
		ID:               m.ID,
		CampaignID:       m.CampaignID,
		SourceEntityType: domain.EntityType(m.SourceEntityType),
		SourceEntityID:   m.SourceEntityID,
		TargetEntityType: domain.EntityType(m.TargetEntityType),
		TargetEntityID:   m.TargetEntityID,
		RelationType:     m.RelationType,
		Description:      m.Description,
		Bidirectional:    m.Bidirectional,
		Metadata:         r.decodeObject(m.Metadata, "relations", "metadata", m.ID),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fillRelation(m *RelationModel, value domain.Relation) {
	m.CampaignID = value.CampaignID
	m.SourceEntityType = string(value.SourceEntityType)
	m.SourceEntityID = value.SourceEntityID
	m.TargetEntityType = string(value.TargetEntityType)
	m.TargetEntityID = value.TargetEntityID
	m.RelationType = value.RelationType
	m.Description = value.Description
	m.Bidirectional = value.Bidirectional
	m.Metadata = encodeObject(value.Metadata)
}

func (r *Repository) CreateRelation(ctx context.Context, value domain.Relation) (domain.Relation, error) {
	var m RelationModel
	fillRelation(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Relation{}, translateErr("relation", err)
	}
	return r.toRelation(m), nil
}

func (r *Repository) UpdateRelation(ctx context.Context, value domain.Relation) (domain.Relation, error) {
	var m RelationModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Relation{}, translateErr("relation", err)
	}
	fillRelation(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.Relation{}, translateErr("relation", err)
	}
	return r.toRelation(m), nil
}

func (r *Repository) GetRelation(ctx context.Context, id uint) (domain.Relation, error) {
	var m RelationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Relation{}, translateErr("relation", err)
	}
	return r.toRelation(m), nil
}

func (r *Repository) ListRelations(ctx context.Context, query domain.RelationQuery) ([]domain.Relation, error) {
	q := r.db.WithContext(ctx).Model(&RelationModel{})
	if query.CampaignID != nil {
		q = q.Where("campaign_id = ?", *query.CampaignID)
	}
	if query.Entity != nil {
		t, id := string(query.Entity.Type), query.Entity.ID
		q = q.Where("(source_entity_type = ? AND source_entity_id = ?) OR (target_entity_type = ? AND target_entity_id = ?)", t, id, t, id)
	}
	rows := make([]RelationModel, 0)
	if err := q.Order("id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list relations", err)
	}
	result := make([]domain.Relation, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toRelation(m))
	}
	return result, nil
}

func toRelationEvent(m RelationshipEventModel) domain.RelationshipEvent {
	return domain.RelationshipEvent{
		ID:            m.ID,
		RelationID:    m.RelationID,
		Date:          m.Date,
		Description:   m.Description,
		StrengthDelta: m.StrengthDelta,
		TrustDelta:    m.TrustDelta,
		FearDelta:     m.FearDelta,
		RespectDelta:  m.RespectDelta,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *Repository) CreateRelationEvent(ctx context.Context, value domain.RelationshipEvent) (domain.RelationshipEvent, error) {
	m := RelationshipEventModel{
		RelationID:    value.RelationID,
		Date:          value.Date,
		Description:   value.Description,
		StrengthDelta: value.StrengthDelta,
		TrustDelta:    value.TrustDelta,
		FearDelta:     value.FearDelta,
		RespectDelta:  value.RespectDelta,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.RelationshipEvent{}, translateErr("create relationship event", err)
	}
	return toRelationEvent(m), nil
}

func (r *Repository) ListRelationEvents(ctx context.Context, relationID uint) ([]domain.RelationshipEvent, error) {
	rows := make([]RelationshipEventModel, 0)
	if err := r.db.WithContext(ctx).Where("relation_id = ?", relationID).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list relationship events", err)
	}
	result := make([]domain.RelationshipEvent, 0, len(rows))
	for _, m := range rows {
		result = append(result, toRelationEvent(m))
	}
	return result, nil
}

func (r *Repository) DeleteRelationEvent(ctx context.Context, relationID, eventID uint) error {
	res := r.db.WithContext(ctx).Where("relation_id = ? AND id = ?", relationID, eventID).Delete(&RelationshipEventModel{})
	if res.Error != nil {
		return translateErr("delete relationship event", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("relationship event", eventID)
	}
	return nil
}

func (r *Repository) DeleteRelation(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&RelationModel{}, id)
	if res.Error != nil {
		return translateErr("delete relation", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("relation", id)
	}
	return nil
}
