package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"golang.org/x/sync/errgroup"
)

var relationTypes = []string{
	"ally", "enemy", "rival", "friend", "family", "romantic",
	"mentor", "student", "employer", "employee", "neutral", "other",
}

type RelationInput struct {
	CampaignID       uint            `json:"campaignId"`
	SourceEntityType string          `json:"sourceEntityType"`
	SourceEntityID   uint            `json:"sourceEntityId"`
	TargetEntityType string          `json:"targetEntityType"`
	TargetEntityID   uint            `json:"targetEntityId"`
	RelationType     string          `json:"relationType"`
	Description      string          `json:"description"`
	Bidirectional    bool            `json:"bidirectional"`
	Metadata         json.RawMessage `json:"metadata"`
}

func (s *Service) ListRelations(ctx context.Context, query domain.RelationQuery) ([]domain.Relation, error) {
	query.Limit = clampLimit(query.Limit, 500, 5000)
	return s.repo.ListRelations(ctx, query)
}

// checkRelation validates a relation and both of its endpoints. Endpoints
// scoped to a campaign must be scoped to the relation's campaign.
func (s *Service) checkRelation(ctx context.Context, in RelationInput) (domain.Relation, error) {
	v := &domain.ValidationError{}
	source := domain.EntityRef{Type: parseEntityType(v, "sourceEntityType", in.SourceEntityType), ID: in.SourceEntityID}
	target := domain.EntityRef{Type: parseEntityType(v, "targetEntityType", in.TargetEntityType), ID: in.TargetEntityID}
	relationType := strings.ToLower(strings.TrimSpace(in.RelationType))
	checkOneOf(v, "relationType", relationType, relationTypes...)
	if source.ID == 0 {
		v.Add("sourceEntityId", "is required")
	}
	if target.ID == 0 {
		v.Add("targetEntityId", "is required")
	}
	if source == target && source.ID != 0 {
		v.Add("targetEntityId", "an entity cannot relate to itself")
	}
	checkObject(v, "metadata", in.Metadata)
	if err := v.Err(); err != nil {
		return domain.Relation{}, err
	}

	if err := s.requireCampaign(ctx, in.CampaignID); err != nil {
		return domain.Relation{}, err
	}
	endpoints := []struct {
		field string
		ref   domain.EntityRef
	}{{"sourceEntityId", source}, {"targetEntityId", target}}
	for _, end := range endpoints {
		summary, err := s.requireEntity(ctx, end.ref)
		if err != nil {
			return domain.Relation{}, err
		}
		if summary.CampaignID != nil && *summary.CampaignID != in.CampaignID {
			return domain.Relation{}, domain.Invalid(end.field, "%s belongs to another campaign", end.ref)
		}
	}

	return domain.Relation{
		CampaignID:       in.CampaignID,
		SourceEntityType: source.Type,
		SourceEntityID:   source.ID,
		TargetEntityType: target.Type,
		TargetEntityID:   target.ID,
		RelationType:     relationType,
		Description:      in.Description,
		Bidirectional:    in.Bidirectional,
		Metadata:         in.Metadata,
	}, nil
}

func (s *Service) CreateRelation(ctx context.Context, in RelationInput) (domain.Relation, error) {
	relation, err := s.checkRelation(ctx, in)
	if err != nil {
		return domain.Relation{}, err
	}
	return s.repo.CreateRelation(ctx, relation)
}

func (s *Service) UpdateRelation(ctx context.Context, id uint, in RelationInput) (domain.Relation, error) {
	if _, err := s.repo.GetRelation(ctx, id); err != nil {
		return domain.Relation{}, err
	}
	relation, err := s.checkRelation(ctx, in)
	if err != nil {
		return domain.Relation{}, err
	}
	relation.ID = id
	return s.repo.UpdateRelation(ctx, relation)
}

func (s *Service) DeleteRelation(ctx context.Context, id uint) error {
	return s.repo.DeleteRelation(ctx, id)
}

// GetRelation returns the relation with resolved endpoints, its events and
// the summed deltas.
func (s *Service) GetRelation(ctx context.Context, id uint) (domain.RelationDetail, error) {
	relation, err := s.repo.GetRelation(ctx, id)
	if err != nil {
		return domain.RelationDetail{}, err
	}
	events, err := s.repo.ListRelationEvents(ctx, id)
	if err != nil {
		return domain.RelationDetail{}, err
	}

	source := domain.EntityRef{Type: relation.SourceEntityType, ID: relation.SourceEntityID}
	target := domain.EntityRef{Type: relation.TargetEntityType, ID: relation.TargetEntityID}
	resolved, err := s.repo.ResolveEntities(ctx, []domain.EntityRef{source, target})
	if err != nil {
		return domain.RelationDetail{}, err
	}

	detail := domain.RelationDetail{
		Relation: relation,
		Source:   summaryOrRef(resolved, source),
		Target:   summaryOrRef(resolved, target),
		Events:   events,
		Totals:   sumEvents(events),
	}
	return detail, nil
}

func summaryOrRef(resolved map[domain.EntityRef]domain.EntitySummary, ref domain.EntityRef) domain.EntitySummary {
	if summary, ok := resolved[ref]; ok {
		return summary
	}
	return domain.EntitySummary{Type: ref.Type, ID: ref.ID}
}

// sumEvents adds the deltas as they are. Totals are not clamped.
func sumEvents(events []domain.RelationshipEvent) domain.RelationTotals {
	var totals domain.RelationTotals
	for _, e := range events {
		totals.Strength += e.StrengthDelta
		totals.Trust += e.TrustDelta
		totals.Fear += e.FearDelta
		totals.Respect += e.RespectDelta
	}
	return totals
}

func (s *Service) ListRelationEvents(ctx context.Context, relationID uint) ([]domain.RelationshipEvent, error) {
	if _, err := s.repo.GetRelation(ctx, relationID); err != nil {
		return nil, err
	}
	return s.repo.ListRelationEvents(ctx, relationID)
}

func (s *Service) AddRelationEvent(ctx context.Context, relationID uint, value domain.RelationshipEvent) (domain.RelationshipEvent, error) {
	if _, err := s.repo.GetRelation(ctx, relationID); err != nil {
		return domain.RelationshipEvent{}, err
	}
	value.Date = strings.TrimSpace(value.Date)
	v := &domain.ValidationError{}
	checkText(v, "date", value.Date)
	if err := v.Err(); err != nil {
		return domain.RelationshipEvent{}, err
	}
	value.RelationID = relationID
	return s.repo.CreateRelationEvent(ctx, value)
}

func (s *Service) DeleteRelationEvent(ctx context.Context, relationID, eventID uint) error {
	return s.repo.DeleteRelationEvent(ctx, relationID, eventID)
}

// RelationshipOverview loads the campaign's relations and its NPC and PC
// rosters concurrently.
func (s *Service) RelationshipOverview(ctx context.Context, campaignID uint) (domain.RelationshipOverview, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return domain.RelationshipOverview{}, err
	}

	overview := domain.RelationshipOverview{CampaignID: campaignID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		relations, err := s.repo.ListRelations(gctx, domain.RelationQuery{CampaignID: &campaignID, Limit: 5000})
		overview.Relations = relations
		return err
	})
	g.Go(func() error {
		npcs, err := s.repo.ListCharacters(gctx, domain.CharacterQuery{
			ListQuery:     domain.ListQuery{CampaignID: &campaignID, Limit: 1000},
			CharacterType: domain.CharacterNPC,
		})
		overview.NPCs = npcs
		return err
	})
	g.Go(func() error {
		pcs, err := s.repo.ListCharacters(gctx, domain.CharacterQuery{
			ListQuery:     domain.ListQuery{CampaignID: &campaignID, Limit: 1000},
			CharacterType: domain.CharacterPC,
		})
		overview.PCs = pcs
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RelationshipOverview{}, err
	}
	return overview, nil
}
