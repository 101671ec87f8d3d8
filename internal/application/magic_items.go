package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

var rarities = []string{"common", "uncommon", "rare", "very-rare", "legendary", "artifact"}

type AssignInput struct {
	EntityType string          `json:"entityType"`
	EntityID   uint            `json:"entityId"`
	CampaignID *uint           `json:"campaignId,omitempty"`
	Source     string          `json:"source"`
	Notes      string          `json:"notes"`
	Metadata   json.RawMessage `json:"metadata"`
}

func (s *Service) ListMagicItems(ctx context.Context, query domain.ListQuery) ([]domain.MagicItemWithOwners, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	items, err := s.repo.ListMagicItems(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.withOwners(ctx, items)
}

func (s *Service) GetMagicItem(ctx context.Context, id uint) (domain.MagicItemWithOwners, error) {
	item, err := s.repo.GetMagicItem(ctx, id)
	if err != nil {
		return domain.MagicItemWithOwners{}, err
	}
	out, err := s.withOwners(ctx, []domain.MagicItem{item})
	if err != nil {
		return domain.MagicItemWithOwners{}, err
	}
	return out[0], nil
}

func normalizeMagicItem(value domain.MagicItem) (domain.MagicItem, error) {
	value.Name = strings.TrimSpace(value.Name)
	value.Rarity = strings.ToLower(strings.TrimSpace(value.Rarity))
	v := &domain.ValidationError{}
	checkText(v, "name", value.Name)
	checkOneOf(v, "rarity", value.Rarity, rarities...)
	checkObject(v, "properties", value.Properties)
	return value, v.Err()
}

func (s *Service) CreateMagicItem(ctx context.Context, value domain.MagicItem) (domain.MagicItem, error) {
	value, err := normalizeMagicItem(value)
	if err != nil {
		return domain.MagicItem{}, err
	}
	return s.repo.CreateMagicItem(ctx, value)
}

func (s *Service) UpdateMagicItem(ctx context.Context, value domain.MagicItem) (domain.MagicItem, error) {
	value, err := normalizeMagicItem(value)
	if err != nil {
		return domain.MagicItem{}, err
	}
	return s.repo.UpdateMagicItem(ctx, value)
}

// DeleteMagicItem removes the item together with all of its assignments.
func (s *Service) DeleteMagicItem(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityMagicItem, ID: id})
}

func (s *Service) ListAssignments(ctx context.Context, itemID uint) ([]domain.Owner, error) {
	item, err := s.GetMagicItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return item.Owners, nil
}

// AssignMagicItem gives the item to an entity. A second assignment of the
// same item to the same entity is a conflict.
func (s *Service) AssignMagicItem(ctx context.Context, itemID uint, in AssignInput) (domain.MagicItemAssignment, error) {
	v := &domain.ValidationError{}
	entityType := parseEntityType(v, "entityType", in.EntityType)
	if in.EntityID == 0 {
		v.Add("entityId", "is required")
	}
	checkObject(v, "metadata", in.Metadata)
	if entityType == domain.EntityMagicItem {
		v.Add("entityType", "magic items cannot hold magic items")
	}
	if err := v.Err(); err != nil {
		return domain.MagicItemAssignment{}, err
	}

	if _, err := s.repo.GetMagicItem(ctx, itemID); err != nil {
		return domain.MagicItemAssignment{}, err
	}
	target, err := s.requireEntity(ctx, domain.EntityRef{Type: entityType, ID: in.EntityID})
	if err != nil {
		return domain.MagicItemAssignment{}, err
	}

	campaignID := in.CampaignID
	if campaignID == nil {
		campaignID = target.CampaignID
	}
	return s.repo.CreateAssignment(ctx, domain.MagicItemAssignment{
		MagicItemID: itemID,
		EntityType:  entityType,
		EntityID:    in.EntityID,
		CampaignID:  campaignID,
		Source:      in.Source,
		Notes:       in.Notes,
		Metadata:    in.Metadata,
	})
}

// UnassignMagicItem removes one assignment. The item itself stays.
func (s *Service) UnassignMagicItem(ctx context.Context, itemID, assignmentID uint) error {
	assignment, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if assignment.MagicItemID != itemID {
		return domain.NotFound("magic item assignment", assignmentID)
	}
	return s.repo.DeleteAssignment(ctx, assignmentID)
}
