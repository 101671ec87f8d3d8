package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
)

// Service is the single entry point used by the HTTP and JSON-RPC adapters.
type Service struct {
	repo   domain.Repository
	images domain.ImageStore
	log    zerolog.Logger
}

func NewService(repo domain.Repository, images domain.ImageStore, log zerolog.Logger) *Service {
	return &Service{repo: repo, images: images, log: log.With().Str("component", "service").Logger()}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	return limit
}

func (s *Service) requireCampaign(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Invalid("campaignId", "is required")
	}
	_, err := s.repo.GetCampaign(ctx, id)
	return err
}

// requireEntity resolves one polymorphic reference or reports it missing.
func (s *Service) requireEntity(ctx context.Context, ref domain.EntityRef) (domain.EntitySummary, error) {
	if ref.ID == 0 {
		return domain.EntitySummary{}, domain.Invalid("entityId", "is required")
	}
	found, err := s.repo.ResolveEntities(ctx, []domain.EntityRef{ref})
	if err != nil {
		return domain.EntitySummary{}, err
	}
	summary, ok := found[ref]
	if !ok {
		return domain.EntitySummary{}, domain.NotFound(string(ref.Type), ref.ID)
	}
	return summary, nil
}

// requireAdventure checks that an optional adventure link points into the
// same campaign.
func (s *Service) requireAdventure(ctx context.Context, campaignID uint, adventureID *uint) error {
	if adventureID == nil {
		return nil
	}
	adventure, err := s.repo.GetAdventure(ctx, *adventureID)
	if err != nil {
		return err
	}
	if adventure.CampaignID != campaignID {
		return domain.Invalid("adventureId", "adventure %d belongs to another campaign", adventure.ID)
	}
	return nil
}

// deleteEntity runs the storage cascade and then drops image files nobody
// references anymore.
func (s *Service) deleteEntity(ctx context.Context, ref domain.EntityRef) error {
	urls, err := s.repo.DeleteEntity(ctx, ref)
	if err != nil {
		return err
	}
	s.log.Debug().Str("entity", ref.String()).Msg("deleted")
	s.releaseImages(ctx, urls)
	return nil
}

func checkText(v *domain.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func checkOneOf(v *domain.ValidationError, field, value string, allowed ...string) {
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "must be one of %s", strings.Join(allowed, ", "))
}

// checkObject accepts an absent document or a JSON object.
func checkObject(v *domain.ValidationError, field string, raw json.RawMessage) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return
	}
	if !strings.HasPrefix(trimmed, "{") || !json.Valid(raw) {
		v.Add(field, "must be a JSON object")
	}
}

func parseEntityType(v *domain.ValidationError, field, raw string) domain.EntityType {
	t, err := domain.ParseEntityType(raw)
	if err != nil {
		v.Add(field, "%v", err)
	}
	return t
}
