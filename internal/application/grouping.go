package application

import (
	"context"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

// Polymorphic reads load owners, then every association row of those owners,
// then one IN query per referenced entity type, and group in memory. Rows
// whose target no longer exists are left out.

func (s *Service) withOwners(ctx context.Context, items []domain.MagicItem) ([]domain.MagicItemWithOwners, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assignments, err := s.repo.ListAssignmentsForItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.EntityRef, 0, len(assignments))
	for _, a := range assignments {
		refs = append(refs, domain.EntityRef{Type: a.EntityType, ID: a.EntityID})
	}
	resolved, err := s.repo.ResolveEntities(ctx, refs)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uint][]domain.Owner, len(items))
	for _, a := range assignments {
		summary, ok := resolved[domain.EntityRef{Type: a.EntityType, ID: a.EntityID}]
		if !ok {
			s.log.Debug().Uint("assignment", a.ID).Msg("skipping assignment to missing entity")
			continue
		}
		byItem[a.MagicItemID] = append(byItem[a.MagicItemID], domain.Owner{
			AssignmentID: a.ID,
			Entity:       summary,
			CampaignID:   a.CampaignID,
			Source:       a.Source,
			Notes:        a.Notes,
			Metadata:     a.Metadata,
			AssignedAt:   a.AssignedAt,
		})
	}

	result := make([]domain.MagicItemWithOwners, 0, len(items))
	for _, item := range items {
		owners := byItem[item.ID]
		if owners == nil {
			owners = []domain.Owner{}
		}
		result = append(result, domain.MagicItemWithOwners{MagicItem: item, Owners: owners})
	}
	return result, nil
}

func (s *Service) withHeldItems(ctx context.Context, characters []domain.Character) ([]domain.CharacterDetail, error) {
	ids := make([]uint, 0, len(characters))
	for _, c := range characters {
		ids = append(ids, c.ID)
	}
	assignments, err := s.repo.ListAssignmentsForEntities(ctx, domain.EntityCharacter, ids)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uint, 0, len(assignments))
	seen := make(map[uint]bool)
	for _, a := range assignments {
		if !seen[a.MagicItemID] {
			seen[a.MagicItemID] = true
			itemIDs = append(itemIDs, a.MagicItemID)
		}
	}
	items, err := s.repo.ListMagicItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	itemByID := make(map[uint]domain.MagicItem, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
	}

	held := make(map[uint][]domain.HeldMagicItem, len(characters))
	for _, a := range assignments {
		item, ok := itemByID[a.MagicItemID]
		if !ok {
			continue
		}
		held[a.EntityID] = append(held[a.EntityID], domain.HeldMagicItem{MagicItem: item, Assignment: a})
	}

	result := make([]domain.CharacterDetail, 0, len(characters))
	for _, c := range characters {
		items := held[c.ID]
		if items == nil {
			items = []domain.HeldMagicItem{}
		}
		result = append(result, domain.CharacterDetail{Character: c, MagicItems: items, WikiEntities: []domain.LinkedArticle{}})
	}
	return result, nil
}

func (s *Service) withEntities(ctx context.Context, articles []domain.WikiArticle) ([]domain.WikiArticleWithEntities, error) {
	ids := make([]uint, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	links, err := s.repo.ListWikiLinksForArticles(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.EntityRef, 0, len(links))
	for _, link := range links {
		refs = append(refs, domain.EntityRef{Type: link.EntityType, ID: link.EntityID})
	}
	resolved, err := s.repo.ResolveEntities(ctx, refs)
	if err != nil {
		return nil, err
	}

	byArticle := make(map[uint][]domain.LinkedEntity, len(articles))
	for _, link := range links {
		summary, ok := resolved[domain.EntityRef{Type: link.EntityType, ID: link.EntityID}]
		if !ok {
			continue
		}
		byArticle[link.WikiArticleID] = append(byArticle[link.WikiArticleID], domain.LinkedEntity{
			LinkID:           link.ID,
			Entity:           summary,
			RelationshipType: link.RelationshipType,
			RelationshipData: link.RelationshipData,
		})
	}

	result := make([]domain.WikiArticleWithEntities, 0, len(articles))
	for _, a := range articles {
		entities := byArticle[a.ID]
		if entities == nil {
			entities = []domain.LinkedEntity{}
		}
		result = append(result, domain.WikiArticleWithEntities{WikiArticle: a, Entities: entities})
	}
	return result, nil
}

// linkedArticles is the reverse view: the articles linked to one entity.
func (s *Service) linkedArticles(ctx context.Context, ref domain.EntityRef) ([]domain.LinkedArticle, error) {
	links, err := s.repo.ListWikiLinksForEntity(ctx, ref)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.WikiArticleID)
	}
	articles, err := s.repo.ListWikiArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]domain.WikiArticle, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	result := make([]domain.LinkedArticle, 0, len(links))
	for _, link := range links {
		article, ok := byID[link.WikiArticleID]
		if !ok {
			continue
		}
		result = append(result, domain.LinkedArticle{
			LinkID:           link.ID,
			ArticleID:        article.ID,
			Title:            article.Title,
			ContentType:      article.ContentType,
			RelationshipType: link.RelationshipType,
			RelationshipData: link.RelationshipData,
		})
	}
	return result, nil
}
