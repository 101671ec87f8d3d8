package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/tidwall/gjson"
)

type WikiImport struct {
	Title        string          `json:"title"`
	ContentType  string          `json:"contentType"`
	WikiURL      *string         `json:"wikiUrl,omitempty"`
	RawContent   string          `json:"rawContent"`
	ParsedData   json.RawMessage `json:"parsedData,omitempty"`
	ImportedFrom string          `json:"importedFrom"`
}

type WikiLinkInput struct {
	EntityType       string                  `json:"entityType"`
	EntityID         uint                    `json:"entityId"`
	RelationshipType string                  `json:"relationshipType"`
	RelationshipData domain.RelationshipData `json:"relationshipData"`
}

func checkWikiImport(in WikiImport) (domain.WikiArticle, error) {
	v := &domain.ValidationError{}
	title := strings.TrimSpace(in.Title)
	checkText(v, "title", title)

	contentType, err := domain.ParseContentType(in.ContentType)
	if err != nil {
		v.Add("contentType", "%v", err)
	}

	var wikiURL *string
	if in.WikiURL != nil && strings.TrimSpace(*in.WikiURL) != "" {
		raw := strings.TrimSpace(*in.WikiURL)
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.Add("wikiUrl", "must be an absolute http or https URL")
		}
		wikiURL = &raw
	}
	if contentType != "" {
		if err := domain.CheckParsedData(contentType, in.ParsedData); err != nil {
			v.Add("parsedData", "%v", err)
		}
	}
	if err := v.Err(); err != nil {
		return domain.WikiArticle{}, err
	}

	return domain.WikiArticle{
		Title:        title,
		ContentType:  contentType,
		WikiURL:      wikiURL,
		RawContent:   in.RawContent,
		ParsedData:   in.ParsedData,
		ImportedFrom: in.ImportedFrom,
	}, nil
}

// ImportWikiArticle stores an article unless one with the same identity
// already exists. Identity is title plus url when a url is supplied and the
// title alone otherwise, so two url-less imports with the same title collapse
// into one article. The boolean reports whether a new row was written.
func (s *Service) ImportWikiArticle(ctx context.Context, in WikiImport) (domain.WikiArticle, bool, error) {
	article, err := checkWikiImport(in)
	if err != nil {
		return domain.WikiArticle{}, false, err
	}

	existing, err := s.repo.FindWikiArticle(ctx, article.Title, article.WikiURL)
	if err == nil {
		s.log.Debug().Uint("article", existing.ID).Str("title", existing.Title).Msg("wiki import matched existing article")
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.WikiArticle{}, false, err
	}

	created, err := s.repo.CreateWikiArticle(ctx, article)
	if err != nil {
		return domain.WikiArticle{}, false, err
	}
	return created, true, nil
}

// ImportTyped is the content-type scoped import used by the monster and
// spell endpoints.
func (s *Service) ImportTyped(ctx context.Context, contentType domain.ContentType, in WikiImport) (domain.WikiArticle, bool, error) {
	in.ContentType = string(contentType)
	return s.ImportWikiArticle(ctx, in)
}

func (s *Service) ListWikiArticles(ctx context.Context, query domain.WikiQuery) ([]domain.WikiArticleWithEntities, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	articles, err := s.repo.ListWikiArticles(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.withEntities(ctx, articles)
}

func (s *Service) GetWikiArticle(ctx context.Context, id uint) (domain.WikiArticleWithEntities, error) {
	article, err := s.repo.GetWikiArticle(ctx, id)
	if err != nil {
		return domain.WikiArticleWithEntities{}, err
	}
	out, err := s.withEntities(ctx, []domain.WikiArticle{article})
	if err != nil {
		return domain.WikiArticleWithEntities{}, err
	}
	return out[0], nil
}

func (s *Service) UpdateWikiArticle(ctx context.Context, id uint, in WikiImport) (domain.WikiArticle, error) {
	article, err := checkWikiImport(in)
	if err != nil {
		return domain.WikiArticle{}, err
	}
	article.ID = id
	return s.repo.UpdateWikiArticle(ctx, article)
}

func (s *Service) DeleteWikiArticle(ctx context.Context, id uint) error {
	return s.repo.DeleteWikiArticle(ctx, id)
}

func (s *Service) LinkWikiArticle(ctx context.Context, articleID uint, in WikiLinkInput) (domain.WikiArticleEntity, error) {
	v := &domain.ValidationError{}
	entityType := parseEntityType(v, "entityType", in.EntityType)
	if in.EntityID == 0 {
		v.Add("entityId", "is required")
	}
	if err := v.Err(); err != nil {
		return domain.WikiArticleEntity{}, err
	}

	if _, err := s.repo.GetWikiArticle(ctx, articleID); err != nil {
		return domain.WikiArticleEntity{}, err
	}
	if _, err := s.requireEntity(ctx, domain.EntityRef{Type: entityType, ID: in.EntityID}); err != nil {
		return domain.WikiArticleEntity{}, err
	}

	return s.repo.CreateWikiLink(ctx, domain.WikiArticleEntity{
		WikiArticleID:    articleID,
		EntityType:       entityType,
		EntityID:         in.EntityID,
		RelationshipType: strings.TrimSpace(in.RelationshipType),
		RelationshipData: in.RelationshipData,
	})
}

func (s *Service) UnlinkWikiArticle(ctx context.Context, articleID, linkID uint) error {
	link, err := s.repo.GetWikiLink(ctx, linkID)
	if err != nil {
		return err
	}
	if link.WikiArticleID != articleID {
		return domain.NotFound("wiki article link", linkID)
	}
	return s.repo.DeleteWikiLink(ctx, linkID)
}

func (s *Service) ListMonsters(ctx context.Context, query domain.ListQuery) ([]domain.MonsterSummary, error) {
	articles, err := s.ListWikiArticles(ctx, domain.WikiQuery{ListQuery: query, ContentType: domain.ContentMonster})
	if err != nil {
		return nil, err
	}
	result := make([]domain.MonsterSummary, 0, len(articles))
	for _, a := range articles {
		data := gjson.ParseBytes(a.ParsedData)
		result = append(result, domain.MonsterSummary{
			ID:              a.ID,
			Title:           a.Title,
			WikiURL:         a.WikiURL,
			Size:            data.Get("size").String(),
			MonsterType:     data.Get("type").String(),
			ChallengeRating: data.Get("challengeRating").String(),
			ArmorClass:      data.Get("armorClass").Int(),
			HitPoints:       data.Get("hitPoints").Int(),
			Entities:        a.Entities,
		})
	}
	return result, nil
}

func (s *Service) ListSpells(ctx context.Context, query domain.ListQuery) ([]domain.SpellSummary, error) {
	articles, err := s.ListWikiArticles(ctx, domain.WikiQuery{ListQuery: query, ContentType: domain.ContentSpell})
	if err != nil {
		return nil, err
	}
	result := make([]domain.SpellSummary, 0, len(articles))
	for _, a := range articles {
		data := gjson.ParseBytes(a.ParsedData)
		result = append(result, domain.SpellSummary{
			ID:       a.ID,
			Title:    a.Title,
			WikiURL:  a.WikiURL,
			Level:    data.Get("level").Int(),
			School:   data.Get("school").String(),
			Ritual:   data.Get("ritual").Bool(),
			Entities: a.Entities,
		})
	}
	return result, nil
}
