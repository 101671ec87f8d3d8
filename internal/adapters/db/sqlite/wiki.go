package sqlite

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (r *Repository) toWikiArticle(m WikiArticleModel) domain.WikiArticle {
	return domain.WikiArticle{
		ID:           m.ID,
		Title:        m.Title,
		ContentType:  domain.ContentType(m.ContentType),
		WikiURL:      m.WikiURL,
		RawContent:   m.RawContent,
		ParsedData:   r.decodeObject(m.ParsedData, "wiki_articles", "parsed_data", m.ID),
		ImportedFrom: m.ImportedFrom,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fillWikiArticle(m *WikiArticleModel, value domain.WikiArticle) {
	m.Title = value.Title
	m.ContentType = string(value.ContentType)
	m.WikiURL = value.WikiURL
	m.RawContent = value.RawContent
	m.ParsedData = encodeObject(value.ParsedData)
	m.ImportedFrom = value.ImportedFrom
}

// FindWikiArticle looks an article up by its import identity: title and url
// when a url is given, title alone otherwise.
func (r *Repository) FindWikiArticle(ctx context.Context, title string, wikiURL *string) (domain.WikiArticle, error) {
	q := r.db.WithContext(ctx).Where("title = ?", title)
	if wikiURL != nil {
		q = q.Where("wiki_url = ?", *wikiURL)
	}
	var m WikiArticleModel
	if err := q.Order("id ASC").First(&m).Error; err != nil {
		return domain.WikiArticle{}, translateErr("wiki article", err)
	}
	return r.toWikiArticle(m), nil
}

func (r *Repository) CreateWikiArticle(ctx context.Context, value domain.WikiArticle) (domain.WikiArticle, error) {
	var m WikiArticleModel
	fillWikiArticle(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.WikiArticle{}, translateErr("create wiki article", err)
	}
	return r.toWikiArticle(m), nil
}

func (r *Repository) UpdateWikiArticle(ctx context.Context, value domain.WikiArticle) (domain.WikiArticle, error) {
	var m WikiArticleModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.WikiArticle{}, translateErr("wiki article", err)
	}
	fillWikiArticle(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.WikiArticle{}, translateErr("update wiki article", err)
	}
	return r.toWikiArticle(m), nil
}

func (r *Repository) GetWikiArticle(ctx context.Context, id uint) (domain.WikiArticle, error) {
	var m WikiArticleModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.WikiArticle{}, translateErr("wiki article", err)
	}
	return r.toWikiArticle(m), nil
}

func (r *Repository) ListWikiArticles(ctx context.Context, query domain.WikiQuery) ([]domain.WikiArticle, error) {
	q := r.db.WithContext(ctx).Model(&WikiArticleModel{})
	if query.ContentType != "" {
		q = q.Where("content_type = ?", string(query.ContentType))
	}
	if strings.TrimSpace(query.Query) != "" {
		q = q.Where("title LIKE ?", "%"+strings.TrimSpace(query.Query)+"%")
	}
	q, err := applyFilter(q, wikiFilter, query.Filter)
	if err != nil {
		return nil, err
	}

	rows := make([]WikiArticleModel, 0)
	if err := q.Order("title ASC, id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list wiki articles", err)
	}
	result := make([]domain.WikiArticle, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toWikiArticle(m))
	}
	return result, nil
}

func (r *Repository) ListWikiArticlesByIDs(ctx context.Context, ids []uint) ([]domain.WikiArticle, error) {
	if len(ids) == 0 {
		return []domain.WikiArticle{}, nil
	}
	rows := make([]WikiArticleModel, 0, len(ids))
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("title ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list wiki articles", err)
	}
	result := make([]domain.WikiArticle, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toWikiArticle(m))
	}
	return result, nil
}

func (r *Repository) toWikiLink(m WikiArticleEntityModel) domain.WikiArticleEntity {
	var data domain.RelationshipData
	r.decodeInto(m.RelationshipData, &data, "wiki_article_entities", "relationship_data", m.ID)
	return domain.WikiArticleEntity{
		ID:               m.ID,
		WikiArticleID:    m.WikiArticleID,
		EntityType:       domain.EntityType(m.EntityType),
		EntityID:         m.EntityID,
		RelationshipType: m.RelationshipType,
		RelationshipData: data,
		CreatedAt:        m.CreatedAt,
	}
}

func (r *Repository) CreateWikiLink(ctx context.Context, value domain.WikiArticleEntity) (domain.WikiArticleEntity, error) {
	m := WikiArticleEntityModel{
		WikiArticleID:    value.WikiArticleID,
		EntityType:       string(value.EntityType),
		EntityID:         value.EntityID,
		RelationshipType: defaultString(value.RelationshipType, "reference"),
		RelationshipData: encodeValue(value.RelationshipData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.WikiArticleEntity{}, translateErr("wiki article link", err)
	}
	return r.toWikiLink(m), nil
}

func (r *Repository) GetWikiLink(ctx context.Context, id uint) (domain.WikiArticleEntity, error) {
	var m WikiArticleEntityModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.WikiArticleEntity{}, translateErr("wiki article link", err)
	}
	return r.toWikiLink(m), nil
}

func (r *Repository) DeleteWikiLink(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&WikiArticleEntityModel{}, id)
	if res.Error != nil {
		return translateErr("delete wiki article link", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("wiki article link", id)
	}
	return nil
}

func (r *Repository) ListWikiLinksForArticles(ctx context.Context, articleIDs []uint) ([]domain.WikiArticleEntity, error) {
	if len(articleIDs) == 0 {
		return []domain.WikiArticleEntity{}, nil
	}
	rows := make([]WikiArticleEntityModel, 0)
	if err := r.db.WithContext(ctx).Where("wiki_article_id IN ?", articleIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list wiki article links", err)
	}
	result := make([]domain.WikiArticleEntity, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toWikiLink(m))
	}
	return result, nil
}

func (r *Repository) ListWikiLinksForEntity(ctx context.Context, ref domain.EntityRef) ([]domain.WikiArticleEntity, error) {
	rows := make([]WikiArticleEntityModel, 0)
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(ref.Type), ref.ID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateErr("list wiki article links", err)
	}
	result := make([]domain.WikiArticleEntity, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toWikiLink(m))
	}
	return result, nil
}

// DeleteWikiArticle removes the article; its links go with it through the
// wiki_article_id foreign key.
func (r *Repository) DeleteWikiArticle(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&WikiArticleModel{}, id)
	if res.Error != nil {
		return translateErr("delete wiki article", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("wiki article", id)
	}
	return nil
}
