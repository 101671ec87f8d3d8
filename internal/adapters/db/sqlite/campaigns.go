package sqlite

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"gorm.io/gorm"
)

func (r *Repository) toCampaign(m CampaignModel) domain.Campaign {
	tags := []string{}
	r.decodeInto(m.Tags, &tags, "campaigns", "tags", m.ID)
	return domain.Campaign{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Tags:        stringList(tags),
		GameEdition: m.GameEdition,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fillCampaign(m *CampaignModel, value domain.Campaign) {
	m.Title = value.Title
	m.Description = value.Description
	m.Status = defaultString(value.Status, "planning")
	m.StartDate = value.StartDate
	m.EndDate = value.EndDate
	m.Tags = encodeList(value.Tags)
	m.GameEdition = value.GameEdition
}

func (r *Repository) CreateCampaign(ctx context.Context, value domain.Campaign) (domain.Campaign, error) {
	var m CampaignModel
	fillCampaign(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Campaign{}, translateErr("create campaign", err)
	}
	return r.toCampaign(m), nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, value domain.Campaign) (domain.Campaign, error) {
	var m CampaignModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Campaign{}, translateErr("campaign", err)
	}
	fillCampaign(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.Campaign{}, translateErr("update campaign", err)
	}
	return r.toCampaign(m), nil
}

func (r *Repository) GetCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	var m CampaignModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Campaign{}, translateErr("campaign", err)
	}
	return r.toCampaign(m), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, query domain.ListQuery) ([]domain.Campaign, error) {
	q := r.db.WithContext(ctx).Model(&CampaignModel{})
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	q, err := applyFilter(q, campaignFilter, query.Filter)
	if err != nil {
		return nil, err
	}

	rows := make([]CampaignModel, 0)
	if err := q.Order("id DESC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list campaigns", err)
	}
	result := make([]domain.Campaign, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toCampaign(m))
	}
	return result, nil
}

func applyFilter(q *gorm.DB, schema filterSchema, filter string) (*gorm.DB, error) {
	cond, err := schema.Parse(filter)
	if err != nil {
		return nil, err
	}
	if cond.Clause == "" {
		return q, nil
	}
	return q.Where(cond.Clause, cond.Params...), nil
}

func scopeCampaign(q *gorm.DB, query domain.ListQuery) *gorm.DB {
	if query.CampaignID != nil {
		q = q.Where("campaign_id = ?", *query.CampaignID)
	}
	return q
}

func (r *Repository) toAdventure(m AdventureModel) domain.Adventure {
	images := []domain.Image{}
	r.decodeInto(m.Images, &images, "adventures", "images", m.ID)
	return domain.Adventure{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Images:      images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fillAdventure(m *AdventureModel, value domain.Adventure) {
	m.CampaignID = value.CampaignID
	m.Title = value.Title
	m.Description = value.Description
	m.Status = defaultString(value.Status, "planning")
	m.StartDate = value.StartDate
	m.EndDate = value.EndDate
}

func (r *Repository) CreateAdventure(ctx context.Context, value domain.Adventure) (domain.Adventure, error) {
	var m AdventureModel
	fillAdventure(&m, value)
	m.Images = encodeList(value.Images)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Adventure{}, translateErr("create adventure", err)
	}
	return r.toAdventure(m), nil
}

// UpdateAdventure leaves the images column alone; images change only through
// AppendImage and RemoveImage.
func (r *Repository) UpdateAdventure(ctx context.Context, value domain.Adventure) (domain.Adventure, error) {
	var m AdventureModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Adventure{}, translateErr("adventure", err)
	}
	fillAdventure(&m, value)
	if err := r.db.WithContext(ctx).Omit("images").Save(&m).Error; err != nil {
		return domain.Adventure{}, translateErr("update adventure", err)
	}
	return r.toAdventure(m), nil
}

func (r *Repository) GetAdventure(ctx context.Context, id uint) (domain.Adventure, error) {
	var m AdventureModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Adventure{}, translateErr("adventure", err)
	}
	return r.toAdventure(m), nil
}

func (r *Repository) ListAdventures(ctx context.Context, query domain.ListQuery) ([]domain.Adventure, error) {
	q := scopeCampaign(r.db.WithContext(ctx).Model(&AdventureModel{}), query)
	if strings.TrimSpace(query.Query) != "" {
		q = q.Where("title LIKE ?", "%"+strings.TrimSpace(query.Query)+"%")
	}
	rows := make([]AdventureModel, 0)
	if err := q.Order("id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list adventures", err)
	}
	result := make([]domain.Adventure, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toAdventure(m))
	}
	return result, nil
}

func (r *Repository) toSession(m SessionModel) domain.Session {
	images := []domain.Image{}
	r.decodeInto(m.Images, &images, "sessions", "images", m.ID)
	return domain.Session{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		AdventureID: m.AdventureID,
		Title:       m.Title,
		Date:        m.Date,
		Text:        m.Text,
		Images:      images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fillSession(m *SessionModel, value domain.Session) {
	m.CampaignID = value.CampaignID
	m.AdventureID = value.AdventureID
	m.Title = value.Title
	m.Date = value.Date
	m.Text = value.Text
}

func (r *Repository) CreateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	var m SessionModel
	fillSession(&m, value)
	m.Images = encodeList(value.Images)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Session{}, translateErr("create session", err)
	}
	return r.toSession(m), nil
}

func (r *Repository) UpdateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Session{}, translateErr("session", err)
	}
	fillSession(&m, value)
	if err := r.db.WithContext(ctx).Omit("images").Save(&m).Error; err != nil {
		return domain.Session{}, translateErr("update session", err)
	}
	return r.toSession(m), nil
}

func (r *Repository) GetSession(ctx context.Context, id uint) (domain.Session, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Session{}, translateErr("session", err)
	}
	return r.toSession(m), nil
}

func (r *Repository) ListSessions(ctx context.Context, query domain.ListQuery) ([]domain.Session, error) {
	q := scopeCampaign(r.db.WithContext(ctx).Model(&SessionModel{}), query)
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("title LIKE ? OR text LIKE ?", like, like)
	}
	rows := make([]SessionModel, 0)
	if err := q.Order("date DESC, id DESC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list sessions", err)
	}
	result := make([]domain.Session, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toSession(m))
	}
	return result, nil
}

func (r *Repository) toSessionLog(m SessionLogModel) domain.SessionLog {
	tags := []string{}
	r.decodeInto(m.Tags, &tags, "session_logs", "tags", m.ID)
	return domain.SessionLog{
		ID:        m.ID,
		SessionID: m.SessionID,
		EntryType: m.EntryType,
		Timestamp: m.Timestamp,
		Tags:      stringList(tags),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fillSessionLog(m *SessionLogModel, value domain.SessionLog) {
	m.SessionID = value.SessionID
	m.EntryType = defaultString(value.EntryType, "note")
	m.Timestamp = value.Timestamp
	m.Tags = encodeList(value.Tags)
	m.Content = value.Content
}

func (r *Repository) CreateSessionLog(ctx context.Context, value domain.SessionLog) (domain.SessionLog, error) {
	var m SessionLogModel
	fillSessionLog(&m, value)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.SessionLog{}, translateErr("create session log", err)
	}
	return r.toSessionLog(m), nil
}

func (r *Repository) UpdateSessionLog(ctx context.Context, value domain.SessionLog) (domain.SessionLog, error) {
	var m SessionLogModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.SessionLog{}, translateErr("session log", err)
	}
	fillSessionLog(&m, value)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return domain.SessionLog{}, translateErr("update session log", err)
	}
	return r.toSessionLog(m), nil
}

func (r *Repository) GetSessionLog(ctx context.Context, id uint) (domain.SessionLog, error) {
	var m SessionLogModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.SessionLog{}, translateErr("session log", err)
	}
	return r.toSessionLog(m), nil
}

func (r *Repository) ListSessionLogs(ctx context.Context, sessionID uint) ([]domain.SessionLog, error) {
	rows := make([]SessionLogModel, 0)
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateErr("list session logs", err)
	}
	result := make([]domain.SessionLog, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toSessionLog(m))
	}
	return result, nil
}

func (r *Repository) DeleteSessionLog(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&SessionLogModel{}, id)
	if res.Error != nil {
		return translateErr("delete session log", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("session log", id)
	}
	return nil
}
