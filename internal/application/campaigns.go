package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

var (
	campaignStatuses  = []string{"planning", "active", "completed", "hiatus"}
	adventureStatuses = []string{"planning", "active", "completed"}
	logEntryTypes     = []string{"narrative", "combat", "dialogue", "discovery", "loot", "note"}
)

func (s *Service) ListCampaigns(ctx context.Context, query domain.ListQuery) ([]domain.Campaign, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListCampaigns(ctx, query)
}

func (s *Service) GetCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

func normalizeCampaign(value domain.Campaign) (domain.Campaign, error) {
	value.Title = strings.TrimSpace(value.Title)
	value.Status = strings.ToLower(strings.TrimSpace(value.Status))
	if value.Status == "" {
		value.Status = "planning"
	}
	if value.Tags == nil {
		value.Tags = []string{}
	}

	v := &domain.ValidationError{}
	checkText(v, "title", value.Title)
	checkOneOf(v, "status", value.Status, campaignStatuses...)
	return value, v.Err()
}

func (s *Service) CreateCampaign(ctx context.Context, value domain.Campaign) (domain.Campaign, error) {
	value, err := normalizeCampaign(value)
	if err != nil {
		return domain.Campaign{}, err
	}
	return s.repo.CreateCampaign(ctx, value)
}

func (s *Service) UpdateCampaign(ctx context.Context, value domain.Campaign) (domain.Campaign, error) {
	value, err := normalizeCampaign(value)
	if err != nil {
		return domain.Campaign{}, err
	}
	return s.repo.UpdateCampaign(ctx, value)
}

func (s *Service) DeleteCampaign(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: id})
}

// CampaignRoster lists the campaign's characters with the magic items each
// one holds.
func (s *Service) CampaignRoster(ctx context.Context, campaignID uint) ([]domain.CharacterDetail, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	characters, err := s.repo.ListCharacters(ctx, domain.CharacterQuery{
		ListQuery: domain.ListQuery{CampaignID: &campaignID, Limit: 1000},
	})
	if err != nil {
		return nil, err
	}
	return s.withHeldItems(ctx, characters)
}

func (s *Service) ListAdventures(ctx context.Context, query domain.ListQuery) ([]domain.Adventure, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListAdventures(ctx, query)
}

func (s *Service) GetAdventure(ctx context.Context, id uint) (domain.Adventure, error) {
	return s.repo.GetAdventure(ctx, id)
}

func (s *Service) checkAdventure(ctx context.Context, value domain.Adventure) (domain.Adventure, error) {
	value.Title = strings.TrimSpace(value.Title)
	value.Status = strings.ToLower(strings.TrimSpace(value.Status))
	if value.Status == "" {
		value.Status = "planning"
	}
	v := &domain.ValidationError{}
	checkText(v, "title", value.Title)
	checkOneOf(v, "status", value.Status, adventureStatuses...)
	if err := v.Err(); err != nil {
		return value, err
	}
	return value, s.requireCampaign(ctx, value.CampaignID)
}

func (s *Service) CreateAdventure(ctx context.Context, value domain.Adventure) (domain.Adventure, error) {
	value, err := s.checkAdventure(ctx, value)
	if err != nil {
		return domain.Adventure{}, err
	}
	value.Images = []domain.Image{}
	return s.repo.CreateAdventure(ctx, value)
}

func (s *Service) UpdateAdventure(ctx context.Context, value domain.Adventure) (domain.Adventure, error) {
	value, err := s.checkAdventure(ctx, value)
	if err != nil {
		return domain.Adventure{}, err
	}
	return s.repo.UpdateAdventure(ctx, value)
}

func (s *Service) DeleteAdventure(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityAdventure, ID: id})
}

func (s *Service) ListSessions(ctx context.Context, query domain.ListQuery) ([]domain.Session, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListSessions(ctx, query)
}

func (s *Service) GetSession(ctx context.Context, id uint) (domain.Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *Service) checkSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	value.Title = strings.TrimSpace(value.Title)
	v := &domain.ValidationError{}
	checkText(v, "title", value.Title)
	if err := v.Err(); err != nil {
		return value, err
	}
	if err := s.requireCampaign(ctx, value.CampaignID); err != nil {
		return value, err
	}
	return value, s.requireAdventure(ctx, value.CampaignID, value.AdventureID)
}

func (s *Service) CreateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	value, err := s.checkSession(ctx, value)
	if err != nil {
		return domain.Session{}, err
	}
	value.Images = []domain.Image{}
	return s.repo.CreateSession(ctx, value)
}

func (s *Service) UpdateSession(ctx context.Context, value domain.Session) (domain.Session, error) {
	value, err := s.checkSession(ctx, value)
	if err != nil {
		return domain.Session{}, err
	}
	return s.repo.UpdateSession(ctx, value)
}

func (s *Service) DeleteSession(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntitySession, ID: id})
}

func (s *Service) ListSessionLogs(ctx context.Context, sessionID uint) ([]domain.SessionLog, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListSessionLogs(ctx, sessionID)
}

func normalizeSessionLog(value domain.SessionLog) (domain.SessionLog, error) {
	value.EntryType = strings.ToLower(strings.TrimSpace(value.EntryType))
	if value.EntryType == "" {
		value.EntryType = "note"
	}
	if value.Tags == nil {
		value.Tags = []string{}
	}
	v := &domain.ValidationError{}
	checkText(v, "content", value.Content)
	checkOneOf(v, "entryType", value.EntryType, logEntryTypes...)
	return value, v.Err()
}

func (s *Service) AddSessionLog(ctx context.Context, sessionID uint, value domain.SessionLog) (domain.SessionLog, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return domain.SessionLog{}, err
	}
	value.SessionID = sessionID
	value, err := normalizeSessionLog(value)
	if err != nil {
		return domain.SessionLog{}, err
	}
	return s.repo.CreateSessionLog(ctx, value)
}

// sessionLogOf loads a log entry and reports it missing when it belongs to a
// different session.
func (s *Service) sessionLogOf(ctx context.Context, sessionID, logID uint) (domain.SessionLog, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return domain.SessionLog{}, err
	}
	entry, err := s.repo.GetSessionLog(ctx, logID)
	if err != nil {
		return domain.SessionLog{}, err
	}
	if entry.SessionID != sessionID {
		return domain.SessionLog{}, domain.NotFound("session log", logID)
	}
	return entry, nil
}

func (s *Service) UpdateSessionLog(ctx context.Context, sessionID, logID uint, value domain.SessionLog) (domain.SessionLog, error) {
	if _, err := s.sessionLogOf(ctx, sessionID, logID); err != nil {
		return domain.SessionLog{}, err
	}
	value.ID = logID
	value.SessionID = sessionID
	value, err := normalizeSessionLog(value)
	if err != nil {
		return domain.SessionLog{}, err
	}
	return s.repo.UpdateSessionLog(ctx, value)
}

func (s *Service) DeleteSessionLog(ctx context.Context, sessionID, logID uint) error {
	if _, err := s.sessionLogOf(ctx, sessionID, logID); err != nil {
		return err
	}
	return s.repo.DeleteSessionLog(ctx, logID)
}
