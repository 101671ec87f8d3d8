package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

var characterTypes = []string{domain.CharacterPC, domain.CharacterNPC, domain.CharacterMonster}

func (s *Service) ListCharacters(ctx context.Context, query domain.CharacterQuery) ([]domain.Character, error) {
	if query.CharacterType != "" {
		v := &domain.ValidationError{}
		checkOneOf(v, "characterType", query.CharacterType, characterTypes...)
		if err := v.Err(); err != nil {
			return nil, err
		}
	}
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListCharacters(ctx, query)
}

// GetCharacter returns the character with its held magic items and linked
// wiki articles.
func (s *Service) GetCharacter(ctx context.Context, id uint) (domain.CharacterDetail, error) {
	character, err := s.repo.GetCharacter(ctx, id)
	if err != nil {
		return domain.CharacterDetail{}, err
	}
	details, err := s.withHeldItems(ctx, []domain.Character{character})
	if err != nil {
		return domain.CharacterDetail{}, err
	}
	detail := details[0]

	articles, err := s.linkedArticles(ctx, domain.EntityRef{Type: domain.EntityCharacter, ID: id})
	if err != nil {
		return domain.CharacterDetail{}, err
	}
	detail.WikiEntities = articles
	return detail, nil
}

func fillAbility(v *domain.ValidationError, field string, score *int) {
	if *score == 0 {
		*score = 10
		return
	}
	if *score < 1 || *score > 30 {
		v.Add("abilities."+field, "must be between 1 and 30")
	}
}

func (s *Service) checkCharacter(ctx context.Context, value domain.Character) (domain.Character, error) {
	value.Name = strings.TrimSpace(value.Name)
	value.CharacterType = strings.ToLower(strings.TrimSpace(value.CharacterType))

	v := &domain.ValidationError{}
	checkText(v, "name", value.Name)
	checkOneOf(v, "characterType", value.CharacterType, characterTypes...)
	fillAbility(v, "strength", &value.Abilities.Strength)
	fillAbility(v, "dexterity", &value.Abilities.Dexterity)
	fillAbility(v, "constitution", &value.Abilities.Constitution)
	fillAbility(v, "intelligence", &value.Abilities.Intelligence)
	fillAbility(v, "wisdom", &value.Abilities.Wisdom)
	fillAbility(v, "charisma", &value.Abilities.Charisma)
	if value.HitPoints < 0 || value.MaxHitPoints < 0 {
		v.Add("hitPoints", "must not be negative")
	}
	for i, class := range value.Classes {
		if strings.TrimSpace(class.Name) == "" {
			v.Add("classes", "entry %d needs a name", i)
		}
		if class.Level < 0 || class.Level > 20 {
			v.Add("classes", "entry %d level must be between 0 and 20", i)
		}
	}
	if err := v.Err(); err != nil {
		return value, err
	}

	if value.Classes == nil {
		value.Classes = []domain.CharacterClass{}
	}
	if value.Equipment == nil {
		value.Equipment = []string{}
	}
	if value.Spells == nil {
		value.Spells = []string{}
	}
	if err := s.requireCampaign(ctx, value.CampaignID); err != nil {
		return value, err
	}
	return value, s.requireAdventure(ctx, value.CampaignID, value.AdventureID)
}

func (s *Service) CreateCharacter(ctx context.Context, value domain.Character) (domain.Character, error) {
	value, err := s.checkCharacter(ctx, value)
	if err != nil {
		return domain.Character{}, err
	}
	value.Images = []domain.Image{}
	return s.repo.CreateCharacter(ctx, value)
}

func (s *Service) UpdateCharacter(ctx context.Context, value domain.Character) (domain.Character, error) {
	value, err := s.checkCharacter(ctx, value)
	if err != nil {
		return domain.Character{}, err
	}
	return s.repo.UpdateCharacter(ctx, value)
}

func (s *Service) DeleteCharacter(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityCharacter, ID: id})
}

var (
	questStatuses   = []string{"active", "completed", "failed", "on-hold"}
	questPriorities = []string{"low", "medium", "high"}
)

func (s *Service) ListLocations(ctx context.Context, query domain.ListQuery) ([]domain.Location, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListLocations(ctx, query)
}

func (s *Service) GetLocation(ctx context.Context, id uint) (domain.Location, error) {
	return s.repo.GetLocation(ctx, id)
}

func (s *Service) checkLocation(ctx context.Context, value domain.Location) (domain.Location, error) {
	value.Name = strings.TrimSpace(value.Name)
	if value.Tags == nil {
		value.Tags = []string{}
	}
	v := &domain.ValidationError{}
	checkText(v, "name", value.Name)
	if err := v.Err(); err != nil {
		return value, err
	}
	if err := s.requireCampaign(ctx, value.CampaignID); err != nil {
		return value, err
	}
	return value, s.requireAdventure(ctx, value.CampaignID, value.AdventureID)
}

func (s *Service) CreateLocation(ctx context.Context, value domain.Location) (domain.Location, error) {
	value, err := s.checkLocation(ctx, value)
	if err != nil {
		return domain.Location{}, err
	}
	value.Images = []domain.Image{}
	return s.repo.CreateLocation(ctx, value)
}

func (s *Service) UpdateLocation(ctx context.Context, value domain.Location) (domain.Location, error) {
	value, err := s.checkLocation(ctx, value)
	if err != nil {
		return domain.Location{}, err
	}
	return s.repo.UpdateLocation(ctx, value)
}

func (s *Service) DeleteLocation(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityLocation, ID: id})
}

func (s *Service) ListQuests(ctx context.Context, query domain.ListQuery) ([]domain.Quest, error) {
	query.Limit = clampLimit(query.Limit, 100, 1000)
	return s.repo.ListQuests(ctx, query)
}

func (s *Service) GetQuest(ctx context.Context, id uint) (domain.Quest, error) {
	return s.repo.GetQuest(ctx, id)
}

func (s *Service) checkQuest(ctx context.Context, value domain.Quest) (domain.Quest, error) {
	value.Title = strings.TrimSpace(value.Title)
	value.Status = strings.ToLower(strings.TrimSpace(value.Status))
	value.Priority = strings.ToLower(strings.TrimSpace(value.Priority))
	if value.Status == "" {
		value.Status = "active"
	}
	if value.Priority == "" {
		value.Priority = "medium"
	}
	if value.Tags == nil {
		value.Tags = []string{}
	}
	v := &domain.ValidationError{}
	checkText(v, "title", value.Title)
	checkOneOf(v, "status", value.Status, questStatuses...)
	checkOneOf(v, "priority", value.Priority, questPriorities...)
	if err := v.Err(); err != nil {
		return value, err
	}
	if err := s.requireCampaign(ctx, value.CampaignID); err != nil {
		return value, err
	}
	return value, s.requireAdventure(ctx, value.CampaignID, value.AdventureID)
}

func (s *Service) CreateQuest(ctx context.Context, value domain.Quest) (domain.Quest, error) {
	value, err := s.checkQuest(ctx, value)
	if err != nil {
		return domain.Quest{}, err
	}
	value.Images = []domain.Image{}
	return s.repo.CreateQuest(ctx, value)
}

func (s *Service) UpdateQuest(ctx context.Context, value domain.Quest) (domain.Quest, error) {
	value, err := s.checkQuest(ctx, value)
	if err != nil {
		return domain.Quest{}, err
	}
	return s.repo.UpdateQuest(ctx, value)
}

func (s *Service) DeleteQuest(ctx context.Context, id uint) error {
	return s.deleteEntity(ctx, domain.EntityRef{Type: domain.EntityQuest, ID: id})
}
