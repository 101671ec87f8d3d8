package sqlite

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (r *Repository) toCharacter(m CharacterModel) domain.Character {
	classes := []domain.CharacterClass{}
	equipment := []string{}
	spells := []string{}
	images := []domain.Image{}
	r.decodeInto(m.Classes, &classes, "characters", "classes", m.ID)
	r.decodeInto(m.Equipment, &equipment, "characters", "equipment", m.ID)
	r.decodeInto(m.Spells, &spells, "characters", "spells", m.ID)
	r.decodeInto(m.Images, &images, "characters", "images", m.ID)

	return domain.Character{
		ID:            m.ID,
		CampaignID:    m.CampaignID,
		AdventureID:   m.AdventureID,
		Name:          m.Name,
		CharacterType: m.CharacterType,
		Race:          m.Race,
		Alignment:     m.Alignment,
		Background:    m.Background,
		Abilities: domain.AbilityScores{
			Strength:     m.Strength,
			Dexterity:    m.Dexterity,
			Constitution: m.Constitution,
			Intelligence: m.Intelligence,
			Wisdom:       m.Wisdom,
			Charisma:     m.Charisma,
		},
		HitPoints:         m.HitPoints,
		MaxHitPoints:      m.MaxHitPoints,
		ArmorClass:        m.ArmorClass,
		Speed:             m.Speed,
		Classes:           classes,
		Equipment:         stringList(equipment),
		Spells:            stringList(spells),
		PersonalityTraits: m.PersonalityTraits,
		Ideals:            m.Ideals,
		Bonds:             m.Bonds,
		Flaws:             m.Flaws,
		Backstory:         m.Backstory,
		Notes:             m.Notes,
		Images:            images,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func fillCharacter(m *CharacterModel, value domain.Character) {
	m.CampaignID = value.CampaignID
	m.AdventureID = value.AdventureID
	m.Name = value.Name
	m.CharacterType = value.CharacterType
	m.Race = value.Race
	m.Alignment = value.Alignment
	m.Background = value.Background
	m.Strength = value.Abilities.Strength
	m.Dexterity = value.Abilities.Dexterity
	m.Constitution = value.Abilities.Constitution
	m.Intelligence = value.Abilities.Intelligence
	m.Wisdom = value.Abilities.Wisdom
	m.Charisma = value.Abilities.Charisma
	m.HitPoints = value.HitPoints
	m.MaxHitPoints = value.MaxHitPoints
	m.ArmorClass = value.ArmorClass
	m.Speed = value.Speed
	m.Classes = encodeList(value.Classes)
	m.Equipment = encodeList(value.Equipment)
	m.Spells = encodeList(value.Spells)
	m.PersonalityTraits = value.PersonalityTraits
	m.Ideals = value.Ideals
	m.Bonds = value.Bonds
	m.Flaws = value.Flaws
	m.Backstory = value.Backstory
	m.Notes = value.Notes
}

func (r *Repository) CreateCharacter(ctx context.Context, value domain.Character) (domain.Character, error) {
	var m CharacterModel
	fillCharacter(&m, value)
	m.Images = encodeList(value.Images)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Character{}, translateErr("create character", err)
	}
	return r.toCharacter(m), nil
}

func (r *Repository) UpdateCharacter(ctx context.Context, value domain.Character) (domain.Character, error) {
	var m CharacterModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Character{}, translateErr("character", err)
	}
	fillCharacter(&m, value)
	if err := r.db.WithContext(ctx).Omit("images").Save(&m).Error; err != nil {
		return domain.Character{}, translateErr("update character", err)
	}
	return r.toCharacter(m), nil
}

func (r *Repository) GetCharacter(ctx context.Context, id uint) (domain.Character, error) {
	var m CharacterModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Character{}, translateErr("character", err)
	}
	return r.toCharacter(m), nil
}

func (r *Repository) ListCharacters(ctx context.Context, query domain.CharacterQuery) ([]domain.Character, error) {
	q := scopeCampaign(r.db.WithContext(ctx).Model(&CharacterModel{}), query.ListQuery)
	if query.CharacterType != "" {
		q = q.Where("character_type = ?", query.CharacterType)
	}
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("name LIKE ? OR race LIKE ?", like, like)
	}
	q, err := applyFilter(q, characterFilter, query.Filter)
	if err != nil {
		return nil, err
	}

	rows := make([]CharacterModel, 0)
	if err := q.Order("name ASC, id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list characters", err)
	}
	result := make([]domain.Character, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toCharacter(m))
	}
	return result, nil
}

func (r *Repository) toLocation(m LocationModel) domain.Location {
	tags := []string{}
	images := []domain.Image{}
	r.decodeInto(m.Tags, &tags, "locations", "tags", m.ID)
	r.decodeInto(m.Images, &images, "locations", "images", m.ID)
	return domain.Location{
		ID:           m.ID,
		CampaignID:   m.CampaignID,
		AdventureID:  m.AdventureID,
		Name:         m.Name,
		LocationType: m.LocationType,
		Description:  m.Description,
		Notes:        m.Notes,
		Tags:         stringList(tags),
		Images:       images,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fillLocation(m *LocationModel, value domain.Location) {
	m.CampaignID = value.CampaignID
	m.AdventureID = value.AdventureID
	m.Name = value.Name
	m.LocationType = value.LocationType
	m.Description = value.Description
	m.Notes = value.Notes
	m.Tags = encodeList(value.Tags)
}

func (r *Repository) CreateLocation(ctx context.Context, value domain.Location) (domain.Location, error) {
	var m LocationModel
	fillLocation(&m, value)
	m.Images = encodeList(value.Images)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Location{}, translateErr("create location", err)
	}
	return r.toLocation(m), nil
}

func (r *Repository) UpdateLocation(ctx context.Context, value domain.Location) (domain.Location, error) {
	var m LocationModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Location{}, translateErr("location", err)
	}
	fillLocation(&m, value)
	if err := r.db.WithContext(ctx).Omit("images").Save(&m).Error; err != nil {
		return domain.Location{}, translateErr("update location", err)
	}
	return r.toLocation(m), nil
}

func (r *Repository) GetLocation(ctx context.Context, id uint) (domain.Location, error) {
	var m LocationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Location{}, translateErr("location", err)
	}
	return r.toLocation(m), nil
}

func (r *Repository) ListLocations(ctx context.Context, query domain.ListQuery) ([]domain.Location, error) {
	q := scopeCampaign(r.db.WithContext(ctx).Model(&LocationModel{}), query)
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("name LIKE ? OR location_type LIKE ?", like, like)
	}
	rows := make([]LocationModel, 0)
	if err := q.Order("name ASC, id ASC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list locations", err)
	}
	result := make([]domain.Location, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toLocation(m))
	}
	return result, nil
}

func (r *Repository) toQuest(m QuestModel) domain.Quest {
	tags := []string{}
	images := []domain.Image{}
	r.decodeInto(m.Tags, &tags, "quests", "tags", m.ID)
	r.decodeInto(m.Images, &images, "quests", "images", m.ID)
	return domain.Quest{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		AdventureID: m.AdventureID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		Priority:    m.Priority,
		QuestType:   m.QuestType,
		Reward:      m.Reward,
		Tags:        stringList(tags),
		Images:      images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fillQuest(m *QuestModel, value domain.Quest) {
	m.CampaignID = value.CampaignID
	m.AdventureID = value.AdventureID
	m.Title = value.Title
	m.Description = value.Description
	m.Status = defaultString(value.Status, "active")
	m.Priority = defaultString(value.Priority, "medium")
	m.QuestType = value.QuestType
	m.Reward = value.Reward
	m.Tags = encodeList(value.Tags)
}

func (r *Repository) CreateQuest(ctx context.Context, value domain.Quest) (domain.Quest, error) {
	var m QuestModel
	fillQuest(&m, value)
	m.Images = encodeList(value.Images)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Quest{}, translateErr("create quest", err)
	}
	return r.toQuest(m), nil
}

func (r *Repository) UpdateQuest(ctx context.Context, value domain.Quest) (domain.Quest, error) {
	var m QuestModel
	if err := r.db.WithContext(ctx).First(&m, value.ID).Error; err != nil {
		return domain.Quest{}, translateErr("quest", err)
	}
	fillQuest(&m, value)
	if err := r.db.WithContext(ctx).Omit("images").Save(&m).Error; err != nil {
		return domain.Quest{}, translateErr("update quest", err)
	}
	return r.toQuest(m), nil
}

func (r *Repository) GetQuest(ctx context.Context, id uint) (domain.Quest, error) {
	var m QuestModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Quest{}, translateErr("quest", err)
	}
	return r.toQuest(m), nil
}

func (r *Repository) ListQuests(ctx context.Context, query domain.ListQuery) ([]domain.Quest, error) {
	q := scopeCampaign(r.db.WithContext(ctx).Model(&QuestModel{}), query)
	if strings.TrimSpace(query.Query) != "" {
		like := "%" + strings.TrimSpace(query.Query) + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	rows := make([]QuestModel, 0)
	if err := q.Order("id DESC").Limit(query.Limit).Find(&rows).Error; err != nil {
		return nil, translateErr("list quests", err)
	}
	result := make([]domain.Quest, 0, len(rows))
	for _, m := range rows {
		result = append(result, r.toQuest(m))
	}
	return result, nil
}
