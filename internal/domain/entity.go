package domain

import (
	"fmt"
	"strings"
)

// EntityType is the closed set of record kinds a polymorphic reference may
// point at. Storage keeps it as text next to an integer id, with no foreign key.
type EntityType string

const (
	EntityCampaign  EntityType = "campaign"
	EntityAdventure EntityType = "adventure"
	EntitySession   EntityType = "session"
	EntityCharacter EntityType = "character"
	EntityLocation  EntityType = "location"
	EntityQuest     EntityType = "quest"
	EntityMagicItem EntityType = "magic-item"
)

var entityTypes = []EntityType{
	EntityCampaign,
	EntityAdventure,
	EntitySession,
	EntityCharacter,
	EntityLocation,
	EntityQuest,
	EntityMagicItem,
}

func EntityTypes() []EntityType {
	out := make([]EntityType, len(entityTypes))
	copy(out, entityTypes)
	return out
}

// ParseEntityType accepts the canonical names plus the plural and underscore
// spellings used in URLs and older payloads.
func ParseEntityType(raw string) (EntityType, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "_", "-")
	switch v {
	case "campaign", "campaigns":
		return EntityCampaign, nil
	case "adventure", "adventures":
		return EntityAdventure, nil
	case "session", "sessions":
		return EntitySession, nil
	case "character", "characters", "npc", "pc":
		return EntityCharacter, nil
	case "location", "locations":
		return EntityLocation, nil
	case "quest", "quests":
		return EntityQuest, nil
	case "magic-item", "magic-items", "magicitem":
		return EntityMagicItem, nil
	}
	return "", fmt.Errorf("unknown entity type %q", raw)
}

// CarriesImages reports whether records of this type have an images column.
func (t EntityType) CarriesImages() bool {
	switch t {
	case EntityAdventure, EntitySession, EntityCharacter, EntityLocation, EntityQuest:
		return true
	}
	return false
}

// KeepsDiary reports whether records of this type own diary entries.
func (t EntityType) KeepsDiary() bool {
	switch t {
	case EntityCharacter, EntityLocation, EntityQuest:
		return true
	}
	return false
}

// EntityRef is a resolved polymorphic reference.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   uint       `json:"id"`
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.ID)
}

// EntitySummary is the display form of a referenced record.
type EntitySummary struct {
	Type       EntityType `json:"type"`
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	CampaignID *uint      `json:"campaignId,omitempty"`
}

func (s EntitySummary) Ref() EntityRef {
	return EntityRef{Type: s.Type, ID: s.ID}
}

// ContentType classifies imported wiki articles.
type ContentType string

const (
	ContentSpell      ContentType = "spell"
	ContentMonster    ContentType = "monster"
	ContentMagicItem  ContentType = "magic-item"
	ContentEquipment  ContentType = "equipment"
	ContentClass      ContentType = "class"
	ContentRace       ContentType = "race"
	ContentFeat       ContentType = "feat"
	ContentBackground ContentType = "background"
	ContentOther      ContentType = "other"
)

func ParseContentType(raw string) (ContentType, error) {
	switch v := ContentType(strings.ToLower(strings.TrimSpace(raw))); v {
	case ContentSpell, ContentMonster, ContentMagicItem, ContentEquipment,
		ContentClass, ContentRace, ContentFeat, ContentBackground, ContentOther:
		return v, nil
	}
	return "", fmt.Errorf("unknown content type %q", raw)
}

const (
	CharacterPC      = "pc"
	CharacterNPC     = "npc"
	CharacterMonster = "monster"
)
