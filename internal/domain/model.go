package domain

import (
	"encoding/json"
	"time"
)

type Image struct {
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Campaign struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"startDate,omitempty"`
	EndDate     *string   `json:"endDate,omitempty"`
	Tags        []string  `json:"tags"`
	GameEdition string    `json:"gameEdition"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Adventure struct {
	ID          uint      `json:"id"`
	CampaignID  uint      `json:"campaignId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"startDate,omitempty"`
	EndDate     *string   `json:"endDate,omitempty"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Session struct {
	ID          uint      `json:"id"`
	CampaignID  uint      `json:"campaignId"`
	AdventureID *uint     `json:"adventureId,omitempty"`
	Title       string    `json:"title"`
	Date        *string   `json:"date,omitempty"`
	Text        string    `json:"text"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SessionLog struct {
	ID        uint      `json:"id"`
	SessionID uint      `json:"sessionId"`
	EntryType string    `json:"entryType"`
	Timestamp string    `json:"timestamp"`
	Tags      []string  `json:"tags"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CharacterClass struct {
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

type Character struct {
	ID                uint             `json:"id"`
	CampaignID        uint             `json:"campaignId"`
	AdventureID       *uint            `json:"adventureId,omitempty"`
	Name              string           `json:"name"`
	CharacterType     string           `json:"characterType"`
	Race              string           `json:"race"`
	Alignment         string           `json:"alignment"`
	Background        string           `json:"background"`
	Abilities         AbilityScores    `json:"abilities"`
	HitPoints         int              `json:"hitPoints"`
	MaxHitPoints      int              `json:"maxHitPoints"`
	ArmorClass        int              `json:"armorClass"`
	Speed             int              `json:"speed"`
	Classes           []CharacterClass `json:"classes"`
	Equipment         []string         `json:"equipment"`
	Spells            []string         `json:"spells"`
	PersonalityTraits string           `json:"personalityTraits"`
	Ideals            string           `json:"ideals"`
	Bonds             string           `json:"bonds"`
	Flaws             string           `json:"flaws"`
	Backstory         string           `json:"backstory"`
	Notes             string           `json:"notes"`
	Images            []Image          `json:"images"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// CharacterDetail is a character together with everything linked to it.
type CharacterDetail struct {
	Character
	MagicItems   []HeldMagicItem `json:"magicItems"`
	WikiEntities []LinkedArticle `json:"wikiEntities"`
}

type Location struct {
	ID           uint      `json:"id"`
	CampaignID   uint      `json:"campaignId"`
	AdventureID  *uint     `json:"adventureId,omitempty"`
	Name         string    `json:"name"`
	LocationType string    `json:"locationType"`
	Description  string    `json:"description"`
	Notes        string    `json:"notes"`
	Tags         []string  `json:"tags"`
	Images       []Image   `json:"images"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Quest struct {
	ID          uint      `json:"id"`
	CampaignID  uint      `json:"campaignId"`
	AdventureID *uint     `json:"adventureId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	QuestType   string    `json:"questType"`
	Reward      string    `json:"reward"`
	Tags        []string  `json:"tags"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MagicItem struct {
	ID                 uint            `json:"id"`
	Name               string          `json:"name"`
	Rarity             string          `json:"rarity"`
	ItemType           string          `json:"itemType"`
	Description        string          `json:"description"`
	Properties         json.RawMessage `json:"properties"`
	RequiresAttunement bool            `json:"requiresAttunement"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type MagicItemAssignment struct {
	ID          uint            `json:"id"`
	MagicItemID uint            `json:"magicItemId"`
	EntityType  EntityType      `json:"entityType"`
	EntityID    uint            `json:"entityId"`
	CampaignID  *uint           `json:"campaignId,omitempty"`
	Source      string          `json:"source"`
	Notes       string          `json:"notes"`
	Metadata    json.RawMessage `json:"metadata"`
	AssignedAt  time.Time       `json:"assignedAt"`
}

// HeldMagicItem is a magic item as seen from the entity holding it.
type HeldMagicItem struct {
	MagicItem
	Assignment MagicItemAssignment `json:"assignment"`
}

// Owner is one resolved holder of a magic item.
type Owner struct {
	AssignmentID uint            `json:"assignmentId"`
	Entity       EntitySummary   `json:"entity"`
	CampaignID   *uint           `json:"campaignId,omitempty"`
	Source       string          `json:"source"`
	Notes        string          `json:"notes"`
	Metadata     json.RawMessage `json:"metadata"`
	AssignedAt   time.Time       `json:"assignedAt"`
}

type MagicItemWithOwners struct {
	MagicItem
	Owners []Owner `json:"owners"`
}

type WikiArticle struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	ContentType  ContentType     `json:"contentType"`
	WikiURL      *string         `json:"wikiUrl,omitempty"`
	RawContent   string          `json:"rawContent"`
	ParsedData   json.RawMessage `json:"parsedData"`
	ImportedFrom string          `json:"importedFrom"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type WikiArticleEntity struct {
	ID               uint             `json:"id"`
	WikiArticleID    uint             `json:"wikiArticleId"`
	EntityType       EntityType       `json:"entityType"`
	EntityID         uint             `json:"entityId"`
	RelationshipType string           `json:"relationshipType"`
	RelationshipData RelationshipData `json:"relationshipData"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// RelationshipData holds the flags carried by a wiki article link.
type RelationshipData struct {
	IsPrepared *bool  `json:"isPrepared,omitempty"`
	IsKnown    *bool  `json:"isKnown,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// LinkedEntity is one resolved target of a wiki article link.
type LinkedEntity struct {
	LinkID           uint             `json:"linkId"`
	Entity           EntitySummary    `json:"entity"`
	RelationshipType string           `json:"relationshipType"`
	RelationshipData RelationshipData `json:"relationshipData"`
}

type WikiArticleWithEntities struct {
	WikiArticle
	Entities []LinkedEntity `json:"entities"`
}

// LinkedArticle is a wiki article as seen from the linked entity.
type LinkedArticle struct {
	LinkID           uint             `json:"linkId"`
	ArticleID        uint             `json:"articleId"`
	Title            string           `json:"title"`
	ContentType      ContentType      `json:"contentType"`
	RelationshipType string           `json:"relationshipType"`
	RelationshipData RelationshipData `json:"relationshipData"`
}

// MonsterSummary and SpellSummary are projections of parsed wiki data.
type MonsterSummary struct {
	ID              uint           `json:"id"`
	Title           string         `json:"title"`
	WikiURL         *string        `json:"wikiUrl,omitempty"`
	Size            string         `json:"size"`
	MonsterType     string         `json:"monsterType"`
	ChallengeRating string         `json:"challengeRating"`
	ArmorClass      int64          `json:"armorClass"`
	HitPoints       int64          `json:"hitPoints"`
	Entities        []LinkedEntity `json:"entities"`
}

type SpellSummary struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	WikiURL  *string        `json:"wikiUrl,omitempty"`
	Level    int64          `json:"level"`
	School   string         `json:"school"`
	Ritual   bool           `json:"ritual"`
	Entities []LinkedEntity `json:"entities"`
}

type LinkedEntityRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type DiaryEntry struct {
	ID             uint              `json:"id"`
	OwnerType      EntityType        `json:"ownerType"`
	OwnerID        uint              `json:"ownerId"`
	Description    string            `json:"description"`
	Date           string            `json:"date"`
	LinkedEntities []LinkedEntityRef `json:"linkedEntities"`
	IsImportant    bool              `json:"isImportant"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type Relation struct {
	ID               uint            `json:"id"`
	CampaignID       uint            `json:"campaignId"`
	SourceEntityType EntityType      `json:"sourceEntityType"`
	SourceEntityID   uint            `json:"sourceEntityId"`
	TargetEntityType EntityType      `json:"targetEntityType"`
	TargetEntityID   uint            `json:"targetEntityId"`
	RelationType     string          `json:"relationType"`
	Description      string          `json:"description"`
	Bidirectional    bool            `json:"bidirectional"`
	Metadata         json.RawMessage `json:"metadata"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type RelationshipEvent struct {
	ID            uint      `json:"id"`
	RelationID    uint      `json:"relationId"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	StrengthDelta int       `json:"strengthDelta"`
	TrustDelta    int       `json:"trustDelta"`
	FearDelta     int       `json:"fearDelta"`
	RespectDelta  int       `json:"respectDelta"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RelationTotals is the plain sum of event deltas. It is never stored.
type RelationTotals struct {
	Strength int `json:"strength"`
	Trust    int `json:"trust"`
	Fear     int `json:"fear"`
	Respect  int `json:"respect"`
}

type RelationDetail struct {
	Relation
	Source EntitySummary       `json:"source"`
	Target EntitySummary       `json:"target"`
	Events []RelationshipEvent `json:"events"`
	Totals RelationTotals      `json:"totals"`
}

type RelationshipOverview struct {
	CampaignID uint        `json:"campaignId"`
	Relations  []Relation  `json:"relations"`
	NPCs       []Character `json:"npcs"`
	PCs        []Character `json:"pcs"`
}

type ListQuery struct {
	CampaignID *uint
	Query      string
	Filter     string
	Limit      int
}
