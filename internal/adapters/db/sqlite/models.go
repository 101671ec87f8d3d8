package sqlite

import (
	"time"

	"gorm.io/datatypes"
)

type CampaignModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:'planning'"`
	StartDate   *string
	EndDate     *string
	Tags        datatypes.JSON
	GameEdition string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CampaignModel) TableName() string { return "campaigns" }

type AdventureModel struct {
	ID          uint   `gorm:"primaryKey"`
	CampaignID  uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:'planning'"`
	StartDate   *string
	EndDate     *string
	Images      datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AdventureModel) TableName() string { return "adventures" }

type SessionModel struct {
	ID          uint `gorm:"primaryKey"`
	CampaignID  uint `gorm:"not null;index"`
	AdventureID *uint
	Title       string `gorm:"not null"`
	Date        *string
	Text        string
	Images      datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SessionModel) TableName() string { return "sessions" }

type SessionLogModel struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID uint   `gorm:"not null;index"`
	EntryType string `gorm:"not null;default:'note'"`
	Timestamp string
	Tags      datatypes.JSON
	Content   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionLogModel) TableName() string { return "session_logs" }

type CharacterModel struct {
	ID                uint `gorm:"primaryKey"`
	CampaignID        uint `gorm:"not null;index"`
	AdventureID       *uint
	Name              string `gorm:"not null"`
	CharacterType     string `gorm:"not null"`
	Race              string
	Alignment         string
	Background        string
	Strength          int
	Dexterity         int
	Constitution      int
	Intelligence      int
	Wisdom            int
	Charisma          int
	HitPoints         int
	MaxHitPoints      int
	ArmorClass        int
	Speed             int
	Classes           datatypes.JSON
	Equipment         datatypes.JSON
	Spells            datatypes.JSON
	PersonalityTraits string
	Ideals            string
	Bonds             string
	Flaws             string
	Backstory         string
	Notes             string
	Images            datatypes.JSON
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CharacterModel) TableName() string { return "characters" }

type LocationModel struct {
	ID           uint `gorm:"primaryKey"`
	CampaignID   uint `gorm:"not null;index"`
	AdventureID  *uint
	Name         string `gorm:"not null"`
	LocationType string
	Description  string
	Notes        string
	Tags         datatypes.JSON
	Images       datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LocationModel) TableName() string { return "locations" }

type QuestModel struct {
	ID          uint `gorm:"primaryKey"`
	CampaignID  uint `gorm:"not null;index"`
	AdventureID *uint
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:'active'"`
	Priority    string `gorm:"not null;default:'medium'"`
	QuestType   string
	Reward      string
	Tags        datatypes.JSON
	Images      datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (QuestModel) TableName() string { return "quests" }

type MagicItemModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"not null"`
	Rarity             string `gorm:"not null"`
	ItemType           string
	Description        string
	Properties         datatypes.JSON
	RequiresAttunement bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (MagicItemModel) TableName() string { return "magic_items" }

type MagicItemAssignmentModel struct {
	ID          uint   `gorm:"primaryKey"`
	MagicItemID uint   `gorm:"not null;index:idx_assignments_unique,unique"`
	EntityType  string `gorm:"not null;index:idx_assignments_unique,unique"`
	EntityID    uint   `gorm:"not null;index:idx_assignments_unique,unique"`
	CampaignID  *uint
	Source      string
	Notes       string
	Metadata    datatypes.JSON
	AssignedAt  time.Time
}

func (MagicItemAssignmentModel) TableName() string { return "magic_item_assignments" }

type WikiArticleModel struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"not null;index"`
	ContentType  string `gorm:"not null;index"`
	WikiURL      *string
	RawContent   string
	ParsedData   datatypes.JSON
	ImportedFrom string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (WikiArticleModel) TableName() string { return "wiki_articles" }

type WikiArticleEntityModel struct {
	ID               uint   `gorm:"primaryKey"`
	WikiArticleID    uint   `gorm:"not null;index"`
	EntityType       string `gorm:"not null"`
	EntityID         uint   `gorm:"not null"`
	RelationshipType string `gorm:"not null;default:'reference'"`
	RelationshipData datatypes.JSON
	CreatedAt        time.Time
}

func (WikiArticleEntityModel) TableName() string { return "wiki_article_entities" }

type DiaryEntryModel struct {
	ID             uint   `gorm:"primaryKey"`
	OwnerType      string `gorm:"not null;index:idx_diary_owner"`
	OwnerID        uint   `gorm:"not null;index:idx_diary_owner"`
	Description    string `gorm:"not null"`
	Date           string `gorm:"not null"`
	LinkedEntities datatypes.JSON
	IsImportant    bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DiaryEntryModel) TableName() string { return "diary_entries" }

type RelationModel struct {
	ID               uint   `gorm:"primaryKey"`
	CampaignID       uint   `gorm:"not null;index"`
	SourceEntityType string `gorm:"not null"`
	SourceEntityID   uint   `gorm:"not null"`
	TargetEntityType string `gorm:"not null"`
	TargetEntityID   uint   `gorm:"not null"`
	RelationType     string `gorm:"not null"`
	Description      string
	Bidirectional    bool `gorm:"not null;default:false"`
	Metadata         datatypes.JSON
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (RelationModel) TableName() string { return "relations" }

type RelationshipEventModel struct {
	ID            uint `gorm:"primaryKey"`
	RelationID    uint `gorm:"not null;index"`
	Date          string
	Description   string
	StrengthDelta int
	TrustDelta    int
	FearDelta     int
	RespectDelta  int
	CreatedAt     time.Time
}

func (RelationshipEventModel) TableName() string { return "relationship_events" }
