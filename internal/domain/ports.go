package domain

import (
	"context"
	"io"
)

type CharacterQuery struct {
	ListQuery
	CharacterType string
}

type WikiQuery struct {
	ListQuery
	ContentType ContentType
}

type RelationQuery struct {
	CampaignID *uint
	Entity     *EntityRef
	Limit      int
}

// Repository is the storage port. Implementations translate missing rows to
// ErrNotFound and uniqueness violations to ErrConflict.
type Repository interface {
	CreateCampaign(ctx context.Context, value Campaign) (Campaign, error)
	UpdateCampaign(ctx context.Context, value Campaign) (Campaign, error)
	GetCampaign(ctx context.Context, id uint) (Campaign, error)
	ListCampaigns(ctx context.Context, query ListQuery) ([]Campaign, error)

	CreateAdventure(ctx context.Context, value Adventure) (Adventure, error)
	UpdateAdventure(ctx context.Context, value Adventure) (Adventure, error)
	GetAdventure(ctx context.Context, id uint) (Adventure, error)
	ListAdventures(ctx context.Context, query ListQuery) ([]Adventure, error)

	CreateSession(ctx context.Context, value Session) (Session, error)
	UpdateSession(ctx context.Context, value Session) (Session, error)
	GetSession(ctx context.Context, id uint) (Session, error)
	ListSessions(ctx context.Context, query ListQuery) ([]Session, error)

	CreateSessionLog(ctx context.Context, value SessionLog) (SessionLog, error)
	UpdateSessionLog(ctx context.Context, value SessionLog) (SessionLog, error)
	GetSessionLog(ctx context.Context, id uint) (SessionLog, error)
	ListSessionLogs(ctx context.Context, sessionID uint) ([]SessionLog, error)
	DeleteSessionLog(ctx context.Context, id uint) error

	CreateCharacter(ctx context.Context, value Character) (Character, error)
	UpdateCharacter(ctx context.Context, value Character) (Character, error)
	GetCharacter(ctx context.Context, id uint) (Character, error)
	ListCharacters(ctx context.Context, query CharacterQuery) ([]Character, error)

	CreateLocation(ctx context.Context, value Location) (Location, error)
	UpdateLocation(ctx context.Context, value Location) (Location, error)
	GetLocation(ctx context.Context, id uint) (Location, error)
	ListLocations(ctx context.Context, query ListQuery) ([]Location, error)

	CreateQuest(ctx context.Context, value Quest) (Quest, error)
	UpdateQuest(ctx context.Context, value Quest) (Quest, error)
	GetQuest(ctx context.Context, id uint) (Quest, error)
	ListQuests(ctx context.Context, query ListQuery) ([]Quest, error)

	CreateMagicItem(ctx context.Context, value MagicItem) (MagicItem, error)
	UpdateMagicItem(ctx context.Context, value MagicItem) (MagicItem, error)
	GetMagicItem(ctx context.Context, id uint) (MagicItem, error)
	ListMagicItems(ctx context.Context, query ListQuery) ([]MagicItem, error)
	ListMagicItemsByIDs(ctx context.Context, ids []uint) ([]MagicItem, error)

	CreateAssignment(ctx context.Context, value MagicItemAssignment) (MagicItemAssignment, error)
	GetAssignment(ctx context.Context, id uint) (MagicItemAssignment, error)
	DeleteAssignment(ctx context.Context, id uint) error
	ListAssignmentsForItems(ctx context.Context, itemIDs []uint) ([]MagicItemAssignment, error)
	ListAssignmentsForEntities(ctx context.Context, entityType EntityType, entityIDs []uint) ([]MagicItemAssignment, error)

	FindWikiArticle(ctx context.Context, title string, wikiURL *string) (WikiArticle, error)
	CreateWikiArticle(ctx context.Context, value WikiArticle) (WikiArticle, error)
	UpdateWikiArticle(ctx context.Context, value WikiArticle) (WikiArticle, error)
	GetWikiArticle(ctx context.Context, id uint) (WikiArticle, error)
	ListWikiArticles(ctx context.Context, query WikiQuery) ([]WikiArticle, error)
	ListWikiArticlesByIDs(ctx context.Context, ids []uint) ([]WikiArticle, error)
	DeleteWikiArticle(ctx context.Context, id uint) error

	CreateWikiLink(ctx context.Context, value WikiArticleEntity) (WikiArticleEntity, error)
	GetWikiLink(ctx context.Context, id uint) (WikiArticleEntity, error)
	DeleteWikiLink(ctx context.Context, id uint) error
	ListWikiLinksForArticles(ctx context.Context, articleIDs []uint) ([]WikiArticleEntity, error)
	ListWikiLinksForEntity(ctx context.Context, ref EntityRef) ([]WikiArticleEntity, error)

	CreateDiaryEntry(ctx context.Context, value DiaryEntry) (DiaryEntry, error)
	UpdateDiaryEntry(ctx context.Context, value DiaryEntry) (DiaryEntry, error)
	GetDiaryEntry(ctx context.Context, id uint) (DiaryEntry, error)
	ListDiaryEntries(ctx context.Context, owner EntityRef) ([]DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, id uint) error

	CreateRelation(ctx context.Context, value Relation) (Relation, error)
	UpdateRelation(ctx context.Context, value Relation) (Relation, error)
	GetRelation(ctx context.Context, id uint) (Relation, error)
	ListRelations(ctx context.Context, query RelationQuery) ([]Relation, error)
	DeleteRelation(ctx context.Context, id uint) error

	CreateRelationEvent(ctx context.Context, value RelationshipEvent) (RelationshipEvent, error)
	ListRelationEvents(ctx context.Context, relationID uint) ([]RelationshipEvent, error)
	DeleteRelationEvent(ctx context.Context, relationID, eventID uint) error

	// ResolveEntities loads summaries with one query per entity type.
	// References whose row is gone are absent from the result.
	ResolveEntities(ctx context.Context, refs []EntityRef) (map[EntityRef]EntitySummary, error)

	// DeleteEntity removes the record and every polymorphic row that points at
	// it (or at its children, for campaigns) in one transaction. It returns the
	// image urls carried by the removed rows.
	DeleteEntity(ctx context.Context, ref EntityRef) ([]string, error)

	AppendImage(ctx context.Context, ref EntityRef, image Image) ([]Image, error)
	RemoveImage(ctx context.Context, ref EntityRef, url string) ([]Image, error)
	CountImageReferences(ctx context.Context, url string) (int64, error)
}

// ImageStore keeps uploaded image files. URLs it returns are the identity
// stored in images columns.
type ImageStore interface {
	Save(ctx context.Context, ref EntityRef, filename string, body io.Reader) (Image, error)
	Remove(ctx context.Context, url string) error
}
