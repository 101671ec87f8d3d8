package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "campaignkeeper_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(context.Background(), db, zerolog.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewRepository(db, zerolog.Nop())
}

func mustCampaign(t *testing.T, repo *Repository, title string) domain.Campaign {
	t.Helper()
	c, err := repo.CreateCampaign(context.Background(), domain.Campaign{Title: title, Status: "active"})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return c
}

func mustCharacter(t *testing.T, repo *Repository, campaignID uint, name string, images ...domain.Image) domain.Character {
	t.Helper()
	c, err := repo.CreateCharacter(context.Background(), domain.Character{CampaignID: campaignID, Name: name, CharacterType: "npc", Images: images})
	if err != nil {
		t.Fatalf("create character %s: %v", name, err)
	}
	return c
}

func TestFindWikiArticleMatchesTitleAndURL(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	url := "https://forgottenrealms.fandom.com/wiki/Beholder"
	created, err := repo.CreateWikiArticle(ctx, domain.WikiArticle{Title: "Beholder", ContentType: domain.ContentMonster, WikiURL: &url})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	found, err := repo.FindWikiArticle(ctx, "Beholder", &url)
	if err != nil || found.ID != created.ID {
		t.Fatalf("expected article %d by title and url, got %d (%v)", created.ID, found.ID, err)
	}
	if found, err := repo.FindWikiArticle(ctx, "Beholder", nil); err != nil || found.ID != created.ID {
		t.Fatalf("expected title-only lookup to match, got %v", err)
	}

	other := "https://example.com/wiki/Beholder"
	if _, err := repo.FindWikiArticle(ctx, "Beholder", &other); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for another url, got %v", err)
	}
	if string(found.ParsedData) != "{}" {
		t.Fatalf("expected empty parsed data object, got %s", found.ParsedData)
	}
}

func TestDeleteCampaignRemovesDependents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Princes of the Apocalypse")
	portrait := domain.Image{URL: "/images/character/aerisi.png", Filename: "aerisi.png"}
	aerisi := mustCharacter(t, repo, campaign.ID, "Aerisi Kalinoth", portrait)
	temple, err := repo.CreateLocation(ctx, domain.Location{CampaignID: campaign.ID, Name: "Fane of the Eye"})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	item, err := repo.CreateMagicItem(ctx, domain.MagicItem{Name: "Windvane", Rarity: "legendary"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := repo.CreateAssignment(ctx, domain.MagicItemAssignment{MagicItemID: item.ID, EntityType: domain.EntityCharacter, EntityID: aerisi.ID}); err != nil {
		t.Fatalf("assign item: %v", err)
	}
	article, err := repo.CreateWikiArticle(ctx, domain.WikiArticle{Title: "Aerisi Kalinoth", ContentType: domain.ContentOther})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if _, err := repo.CreateWikiLink(ctx, domain.WikiArticleEntity{WikiArticleID: article.ID, EntityType: domain.EntityCharacter, EntityID: aerisi.ID, RelationshipType: "reference"}); err != nil {
		t.Fatalf("link article: %v", err)
	}
	if _, err := repo.CreateDiaryEntry(ctx, domain.DiaryEntry{OwnerType: domain.EntityCharacter, OwnerID: aerisi.ID, Description: "Seen at Feathergale Spire", Date: "1491-04-02"}); err != nil {
		t.Fatalf("add diary entry: %v", err)
	}
	if _, err := repo.CreateRelation(ctx, domain.Relation{
		CampaignID: campaign.ID, RelationType: "leader",
		SourceEntityType: domain.EntityCharacter, SourceEntityID: aerisi.ID,
		TargetEntityType: domain.EntityLocation, TargetEntityID: temple.ID,
	}); err != nil {
		t.Fatalf("create relation: %v", err)
	}

	urls, err := repo.DeleteEntity(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: campaign.ID})
	if err != nil {
		t.Fatalf("delete campaign: %v", err)
	}
	if len(urls) != 1 || urls[0] != portrait.URL {
		t.Fatalf("expected portrait url back, got %v", urls)
	}

	if _, err := repo.GetCharacter(ctx, aerisi.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("character should be gone, got %v", err)
	}
	if _, err := repo.GetLocation(ctx, temple.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("location should be gone, got %v", err)
	}
	assignments, err := repo.ListAssignmentsForItems(ctx, []uint{item.ID})
	if err != nil || len(assignments) != 0 {
		t.Fatalf("expected no assignments, got %d (%v)", len(assignments), err)
	}
	links, err := repo.ListWikiLinksForArticles(ctx, []uint{article.ID})
	if err != nil || len(links) != 0 {
		t.Fatalf("expected no wiki links, got %d (%v)", len(links), err)
	}
	diary, err := repo.ListDiaryEntries(ctx, domain.EntityRef{Type: domain.EntityCharacter, ID: aerisi.ID})
	if err != nil || len(diary) != 0 {
		t.Fatalf("expected no diary entries, got %d (%v)", len(diary), err)
	}
	relations, err := repo.ListRelations(ctx, domain.RelationQuery{})
	if err != nil || len(relations) != 0 {
		t.Fatalf("expected no relations, got %d (%v)", len(relations), err)
	}

	// shared catalog records outlive the campaign
	if _, err := repo.GetMagicItem(ctx, item.ID); err != nil {
		t.Fatalf("magic item should survive: %v", err)
	}
	if _, err := repo.GetWikiArticle(ctx, article.ID); err != nil {
		t.Fatalf("wiki article should survive: %v", err)
	}

	if _, err := repo.DeleteEntity(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: campaign.ID}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestDuplicateAssignmentConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Out of the Abyss")
	hero := mustCharacter(t, repo, campaign.ID, "Sarith Kzekarit")
	item, err := repo.CreateMagicItem(ctx, domain.MagicItem{Name: "Cloak of Elvenkind", Rarity: "uncommon"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	assignment := domain.MagicItemAssignment{MagicItemID: item.ID, EntityType: domain.EntityCharacter, EntityID: hero.ID}
	if _, err := repo.CreateAssignment(ctx, assignment); err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if _, err := repo.CreateAssignment(ctx, assignment); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate assignment, got %v", err)
	}

	_, err = repo.CreateAssignment(ctx, domain.MagicItemAssignment{MagicItemID: item.ID + 100, EntityType: domain.EntityCharacter, EntityID: hero.ID})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected missing item to be not found, got %v", err)
	}
}

func TestDiaryEntriesNewestDateFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Curse of Strahd")
	ireena := mustCharacter(t, repo, campaign.ID, "Ireena Kolyana")
	owner := domain.EntityRef{Type: domain.EntityCharacter, ID: ireena.ID}

	var ids []uint
	for _, date := range []string{"735-09-01", "735-10-12", "735-10-12"} {
		entry, err := repo.CreateDiaryEntry(ctx, domain.DiaryEntry{OwnerType: owner.Type, OwnerID: owner.ID, Description: "entry " + date, Date: date})
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		ids = append(ids, entry.ID)
	}

	entries, err := repo.ListDiaryEntries(ctx, owner)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	want := []uint{ids[2], ids[1], ids[0]}
	for i, entry := range entries {
		if entry.ID != want[i] {
			t.Fatalf("position %d: want entry %d, got %d", i, want[i], entry.ID)
		}
		if entry.LinkedEntities == nil {
			t.Fatalf("linked entities should decode to an empty list")
		}
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
}

func TestImageReferencesAcrossRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Rime of the Frostmaiden")
	map1 := domain.Image{URL: "/images/location/ten_towns.png", Filename: "ten_towns.png"}
	bryn, err := repo.CreateLocation(ctx, domain.Location{CampaignID: campaign.ID, Name: "Bryn Shander", Images: []domain.Image{map1}})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	speaker := mustCharacter(t, repo, campaign.ID, "Duvessa Shane")
	speakerRef := domain.EntityRef{Type: domain.EntityCharacter, ID: speaker.ID}

	images, err := repo.AppendImage(ctx, speakerRef, map1)
	if err != nil || len(images) != 1 {
		t.Fatalf("append image: %v (%d images)", err, len(images))
	}
	if _, err := repo.AppendImage(ctx, speakerRef, map1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate image, got %v", err)
	}

	count, err := repo.CountImageReferences(ctx, map1.URL)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 references, got %d (%v)", count, err)
	}

	if _, err := repo.RemoveImage(ctx, domain.EntityRef{Type: domain.EntityLocation, ID: bryn.ID}, map1.URL); err != nil {
		t.Fatalf("remove image: %v", err)
	}
	count, err = repo.CountImageReferences(ctx, map1.URL)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 reference, got %d (%v)", count, err)
	}
	if _, err := repo.RemoveImage(ctx, domain.EntityRef{Type: domain.EntityLocation, ID: bryn.ID}, map1.URL); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found removing twice, got %v", err)
	}

	if _, err := repo.AppendImage(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: campaign.ID}, map1); err == nil {
		t.Fatalf("campaigns carry no images")
	}
}

func TestMalformedJSONColumnsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Tomb of Annihilation")
	artus := mustCharacter(t, repo, campaign.ID, "Artus Cimber")
	item, err := repo.CreateMagicItem(ctx, domain.MagicItem{Name: "Ring of Winter", Rarity: "artifact"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	assignment, err := repo.CreateAssignment(ctx, domain.MagicItemAssignment{MagicItemID: item.ID, EntityType: domain.EntityCharacter, EntityID: artus.ID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := repo.db.Exec("UPDATE characters SET classes = ?, images = ? WHERE id = ?", "not json", "{broken", artus.ID).Error; err != nil {
		t.Fatalf("corrupt character: %v", err)
	}
	if err := repo.db.Exec("UPDATE magic_item_assignments SET metadata = ? WHERE id = ?", "[1,2]", assignment.ID).Error; err != nil {
		t.Fatalf("corrupt assignment: %v", err)
	}

	got, err := repo.GetCharacter(ctx, artus.ID)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if got.Classes == nil || len(got.Classes) != 0 || len(got.Images) != 0 {
		t.Fatalf("expected empty lists, got classes=%v images=%v", got.Classes, got.Images)
	}

	gotAssignment, err := repo.GetAssignment(ctx, assignment.ID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if string(gotAssignment.Metadata) != "{}" {
		t.Fatalf("expected metadata to read as {}, got %s", gotAssignment.Metadata)
	}

	count, err := repo.CountImageReferences(ctx, "/images/character/anything.png")
	if err != nil || count != 0 {
		t.Fatalf("count over malformed images should be 0, got %d (%v)", count, err)
	}
}

func TestResolveEntitiesSkipsMissingRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	campaign := mustCampaign(t, repo, "Waterdeep: Dragon Heist")
	renaer := mustCharacter(t, repo, campaign.ID, "Renaer Neverember")

	refs := []domain.EntityRef{
		{Type: domain.EntityCharacter, ID: renaer.ID},
		{Type: domain.EntityCharacter, ID: renaer.ID + 50},
		{Type: domain.EntityCampaign, ID: campaign.ID},
	}
	resolved, err := repo.ResolveEntities(ctx, refs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved entities, got %d", len(resolved))
	}
	summary := resolved[refs[0]]
	if summary.Name != "Renaer Neverember" || summary.CampaignID == nil || *summary.CampaignID != campaign.ID {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if resolved[refs[2]].Name != "Waterdeep: Dragon Heist" {
		t.Fatalf("campaign should resolve by title, got %+v", resolved[refs[2]])
	}
}

func TestDSNKeepsRequiredPragmas(t *testing.T) {
	cases := map[string]string{
		"ck.db":                              "ck.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		"ck.db?_pragma=journal_mode(wal)":    "ck.db?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		"ck.db?_pragma=busy_timeout(100)":    "ck.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)",
		"file:ck.db?_pragma=foreign_keys(1)": "file:ck.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}
	for in, want := range cases {
		if got := dsnFor(in); got != want {
			t.Fatalf("dsnFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForeignKeysOnWithCallerQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaignkeeper_query.db") + "?_pragma=journal_mode(wal)"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(context.Background(), db, zerolog.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}

	repo := NewRepository(db, zerolog.Nop())
	ctx := context.Background()
	campaign := mustCampaign(t, repo, "Princes of the Apocalypse")
	hero := mustCharacter(t, repo, campaign.ID, "Bruenor")
	if _, err := repo.DeleteEntity(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: campaign.ID}); err != nil {
		t.Fatalf("delete campaign: %v", err)
	}
	if _, err := repo.GetCharacter(ctx, hero.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("character after campaign delete: got %v, want ErrNotFound", err)
	}
}
