package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/imagestore"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	images *imagestore.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "service_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(context.Background(), db, zerolog.Nop()))
	store, err := imagestore.New(filepath.Join(dir, "images"))
	require.NoError(t, err)
	return fixture{svc: NewService(sqlite.NewRepository(db, zerolog.Nop()), store, zerolog.Nop()), images: store}
}

func (f fixture) campaign(t *testing.T, title string) domain.Campaign {
	t.Helper()
	c, err := f.svc.CreateCampaign(context.Background(), domain.Campaign{Title: title})
	require.NoError(t, err)
	return c
}

func (f fixture) character(t *testing.T, campaignID uint, name, kind string) domain.Character {
	t.Helper()
	c, err := f.svc.CreateCharacter(context.Background(), domain.Character{CampaignID: campaignID, Name: name, CharacterType: kind})
	require.NoError(t, err)
	return c
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	v, ok := domain.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	fields := make([]string, 0, len(v.Issues))
	for _, issue := range v.Issues {
		fields = append(fields, issue.Field)
	}
	require.Contains(t, fields, field)
}

func TestCharacterDefaults(t *testing.T) {
	f := newFixture(t)
	c := f.campaign(t, "Lost Mine of Phandelver")

	sildar := f.character(t, c.ID, "  Sildar Hallwinter ", "NPC")
	require.Equal(t, "Sildar Hallwinter", sildar.Name)
	require.Equal(t, "npc", sildar.CharacterType)
	require.Equal(t, 10, sildar.Abilities.Wisdom)
	require.NotNil(t, sildar.Classes)
	require.NotNil(t, sildar.Images)

	_, err := f.svc.CreateCharacter(context.Background(), domain.Character{CampaignID: c.ID, Name: "Glasstaff", CharacterType: "villain"})
	requireField(t, err, "characterType")

	_, err = f.svc.CreateCharacter(context.Background(), domain.Character{CampaignID: c.ID + 10, Name: "Nobody", CharacterType: "pc"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelationChecks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	strahd := f.campaign(t, "Curse of Strahd")
	other := f.campaign(t, "Hoard of the Dragon Queen")
	vampire := f.character(t, strahd.ID, "Strahd von Zarovich", "npc")
	ireena := f.character(t, strahd.ID, "Ireena Kolyana", "npc")
	leosin := f.character(t, other.ID, "Leosin Erlanthar", "npc")

	in := RelationInput{
		CampaignID:       strahd.ID,
		SourceEntityType: "character", SourceEntityID: vampire.ID,
		TargetEntityType: "character", TargetEntityID: vampire.ID,
		RelationType: "enemy",
	}
	_, err := f.svc.CreateRelation(ctx, in)
	requireField(t, err, "targetEntityId")

	in.TargetEntityID = leosin.ID
	_, err = f.svc.CreateRelation(ctx, in)
	requireField(t, err, "targetEntityId")

	in.TargetEntityID = ireena.ID + 100
	_, err = f.svc.CreateRelation(ctx, in)
	require.ErrorIs(t, err, domain.ErrNotFound)

	in.TargetEntityID = ireena.ID
	in.RelationType = "Rival"
	rel, err := f.svc.CreateRelation(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "rival", rel.RelationType)

	_, err = f.svc.CreateRelation(ctx, in)
	require.ErrorIs(t, err, domain.ErrConflict)

	in.Metadata = json.RawMessage(`[1]`)
	_, err = f.svc.UpdateRelation(ctx, rel.ID, in)
	requireField(t, err, "metadata")
}

func TestRelationTotalsAreUnclampedSums(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.campaign(t, "Storm King's Thunder")
	harshnag := f.character(t, c.ID, "Harshnag", "npc")
	hero := f.character(t, c.ID, "Tarn", "pc")

	rel, err := f.svc.CreateRelation(ctx, RelationInput{
		CampaignID:       c.ID,
		SourceEntityType: "character", SourceEntityID: hero.ID,
		TargetEntityType: "character", TargetEntityID: harshnag.ID,
		RelationType: "ally", Bidirectional: true,
	})
	require.NoError(t, err)

	for _, e := range []domain.RelationshipEvent{
		{Date: "1489-01-02", StrengthDelta: 80, TrustDelta: 60},
		{Date: "1489-02-11", StrengthDelta: 50, TrustDelta: -20, FearDelta: 5},
		{Date: "1489-03-07", RespectDelta: -3},
	} {
		_, err := f.svc.AddRelationEvent(ctx, rel.ID, e)
		require.NoError(t, err)
	}
	_, err = f.svc.AddRelationEvent(ctx, rel.ID, domain.RelationshipEvent{Date: "  "})
	requireField(t, err, "date")

	detail, err := f.svc.GetRelation(ctx, rel.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RelationTotals{Strength: 130, Trust: 40, Fear: 5, Respect: -3}, detail.Totals)
	require.Equal(t, "Tarn", detail.Source.Name)
	require.Equal(t, "Harshnag", detail.Target.Name)
	require.Len(t, detail.Events, 3)

	overview, err := f.svc.RelationshipOverview(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, overview.Relations, 1)
	require.Len(t, overview.NPCs, 1)
	require.Len(t, overview.PCs, 1)
}

func TestDiaryEntriesStayWithTheirOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.campaign(t, "Waterdeep: Dragon Heist")
	volo := f.character(t, c.ID, "Volothamp Geddarm", "npc")
	floon := f.character(t, c.ID, "Floon Blagmaar", "npc")
	voloRef := domain.EntityRef{Type: domain.EntityCharacter, ID: volo.ID}
	floonRef := domain.EntityRef{Type: domain.EntityCharacter, ID: floon.ID}

	entry, err := f.svc.AddDiaryEntry(ctx, voloRef, domain.DiaryEntry{Description: "Hired the party", Date: "1492-07-01"})
	require.NoError(t, err)
	require.Equal(t, voloRef.Type, entry.OwnerType)
	require.Empty(t, entry.LinkedEntities)

	_, err = f.svc.UpdateDiaryEntry(ctx, floonRef, entry.ID, domain.DiaryEntry{Description: "stolen", Date: "1492-07-02"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, f.svc.DeleteDiaryEntry(ctx, floonRef, entry.ID), domain.ErrNotFound)

	_, err = f.svc.AddDiaryEntry(ctx, voloRef, domain.DiaryEntry{
		Description: "Met at the Yawning Portal", Date: "1492-06-30",
		LinkedEntities: []domain.LinkedEntityRef{{ID: "3", Type: "location"}},
	})
	requireField(t, err, "linkedEntities")

	_, err = f.svc.ListDiary(ctx, domain.EntityRef{Type: domain.EntityCampaign, ID: c.ID})
	requireField(t, err, "ownerType")

	require.NoError(t, f.svc.DeleteDiaryEntry(ctx, voloRef, entry.ID))
	entries, err := f.svc.ListDiary(ctx, voloRef)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWikiImportAndProjections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	url := "https://forgottenrealms.fandom.com/wiki/Tarrasque"
	in := WikiImport{
		Title:      "Tarrasque",
		WikiURL:    &url,
		ParsedData: json.RawMessage(`{"size":"Gargantuan","type":"monstrosity","challengeRating":"30","armorClass":25,"hitPoints":676}`),
	}
	first, created, err := f.svc.ImportTyped(ctx, domain.ContentMonster, in)
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := f.svc.ImportWikiArticle(ctx, WikiImport{Title: "Tarrasque", ContentType: "monster", WikiURL: &url})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, again.ID)

	monsters, err := f.svc.ListMonsters(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Len(t, monsters, 1)
	require.Equal(t, "Gargantuan", monsters[0].Size)
	require.Equal(t, "monstrosity", monsters[0].MonsterType)
	require.Equal(t, int64(25), monsters[0].ArmorClass)
	require.Equal(t, int64(676), monsters[0].HitPoints)

	_, _, err = f.svc.ImportTyped(ctx, domain.ContentSpell, WikiImport{Title: "Wish", ParsedData: json.RawMessage(`{"level":12}`)})
	requireField(t, err, "parsedData")

	bad := "ftp://example.com/wiki/Wish"
	_, _, err = f.svc.ImportTyped(ctx, domain.ContentSpell, WikiImport{Title: "Wish", WikiURL: &bad})
	requireField(t, err, "wikiUrl")
}

func TestMagicItemAssignmentDefaultsCampaign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.campaign(t, "Tomb of Annihilation")
	artus := f.character(t, c.ID, "Artus Cimber", "npc")

	item, err := f.svc.CreateMagicItem(ctx, domain.MagicItem{Name: "Ring of Winter", Rarity: "artifact"})
	require.NoError(t, err)

	_, err = f.svc.AssignMagicItem(ctx, item.ID, AssignInput{EntityType: "magic-item", EntityID: item.ID})
	requireField(t, err, "entityType")

	assignment, err := f.svc.AssignMagicItem(ctx, item.ID, AssignInput{EntityType: "character", EntityID: artus.ID, Source: "inherited"})
	require.NoError(t, err)
	require.NotNil(t, assignment.CampaignID)
	require.Equal(t, c.ID, *assignment.CampaignID)

	detail, err := f.svc.GetCharacter(ctx, artus.ID)
	require.NoError(t, err)
	require.Len(t, detail.MagicItems, 1)
	require.Equal(t, "Ring of Winter", detail.MagicItems[0].Name)

	withOwners, err := f.svc.GetMagicItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, withOwners.Owners, 1)
	require.Equal(t, "Artus Cimber", withOwners.Owners[0].Entity.Name)

	require.ErrorIs(t, f.svc.UnassignMagicItem(ctx, item.ID+1, assignment.ID), domain.ErrNotFound)
	require.NoError(t, f.svc.UnassignMagicItem(ctx, item.ID, assignment.ID))
}

func TestDetachRemovesFileOnlyAfterLastReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.campaign(t, "Descent into Avernus")
	zariel := f.character(t, c.ID, "Zariel", "npc")
	lulu := f.character(t, c.ID, "Lulu", "npc")
	zarielRef := domain.EntityRef{Type: domain.EntityCharacter, ID: zariel.ID}
	luluRef := domain.EntityRef{Type: domain.EntityCharacter, ID: lulu.ID}

	image, err := f.svc.UploadImage(ctx, zarielRef, "Zariel Portrait.PNG", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(image.URL, imagestore.URLPrefix+"character/"))
	file := filepath.Join(f.images.Dir(), strings.TrimPrefix(image.URL, imagestore.URLPrefix))

	_, err = f.svc.AttachImage(ctx, luluRef, domain.Image{URL: image.URL})
	require.NoError(t, err)
	_, err = f.svc.AttachImage(ctx, luluRef, domain.Image{URL: "/images/character/never-uploaded.png"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.DetachImage(ctx, zarielRef, image.URL)
	require.NoError(t, err)
	_, err = os.Stat(file)
	require.NoError(t, err, "file still referenced by the second character")

	require.NoError(t, f.svc.DeleteCharacter(ctx, lulu.ID))
	_, err = os.Stat(file)
	require.True(t, errors.Is(err, os.ErrNotExist), "file should be gone, got %v", err)
}

func TestStatusesAndPrioritiesIgnoreCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.svc.CreateCampaign(ctx, domain.Campaign{Title: "Tomb of Annihilation", Status: " Active "})
	require.NoError(t, err)
	require.Equal(t, "active", c.Status)

	adventure, err := f.svc.CreateAdventure(ctx, domain.Adventure{CampaignID: c.ID, Title: "Port Nyanzaru", Status: "COMPLETED"})
	require.NoError(t, err)
	require.Equal(t, "completed", adventure.Status)

	quest, err := f.svc.CreateQuest(ctx, domain.Quest{CampaignID: c.ID, Title: "Find the Soulmonger", Status: "On-Hold", Priority: "High"})
	require.NoError(t, err)
	require.Equal(t, "on-hold", quest.Status)
	require.Equal(t, "high", quest.Priority)

	session, err := f.svc.CreateSession(ctx, domain.Session{CampaignID: c.ID, Title: "Session 1"})
	require.NoError(t, err)
	entry, err := f.svc.AddSessionLog(ctx, session.ID, domain.SessionLog{EntryType: "Combat", Content: "Ambushed by zombies"})
	require.NoError(t, err)
	require.Equal(t, "combat", entry.EntryType)

	_, err = f.svc.CreateQuest(ctx, domain.Quest{CampaignID: c.ID, Title: "Nope", Priority: "urgent"})
	requireField(t, err, "priority")
}
