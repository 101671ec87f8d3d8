package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/imagestore"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler   http.Handler
	imagesDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.Open(filepath.Join(dir, "campaignkeeper_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(context.Background(), db, zerolog.Nop()))

	imagesDir := filepath.Join(dir, "images")
	store, err := imagestore.New(imagesDir)
	require.NoError(t, err)

	service := application.NewService(sqlite.NewRepository(db, zerolog.Nop()), store, zerolog.Nop())
	return &testServer{
		handler:   NewRouter(service, Options{Log: zerolog.Nop(), ImagesDir: imagesDir, MaxUploadBytes: 1 << 20}),
		imagesDir: imagesDir,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *testServer) create(t *testing.T, path string, body any) uint {
	t.Helper()
	status, raw := s.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	var out struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotZero(t, out.ID)
	return out.ID
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func (e errorBody) fields() []string {
	out := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		out = append(out, d.Field)
	}
	return out
}

func seedCampaign(t *testing.T, s *testServer) uint {
	return s.create(t, "/api/campaigns", map[string]any{"title": "Curse of Strahd"})
}

func seedCharacter(t *testing.T, s *testServer, campaignID uint, name, kind string) uint {
	return s.create(t, "/api/characters", map[string]any{
		"campaignId":    campaignID,
		"name":          name,
		"characterType": kind,
	})
}

func TestWikiImportIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]any{
		"title":       "Fireball",
		"contentType": "spell",
		"wikiUrl":     "https://dnd5e.wikidot.com/spell:fireball",
		"parsedData":  map[string]any{"level": 3, "school": "evocation"},
	}

	status, raw := s.do(t, http.MethodPost, "/api/wiki-articles", payload)
	require.Equal(t, http.StatusCreated, status, string(raw))
	first := decode[map[string]any](t, raw)

	status, raw = s.do(t, http.MethodPost, "/api/wiki-articles", payload)
	require.Equal(t, http.StatusOK, status, string(raw))
	second := decode[map[string]any](t, raw)
	require.Equal(t, first["id"], second["id"])

	status, raw = s.do(t, http.MethodGet, "/api/wiki-articles?contentType=spell", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]map[string]any](t, raw), 1)

	// Without a url the title alone is the identity.
	status, _ = s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{"title": "Goblin", "contentType": "monster"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{"title": "Goblin", "contentType": "monster"})
	require.Equal(t, http.StatusOK, status)
}

func TestWikiImportValidation(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{"title": "  ", "contentType": "spell"})
	require.Equal(t, http.StatusBadRequest, status)
	body := decode[errorBody](t, raw)
	require.Equal(t, "validation failed", body.Error)
	require.Contains(t, body.fields(), "title")

	status, raw = s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{"title": "Fireball", "contentType": "cantrip"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, decode[errorBody](t, raw).fields(), "contentType")

	status, raw = s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{
		"title": "Wish", "contentType": "spell", "parsedData": map[string]any{"level": 12},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, decode[errorBody](t, raw).fields(), "parsedData")

	status, raw = s.do(t, http.MethodPost, "/api/wiki-articles", map[string]any{
		"title": "Wish", "contentType": "spell", "wikiUrl": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, decode[errorBody](t, raw).fields(), "wikiUrl")

	status, _ = s.do(t, http.MethodPost, "/api/wiki-articles", "{not json")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestWikiSummariesAndLinks(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	wizard := seedCharacter(t, s, campaignID, "Ezmerelda", "pc")

	spellID := s.create(t, "/api/wiki-spells", map[string]any{
		"title":      "Shield",
		"parsedData": map[string]any{"level": 1, "school": "abjuration", "ritual": false},
	})
	s.create(t, "/api/wiki-monsters", map[string]any{
		"title":      "Vampire Spawn",
		"parsedData": map[string]any{"size": "Medium", "type": "undead", "armorClass": 15, "hitPoints": 82, "challengeRating": "5"},
	})

	linkID := s.create(t, fmt.Sprintf("/api/wiki-articles/%d/entities", spellID), map[string]any{
		"entityType":       "character",
		"entityId":         wizard,
		"relationshipType": "prepared",
		"relationshipData": map[string]any{"isPrepared": true},
	})

	status, raw := s.do(t, http.MethodGet, "/api/wiki-spells", nil)
	require.Equal(t, http.StatusOK, status)
	spells := decode[[]map[string]any](t, raw)
	require.Len(t, spells, 1)
	require.Equal(t, float64(1), spells[0]["level"])
	require.Equal(t, "abjuration", spells[0]["school"])
	require.Len(t, spells[0]["entities"], 1)

	status, raw = s.do(t, http.MethodGet, "/api/wiki-monsters", nil)
	require.Equal(t, http.StatusOK, status)
	monsters := decode[[]map[string]any](t, raw)
	require.Len(t, monsters, 1)
	require.Equal(t, float64(82), monsters[0]["hitPoints"])
	require.Equal(t, "undead", monsters[0]["monsterType"])

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", wizard), nil)
	require.Equal(t, http.StatusOK, status)
	character := decode[map[string]any](t, raw)
	require.Len(t, character["wikiEntities"], 1)

	status, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/wiki-articles/%d/entities", spellID), map[string]any{
		"entityType": "character", "entityId": 9999,
	})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/wiki-articles/%d/entities/%d", spellID, linkID), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/wiki-articles/%d", spellID), nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[map[string]any](t, raw)["entities"])
}

func TestRelationLifecycle(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	ireena := seedCharacter(t, s, campaignID, "Ireena", "npc")
	ismark := seedCharacter(t, s, campaignID, "Ismark", "npc")
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")

	relation := map[string]any{
		"campaignId":       campaignID,
		"sourceEntityType": "character",
		"sourceEntityId":   ireena,
		"targetEntityType": "character",
		"targetEntityId":   ismark,
		"relationType":     "family",
	}
	relationID := s.create(t, "/api/relations", relation)

	status, _ := s.do(t, http.MethodPost, "/api/relations", relation)
	require.Equal(t, http.StatusConflict, status)

	self := map[string]any{
		"campaignId": campaignID, "relationType": "ally",
		"sourceEntityType": "character", "sourceEntityId": hero,
		"targetEntityType": "character", "targetEntityId": hero,
	}
	status, _ = s.do(t, http.MethodPost, "/api/relations", self)
	require.Equal(t, http.StatusBadRequest, status)

	missing := map[string]any{
		"campaignId": campaignID, "relationType": "ally",
		"sourceEntityType": "character", "sourceEntityId": hero,
		"targetEntityType": "location", "targetEntityId": 4242,
	}
	status, _ = s.do(t, http.MethodPost, "/api/relations", missing)
	require.Equal(t, http.StatusNotFound, status)

	s.create(t, fmt.Sprintf("/api/relations/%d/events", relationID), map[string]any{"date": "735-10-01", "trustDelta": 3, "fearDelta": -2})
	s.create(t, fmt.Sprintf("/api/relations/%d/events", relationID), map[string]any{"date": "735-10-02", "trustDelta": 4, "strengthDelta": 1})

	status, raw := s.do(t, http.MethodGet, fmt.Sprintf("/api/relations/%d", relationID), nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode[struct {
		Events []map[string]any `json:"events"`
		Totals struct {
			Strength int `json:"strength"`
			Trust    int `json:"trust"`
			Fear     int `json:"fear"`
		} `json:"totals"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	}](t, raw)
	require.Len(t, detail.Events, 2)
	require.Equal(t, 7, detail.Totals.Trust)
	require.Equal(t, -2, detail.Totals.Fear)
	require.Equal(t, 1, detail.Totals.Strength)
	require.Equal(t, "Ireena", detail.Source.Name)

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/campaigns/%d/relationships", campaignID), nil)
	require.Equal(t, http.StatusOK, status)
	overview := decode[struct {
		Relations []map[string]any `json:"relations"`
		NPCs      []map[string]any `json:"npcs"`
		PCs       []map[string]any `json:"pcs"`
	}](t, raw)
	require.Len(t, overview.Relations, 1)
	require.Len(t, overview.NPCs, 2)
	require.Len(t, overview.PCs, 1)

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/relations?entityType=character&entityId=%d", ismark), nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]map[string]any](t, raw), 1)
}

func TestDiaryEntries(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")
	other := seedCharacter(t, s, campaignID, "Other", "pc")
	base := fmt.Sprintf("/api/characters/%d/diary", hero)

	linked := []domain.LinkedEntityRef{
		{ID: "2", Type: "npc", Name: "Ireena"},
		{ID: "5", Type: "location", Name: "Village of Barovia"},
	}
	older := s.create(t, base, map[string]any{"description": "Arrived in Barovia", "date": "735-09-30"})
	newer := s.create(t, base, map[string]any{
		"description":    "Met Ireena",
		"date":           "735-10-01",
		"isImportant":    true,
		"linkedEntities": linked,
	})

	status, raw := s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	entries := decode[[]struct {
		ID             uint                     `json:"id"`
		LinkedEntities []domain.LinkedEntityRef `json:"linkedEntities"`
	}](t, raw)
	require.Len(t, entries, 2)
	require.Equal(t, newer, entries[0].ID)
	require.Equal(t, older, entries[1].ID)
	require.Equal(t, linked, entries[0].LinkedEntities)
	require.Equal(t, []domain.LinkedEntityRef{}, entries[1].LinkedEntities)

	status, _ = s.do(t, http.MethodPost, base, map[string]any{"description": "", "date": ""})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/characters/%d/diary/%d", other, older), map[string]any{"description": "x", "date": "y"})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodGet, "/api/characters/9999/diary", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, raw = s.do(t, http.MethodPut, fmt.Sprintf("%s/%d", base, older), map[string]any{"description": "Arrived in the mists", "date": "735-09-30"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Arrived in the mists", decode[map[string]any](t, raw)["description"])

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, older), nil)
	require.Equal(t, http.StatusNoContent, status)
}

func TestMagicItemAssignments(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")

	itemID := s.create(t, "/api/magic-items", map[string]any{
		"name": "Sunsword", "rarity": "legendary", "requiresAttunement": true,
	})
	assignPath := fmt.Sprintf("/api/magic-items/%d/assignments", itemID)
	assignmentID := s.create(t, assignPath, map[string]any{"entityType": "character", "entityId": hero, "source": "Castle Ravenloft"})

	status, _ := s.do(t, http.MethodPost, assignPath, map[string]any{"entityType": "character", "entityId": hero})
	require.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, assignPath, map[string]any{"entityType": "character", "entityId": 9999})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, assignPath, map[string]any{"entityType": "dragon", "entityId": hero})
	require.Equal(t, http.StatusBadRequest, status)

	status, raw := s.do(t, http.MethodGet, fmt.Sprintf("/api/magic-items/%d", itemID), nil)
	require.Equal(t, http.StatusOK, status)
	item := decode[struct {
		Owners []struct {
			Entity struct {
				Name string `json:"name"`
			} `json:"entity"`
		} `json:"owners"`
	}](t, raw)
	require.Len(t, item.Owners, 1)
	require.Equal(t, "Hero", item.Owners[0].Entity.Name)

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", hero), nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[map[string]any](t, raw)["magicItems"], 1)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", assignPath, assignmentID), nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/magic-items/%d", itemID), nil)
	require.Equal(t, http.StatusOK, status)

	s.create(t, assignPath, map[string]any{"entityType": "character", "entityId": hero})
	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/magic-items/%d", itemID), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, raw = s.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", hero), nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[map[string]any](t, raw)["magicItems"])
}

func TestDeletingCampaignRemovesContent(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")
	s.create(t, fmt.Sprintf("/api/characters/%d/diary", hero), map[string]any{"description": "d", "date": "1"})
	sessionID := s.create(t, "/api/sessions", map[string]any{"campaignId": campaignID, "title": "Session 1"})
	s.create(t, fmt.Sprintf("/api/sessions/%d/logs", sessionID), map[string]any{"content": "Fog rolls in"})

	status, _ := s.do(t, http.MethodDelete, fmt.Sprintf("/api/campaigns/%d", campaignID), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", hero), nil)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", sessionID), nil)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/campaigns/%d", campaignID), nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	seedCharacter(t, s, campaignID, "Strahd", "npc")
	seedCharacter(t, s, campaignID, "Hero", "pc")

	status, raw := s.do(t, http.MethodGet, `/api/characters?filter=character_type%20%3D%20%22npc%22`, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	list := decode[[]map[string]any](t, raw)
	require.Len(t, list, 1)
	require.Equal(t, "Strahd", list[0]["name"])

	status, raw = s.do(t, http.MethodGet, "/api/characters?filter=name%20%3D", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, decode[errorBody](t, raw).fields(), "filter")

	status, _ = s.do(t, http.MethodGet, "/api/characters?characterType=dragon", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, raw = s.do(t, http.MethodGet, "/api/characters?characterType=pc", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]map[string]any](t, raw), 1)
}

func (s *testServer) upload(t *testing.T, entityType string, entityID uint, filename, contentType string) (int, []byte) {
	t.Helper()
	return s.uploadParts(t, entityType, entityID, contentType, filename)
}

func (s *testServer) uploadParts(t *testing.T, entityType string, entityID uint, contentType string, filenames ...string) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("entityType", entityType))
	require.NoError(t, mw.WriteField("entityId", fmt.Sprint(entityID)))
	for _, filename := range filenames {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func TestSharedImageSurvivesUntilLastReference(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")
	villageID := s.create(t, "/api/locations", map[string]any{"campaignId": campaignID, "name": "Village of Barovia"})

	status, _ := s.upload(t, "character", hero, "notes.txt", "text/plain")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = s.upload(t, "campaign", campaignID, "map.png", "image/png")
	require.Equal(t, http.StatusBadRequest, status)

	status, raw := s.upload(t, "character", hero, "Portrait.png", "image/png")
	require.Equal(t, http.StatusCreated, status, string(raw))
	uploaded := decode[struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}](t, raw)
	require.Len(t, uploaded.Images, 1)
	url := uploaded.Images[0].URL
	require.True(t, strings.HasPrefix(url, "/images/character/"))
	file := filepath.Join(s.imagesDir, filepath.FromSlash(strings.TrimPrefix(url, "/images/")))

	status, _ = s.do(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/images/attach", map[string]any{"entityType": "location", "entityId": villageID, "url": url})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodDelete, "/api/images", map[string]any{"entityType": "character", "entityId": hero, "url": url})
	require.Equal(t, http.StatusOK, status)
	_, err := os.Stat(file)
	require.NoError(t, err)

	status, _ = s.do(t, http.MethodDelete, "/api/locations/"+fmt.Sprint(villageID), nil)
	require.Equal(t, http.StatusNoContent, status)
	_, err = os.Stat(file)
	require.True(t, os.IsNotExist(err))
}

func TestUploadPartsSharingAFileName(t *testing.T) {
	s := newTestServer(t)
	campaignID := seedCampaign(t, s)
	hero := seedCharacter(t, s, campaignID, "Hero", "pc")

	status, raw := s.uploadParts(t, "character", hero, "image/png", "portrait.png", "portrait.png", "portrait.png", "portrait.png", "portrait.png")
	require.Equal(t, http.StatusCreated, status, string(raw))
	uploaded := decode[struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}](t, raw)
	require.Len(t, uploaded.Images, 5)
	seen := map[string]bool{}
	for _, image := range uploaded.Images {
		require.False(t, seen[image.URL], image.URL)
		seen[image.URL] = true
		_, err := os.Stat(filepath.Join(s.imagesDir, filepath.FromSlash(strings.TrimPrefix(image.URL, "/images/"))))
		require.NoError(t, err)
	}

	status, raw = s.do(t, http.MethodGet, "/api/characters/"+fmt.Sprint(hero), nil)
	require.Equal(t, http.StatusOK, status)
	character := decode[struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}](t, raw)
	require.Len(t, character.Images, 5)
}

func TestUnknownRecordsAndIDs(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, http.MethodGet, "/api/campaigns/42", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.NotEmpty(t, decode[errorBody](t, raw).Error)

	status, _ = s.do(t, http.MethodGet, "/api/campaigns/abc", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/characters", map[string]any{"campaignId": 42, "name": "Lost", "characterType": "pc"})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/api/campaigns", map[string]any{"title": "X", "status": "sleeping"})
	require.Equal(t, http.StatusBadRequest, status)
}
