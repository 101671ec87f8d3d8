package main

import (
	"context"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	sqliteadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/db/sqlite"
	httpadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/http"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/imagestore"
	rpcadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *application.Service {
	t.Helper()
	dir := t.TempDir()
	db, err := sqliteadapter.Open(filepath.Join(dir, "cli_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqliteadapter.RunMigrations(context.Background(), db, zerolog.Nop()))
	store, err := imagestore.New(filepath.Join(dir, "images"))
	require.NoError(t, err)
	return application.NewService(sqliteadapter.NewRepository(db, zerolog.Nop()), store, zerolog.Nop())
}

func transports(t *testing.T) map[string]cliConfig {
	t.Helper()
	service := newService(t)

	srv := httptest.NewServer(httpadapter.NewRouter(service, httpadapter.Options{Log: zerolog.Nop(), MaxUploadBytes: 1 << 20}))
	t.Cleanup(srv.Close)

	sockDir, err := os.MkdirTemp("", "ckcli")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(sockDir) })
	sock := filepath.Join(sockDir, "rpc.sock")
	rpcSrv, err := rpcadapter.Start(sock, service, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rpcSrv.Close() })

	return map[string]cliConfig{
		"http": {Transport: "http", Server: srv.URL},
		"uds":  {Transport: "uds", Socket: sock},
	}
}

func TestOpsOverBothTransports(t *testing.T) {
	for name, cfg := range transports(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var campaign domain.Campaign
			require.NoError(t, doCampaignsCreate(ctx, cfg, domain.Campaign{Title: "Storm King's Thunder " + name}, &campaign))
			require.NotZero(t, campaign.ID)

			var campaigns []domain.Campaign
			require.NoError(t, doCampaignsList(ctx, cfg, listFlags{Query: name}, &campaigns))
			require.Len(t, campaigns, 1)

			article := map[string]any{"title": "Frost Giant " + name, "contentType": "monster"}
			var first, second wikiImportResult
			require.NoError(t, doWikiImport(ctx, cfg, article, &first))
			require.True(t, first.Created)
			require.NoError(t, doWikiImport(ctx, cfg, article, &second))
			require.False(t, second.Created)
			require.Equal(t, first.Article.ID, second.Article.ID)

			var characters []domain.Character
			require.NoError(t, doCharactersList(ctx, cfg, listFlags{CampaignID: &campaign.ID}, "npc", &characters))
			require.Empty(t, characters)

			err := doDiaryList(ctx, cfg, "character", 9999, &[]domain.DiaryEntry{})
			require.Error(t, err)
		})
	}
}

func TestDiaryPath(t *testing.T) {
	path, err := diaryPath("quests", 7)
	require.NoError(t, err)
	require.Equal(t, "/api/quests/7/diary", path)

	_, err = diaryPath("campaign", 1)
	require.Error(t, err)
}

func TestWithQueryDropsEmptyValues(t *testing.T) {
	values := url.Values{}
	values.Set("q", "")
	require.Equal(t, "/api/campaigns", withQuery("/api/campaigns", values))

	values.Set("filter", `status = "active"`)
	require.Equal(t, "/api/campaigns?filter=status+%3D+%22active%22", withQuery("/api/campaigns", values))
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, defaultTransport, cfg.Transport)

	cfg.Transport = "http"
	cfg.Server = "http://10.0.0.5:8080"
	require.NoError(t, saveConfig(cfg))

	loaded, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, "http", loaded.Transport)
	require.Equal(t, "http://10.0.0.5:8080", loaded.Server)
	require.Equal(t, defaultSocket, loaded.Socket)

	cfg.Transport = "carrier-pigeon"
	require.Error(t, saveConfig(cfg))
}
