package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/db/sqlite"
	httpadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/http"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/imagestore"
	rpcadapter "github.com/atvirokodosprendimai/campaignkeeper/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/platform/config"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/platform/logging"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "campaignkeeper",
		Usage: "Tabletop campaign manager server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			configCommand(),
			campaignsCommand(),
			charactersCommand(),
			wikiCommand(),
			itemsCommand(),
			relationsCommand(),
			diaryCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP and JSON-RPC servers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (CAMPAIGNKEEPER_ADDR)"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path (CAMPAIGNKEEPER_RPC_SOCKET)"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path (CAMPAIGNKEEPER_DB_PATH)"},
			&cli.StringFlag{Name: "images-dir", Usage: "uploaded image directory (CAMPAIGNKEEPER_IMAGES_DIR)"},
			&cli.Int64Flag{Name: "max-upload-mb", Usage: "per-request upload limit in MiB (CAMPAIGNKEEPER_MAX_UPLOAD_MB)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json (LOG_FORMAT)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			if c.IsSet("images-dir") {
				cfg.ImagesDir = c.String("images-dir")
			}
			if c.IsSet("max-upload-mb") {
				if c.Int64("max-upload-mb") <= 0 {
					return fmt.Errorf("--max-upload-mb must be positive")
				}
				cfg.MaxUploadMB = c.Int64("max-upload-mb")
			}
			if c.IsSet("log-level") {
				cfg.LogLevel = c.String("log-level")
			}
			if c.IsSet("log-format") {
				cfg.LogFormat = c.String("log-format")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Server) error {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(ctx, db, logger); err != nil {
		return err
	}
	images, err := imagestore.New(cfg.ImagesDir)
	if err != nil {
		return err
	}

	repo := sqliteadapter.NewRepository(db, logger)
	service := application.NewService(repo, images, logger)

	router := httpadapter.NewRouter(service, httpadapter.Options{
		Log:            logger,
		ImagesDir:      images.Dir(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.RPCSocket, service, logger)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.Info().Str("socket", cfg.RPCSocket).Msg("json-rpc listening")

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("db", cfg.DBPath).Str("images", images.Dir()).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Client connection settings",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Store transport, server URL or socket path",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Usage: "uds or http"},
					&cli.StringFlag{Name: "server", Usage: "HTTP base URL"},
					&cli.StringFlag{Name: "socket", Usage: "JSON-RPC unix socket path"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if c.IsSet("transport") {
						cfg.Transport = c.String("transport")
					}
					if c.IsSet("server") {
						cfg.Server = c.String("server")
					}
					if c.IsSet("socket") {
						cfg.Socket = c.String("socket")
					}
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Println("saved")
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Show client settings",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(cfg)
					}
					printKV([][2]string{{"transport", cfg.Transport}, {"server", cfg.Server}, {"socket", cfg.Socket}})
					return nil
				},
			},
		},
	}
}

func listFlagSet() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{Name: "campaign-id"},
		&cli.StringFlag{Name: "q", Usage: "substring search"},
		&cli.StringFlag{Name: "filter", Usage: `filter expression, e.g. status = "active"`},
		&cli.IntFlag{Name: "limit"},
		jsonFlag(),
	}
}

func listFlagsFrom(c *cli.Command) listFlags {
	out := listFlags{Query: c.String("q"), Filter: c.String("filter"), Limit: c.Int("limit")}
	if c.IsSet("campaign-id") {
		v := c.Uint("campaign-id")
		out.CampaignID = &v
	}
	return out
}

func campaignsCommand() *cli.Command {
	return &cli.Command{
		Name:  "campaigns",
		Usage: "Campaign commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List campaigns",
				Flags: listFlagSet(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Campaign
					if err := doCampaignsList(ctx, cfg, listFlagsFrom(c), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printCampaigns(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create campaign",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "status", Value: "active"},
					&cli.StringFlag{Name: "edition", Usage: "game edition, e.g. 5e"},
					&cli.StringFlag{Name: "start-date", Usage: "YYYY-MM-DD"},
					&cli.StringSliceFlag{Name: "tag"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := domain.Campaign{
						Title:       c.String("title"),
						Description: c.String("description"),
						Status:      c.String("status"),
						GameEdition: c.String("edition"),
						Tags:        c.StringSlice("tag"),
					}
					if c.IsSet("start-date") {
						v := c.String("start-date")
						in.StartDate = &v
					}
					var out domain.Campaign
					if err := doCampaignsCreate(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printCampaigns([]domain.Campaign{out})
					return nil
				},
			},
		},
	}
}

func charactersCommand() *cli.Command {
	return &cli.Command{
		Name:  "characters",
		Usage: "Character commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List characters",
				Flags: append(listFlagSet(), &cli.StringFlag{Name: "type", Usage: "pc or npc"}),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Character
					if err := doCharactersList(ctx, cfg, listFlagsFrom(c), c.String("type"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printCharacters(out)
					return nil
				},
			},
		},
	}
}

func wikiCommand() *cli.Command {
	return &cli.Command{
		Name:  "wiki",
		Usage: "Wiki article commands",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import a wiki article; an existing match is returned unchanged",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "content-type", Value: "other", Usage: "spell, monster, magic-item, equipment, class, race, feat, background or other"},
					&cli.StringFlag{Name: "url", Usage: "source wiki URL"},
					&cli.StringFlag{Name: "content", Usage: "raw article text"},
					&cli.StringFlag{Name: "parsed", Usage: "parsed data as a JSON object"},
					&cli.StringFlag{Name: "imported-from", Value: "cli"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"title":        c.String("title"),
						"contentType":  c.String("content-type"),
						"rawContent":   c.String("content"),
						"importedFrom": c.String("imported-from"),
					}
					if c.IsSet("url") {
						in["wikiUrl"] = c.String("url")
					}
					if parsed := c.String("parsed"); parsed != "" {
						if !gjson.Valid(parsed) || !gjson.Parse(parsed).IsObject() {
							return fmt.Errorf("--parsed must be a JSON object")
						}
						in["parsedData"] = json.RawMessage(parsed)
					}
					var out wikiImportResult
					if err := doWikiImport(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printWikiImport(out)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List wiki articles",
				Flags: append(listFlagSet(), &cli.StringFlag{Name: "content-type"}),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.WikiArticleWithEntities
					if err := doWikiList(ctx, cfg, listFlagsFrom(c), c.String("content-type"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printWikiArticles(out)
					return nil
				},
			},
		},
	}
}

func itemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "Magic item commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List magic items with their holders",
				Flags: listFlagSet(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.MagicItemWithOwners
					if err := doItemsList(ctx, cfg, listFlagsFrom(c), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printMagicItems(out)
					return nil
				},
			},
			{
				Name:  "assign",
				Usage: "Give a magic item to a character, location, quest or other holder",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "item-id", Required: true},
					&cli.StringFlag{Name: "entity-type", Value: "character"},
					&cli.UintFlag{Name: "entity-id", Required: true},
					&cli.UintFlag{Name: "campaign-id", Usage: "defaults to the holder's campaign"},
					&cli.StringFlag{Name: "source"},
					&cli.StringFlag{Name: "notes"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"entityType": c.String("entity-type"),
						"entityId":   c.Uint("entity-id"),
						"source":     c.String("source"),
						"notes":      c.String("notes"),
					}
					if c.IsSet("campaign-id") {
						in["campaignId"] = c.Uint("campaign-id")
					}
					var out domain.MagicItemAssignment
					if err := doItemsAssign(ctx, cfg, c.Uint("item-id"), in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printAssignment(out)
					return nil
				},
			},
			{
				Name:  "unassign",
				Usage: "Remove one assignment of a magic item",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "item-id", Required: true},
					&cli.UintFlag{Name: "assignment-id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if err := doItemsUnassign(ctx, cfg, c.Uint("item-id"), c.Uint("assignment-id")); err != nil {
						return err
					}
					fmt.Printf("removed assignment %d from item %d\n", c.Uint("assignment-id"), c.Uint("item-id"))
					return nil
				},
			},
		},
	}
}

func relationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "relations",
		Usage: "Relationship commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List relations of a campaign or an entity",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "campaign-id"},
					&cli.StringFlag{Name: "entity-type"},
					&cli.UintFlag{Name: "entity-id"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if c.IsSet("entity-type") != c.IsSet("entity-id") {
						return fmt.Errorf("--entity-type and --entity-id go together")
					}
					var campaignID *uint
					if c.IsSet("campaign-id") {
						v := c.Uint("campaign-id")
						campaignID = &v
					}
					var out []domain.Relation
					if err := doRelationsList(ctx, cfg, campaignID, c.String("entity-type"), c.Uint("entity-id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printRelations(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Relate two entities of one campaign",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "campaign-id", Required: true},
					&cli.StringFlag{Name: "source-type", Value: "character"},
					&cli.UintFlag{Name: "source-id", Required: true},
					&cli.StringFlag{Name: "target-type", Value: "character"},
					&cli.UintFlag{Name: "target-id", Required: true},
					&cli.StringFlag{Name: "type", Required: true, Usage: "ally, enemy, rival, family, ..."},
					&cli.StringFlag{Name: "description"},
					&cli.BoolFlag{Name: "bidirectional"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"campaignId":       c.Uint("campaign-id"),
						"sourceEntityType": c.String("source-type"),
						"sourceEntityId":   c.Uint("source-id"),
						"targetEntityType": c.String("target-type"),
						"targetEntityId":   c.Uint("target-id"),
						"relationType":     c.String("type"),
						"description":      c.String("description"),
						"bidirectional":    c.Bool("bidirectional"),
					}
					var out domain.Relation
					if err := doRelationsCreate(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printRelations([]domain.Relation{out})
					return nil
				},
			},
		},
	}
}

func diaryCommand() *cli.Command {
	ownerFlags := func(extra ...cli.Flag) []cli.Flag {
		flags := []cli.Flag{
			&cli.StringFlag{Name: "owner-type", Value: "character", Usage: "character, location or quest"},
			&cli.UintFlag{Name: "owner-id", Required: true},
			jsonFlag(),
		}
		return append(flags, extra...)
	}
	return &cli.Command{
		Name:  "diary",
		Usage: "Diary entries of characters, locations and quests",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List diary entries, newest date first",
				Flags: ownerFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.DiaryEntry
					if err := doDiaryList(ctx, cfg, c.String("owner-type"), c.Uint("owner-id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDiary(out)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a diary entry",
				Flags: ownerFlags(
					&cli.StringFlag{Name: "description", Required: true},
					&cli.StringFlag{Name: "date", Required: true, Usage: "in-world or real date"},
					&cli.BoolFlag{Name: "important"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"description": c.String("description"),
						"date":        c.String("date"),
						"isImportant": c.Bool("important"),
					}
					var out domain.DiaryEntry
					if err := doDiaryAdd(ctx, cfg, c.String("owner-type"), c.Uint("owner-id"), in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDiary([]domain.DiaryEntry{out})
					return nil
				},
			},
		},
	}
}
