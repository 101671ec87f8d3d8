package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

type listFlags struct {
	CampaignID *uint
	Query      string
	Filter     string
	Limit      int
}

func (f listFlags) params() map[string]any {
	return map[string]any{"campaignId": f.CampaignID, "q": f.Query, "filter": f.Filter, "limit": f.Limit}
}

func (f listFlags) values() url.Values {
	values := url.Values{}
	if f.CampaignID != nil {
		values.Set("campaignId", uintToString(*f.CampaignID))
	}
	values.Set("q", f.Query)
	values.Set("filter", f.Filter)
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

type wikiImportResult struct {
	Article domain.WikiArticle `json:"article"`
	Created bool               `json:"created"`
}

func doCampaignsList(ctx context.Context, cfg cliConfig, list listFlags, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "campaigns.list", list.params(), out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodGet, withQuery("/api/campaigns", list.values()), nil, out)
}

func doCampaignsCreate(ctx context.Context, cfg cliConfig, in domain.Campaign, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "campaigns.create", in, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPost, "/api/campaigns", in, out)
}

func doCharactersList(ctx context.Context, cfg cliConfig, list listFlags, characterType string, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		params := list.params()
		params["characterType"] = characterType
		return client.call(ctx, "characters.list", params, out)
	}
	client := newAPIClient(cfg.Server)
	values := list.values()
	values.Set("characterType", characterType)
	return client.request(ctx, http.MethodGet, withQuery("/api/characters", values), nil, out)
}

func doWikiImport(ctx context.Context, cfg cliConfig, in map[string]any, out *wikiImportResult) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "wiki.import", in, out)
	}
	client := newAPIClient(cfg.Server)
	status, err := client.requestStatus(ctx, http.MethodPost, "/api/wiki-articles", in, &out.Article)
	if err != nil {
		return err
	}
	out.Created = status == http.StatusCreated
	return nil
}

func doWikiList(ctx context.Context, cfg cliConfig, list listFlags, contentType string, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		params := list.params()
		params["contentType"] = contentType
		return client.call(ctx, "wiki.list", params, out)
	}
	client := newAPIClient(cfg.Server)
	values := list.values()
	values.Set("contentType", contentType)
	return client.request(ctx, http.MethodGet, withQuery("/api/wiki-articles", values), nil, out)
}

func doItemsList(ctx context.Context, cfg cliConfig, list listFlags, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "items.list", list.params(), out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodGet, withQuery("/api/magic-items", list.values()), nil, out)
}

func doItemsAssign(ctx context.Context, cfg cliConfig, itemID uint, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		payload := map[string]any{"itemId": itemID}
		for k, v := range in {
			payload[k] = v
		}
		return client.call(ctx, "items.assign", payload, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPost, fmt.Sprintf("/api/magic-items/%d/assignments", itemID), in, out)
}

func doItemsUnassign(ctx context.Context, cfg cliConfig, itemID, assignmentID uint) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "items.unassign", map[string]any{"itemId": itemID, "assignmentId": assignmentID}, nil)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodDelete, fmt.Sprintf("/api/magic-items/%d/assignments/%d", itemID, assignmentID), nil, nil)
}

func doRelationsList(ctx context.Context, cfg cliConfig, campaignID *uint, entityType string, entityID uint, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "relations.list", map[string]any{"campaignId": campaignID, "entityType": entityType, "entityId": entityID}, out)
	}
	client := newAPIClient(cfg.Server)
	values := url.Values{}
	if campaignID != nil {
		values.Set("campaignId", uintToString(*campaignID))
	}
	if entityType != "" {
		values.Set("entityType", entityType)
		values.Set("entityId", uintToString(entityID))
	}
	return client.request(ctx, http.MethodGet, withQuery("/api/relations", values), nil, out)
}

func doRelationsCreate(ctx context.Context, cfg cliConfig, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "relations.create", in, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPost, "/api/relations", in, out)
}

// diaryPath maps an owner type onto its collection route.
func diaryPath(ownerType string, ownerID uint) (string, error) {
	kind, err := domain.ParseEntityType(ownerType)
	if err != nil {
		return "", err
	}
	if !kind.KeepsDiary() {
		return "", fmt.Errorf("%s records have no diary", kind)
	}
	return fmt.Sprintf("/api/%ss/%d/diary", kind, ownerID), nil
}

func doDiaryList(ctx context.Context, cfg cliConfig, ownerType string, ownerID uint, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "diary.list", map[string]any{"ownerType": ownerType, "ownerId": ownerID}, out)
	}
	path, err := diaryPath(ownerType, ownerID)
	if err != nil {
		return err
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodGet, path, nil, out)
}

func doDiaryAdd(ctx context.Context, cfg cliConfig, ownerType string, ownerID uint, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		payload := map[string]any{"ownerType": ownerType, "ownerId": ownerID}
		for k, v := range in {
			payload[k] = v
		}
		return client.call(ctx, "diary.add", payload, out)
	}
	path, err := diaryPath(ownerType, ownerID)
	if err != nil {
		return err
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPost, path, in, out)
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
