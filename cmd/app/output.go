package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatMaybeUint(v *uint) string {
	if v == nil {
		return "-"
	}
	return uintToString(*v)
}

func formatMaybeString(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printCampaigns(items []domain.Campaign) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.ID),
			item.Title,
			item.Status,
			item.GameEdition,
			formatMaybeString(item.StartDate),
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"ID", "TITLE", "STATUS", "EDITION", "START", "UPDATED_AT"}, rows)
}

func printCharacters(items []domain.Character) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		classes := make([]string, 0, len(item.Classes))
		for _, class := range item.Classes {
			classes = append(classes, class.Name+" "+strconv.Itoa(class.Level))
		}
		rows = append(rows, []string{
			uintToString(item.ID),
			uintToString(item.CampaignID),
			item.Name,
			item.CharacterType,
			item.Race,
			strings.Join(classes, "/"),
			fmt.Sprintf("%d/%d", item.HitPoints, item.MaxHitPoints),
		})
	}
	printTable([]string{"ID", "CAMPAIGN", "NAME", "TYPE", "RACE", "CLASSES", "HP"}, rows)
}

func printWikiArticles(items []domain.WikiArticleWithEntities) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.ID),
			string(item.ContentType),
			item.Title,
			formatMaybeString(item.WikiURL),
			strconv.Itoa(len(item.Entities)),
		})
	}
	printTable([]string{"ID", "TYPE", "TITLE", "URL", "LINKS"}, rows)
}

func printWikiImport(res wikiImportResult) {
	state := "existing"
	if res.Created {
		state = "created"
	}
	printKV([][2]string{
		{"id", uintToString(res.Article.ID)},
		{"title", res.Article.Title},
		{"content_type", string(res.Article.ContentType)},
		{"import", state},
	})
}

func printMagicItems(items []domain.MagicItemWithOwners) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		owners := make([]string, 0, len(item.Owners))
		for _, owner := range item.Owners {
			owners = append(owners, owner.Entity.Name)
		}
		rows = append(rows, []string{
			uintToString(item.ID),
			item.Name,
			item.Rarity,
			item.ItemType,
			strconv.FormatBool(item.RequiresAttunement),
			strings.Join(owners, ", "),
		})
	}
	printTable([]string{"ID", "NAME", "RARITY", "TYPE", "ATTUNEMENT", "OWNERS"}, rows)
}

func printAssignment(item domain.MagicItemAssignment) {
	printKV([][2]string{
		{"id", uintToString(item.ID)},
		{"magic_item_id", uintToString(item.MagicItemID)},
		{"holder", domain.EntityRef{Type: item.EntityType, ID: item.EntityID}.String()},
		{"campaign_id", formatMaybeUint(item.CampaignID)},
		{"assigned_at", formatTime(item.AssignedAt)},
	})
}

func printRelations(items []domain.Relation) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.ID),
			domain.EntityRef{Type: item.SourceEntityType, ID: item.SourceEntityID}.String(),
			item.RelationType,
			domain.EntityRef{Type: item.TargetEntityType, ID: item.TargetEntityID}.String(),
			strconv.FormatBool(item.Bidirectional),
			item.Description,
		})
	}
	printTable([]string{"ID", "SOURCE", "RELATION", "TARGET", "BIDIRECTIONAL", "DESCRIPTION"}, rows)
}

func printDiary(items []domain.DiaryEntry) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		mark := ""
		if item.IsImportant {
			mark = "*"
		}
		rows = append(rows, []string{
			uintToString(item.ID),
			item.Date,
			mark,
			item.Description,
		})
	}
	printTable([]string{"ID", "DATE", "!", "DESCRIPTION"}, rows)
}
