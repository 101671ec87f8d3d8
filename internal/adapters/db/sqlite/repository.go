package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database file at path. Foreign keys are switched on
// for every pooled connection and writers wait on a locked database.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsnFor(path),
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

var requiredPragmas = []struct{ name, value string }{
	{"busy_timeout", "busy_timeout(5000)"},
	{"foreign_keys", "foreign_keys(1)"},
}

// dsnFor appends the required pragmas to path, keeping any query the caller
// already supplied. A pragma the caller set explicitly is left alone.
func dsnFor(path string) string {
	dsn := path
	for _, p := range requiredPragmas {
		if strings.Contains(dsn, "_pragma="+p.name+"(") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + p.value
	}
	return dsn
}

func NewRepository(db *gorm.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log.With().Str("component", "sqlite").Logger()}
}

var _ domain.Repository = (*Repository)(nil)

func translateErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%s already exists: %w", what, domain.ErrConflict)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%s references a missing record: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}

	return input
}

type entityTable struct {
	table          string
	nameColumn     string
	campaignColumn string
	images         bool
}

var entityTables = map[domain.EntityType]entityTable{
	domain.EntityCampaign:  {table: "campaigns", nameColumn: "title", campaignColumn: "id"},
	domain.EntityAdventure: {table: "adventures", nameColumn: "title", campaignColumn: "campaign_id", images: true},
	domain.EntitySession:   {table: "sessions", nameColumn: "title", campaignColumn: "campaign_id", images: true},
	domain.EntityCharacter: {table: "characters", nameColumn: "name", campaignColumn: "campaign_id", images: true},
	domain.EntityLocation:  {table: "locations", nameColumn: "name", campaignColumn: "campaign_id", images: true},
	domain.EntityQuest:     {table: "quests", nameColumn: "title", campaignColumn: "campaign_id", images: true},
	domain.EntityMagicItem: {table: "magic_items", nameColumn: "name", campaignColumn: "NULL"},
}

func tableFor(t domain.EntityType) (entityTable, error) {
	tbl, ok := entityTables[t]
	if !ok {
		return entityTable{}, domain.Invalid("entityType", "unknown entity type %q", t)
	}
	return tbl, nil
}

func (r *Repository) ResolveEntities(ctx context.Context, refs []domain.EntityRef) (map[domain.EntityRef]domain.EntitySummary, error) {
	byType := make(map[domain.EntityType][]uint)
	seen := make(map[domain.EntityRef]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		byType[ref.Type] = append(byType[ref.Type], ref.ID)
	}

	type row struct {
		ID         uint
		Name       string
		CampaignID *uint
	}

	result := make(map[domain.EntityRef]domain.EntitySummary, len(seen))
	for entityType, ids := range byType {
		tbl, err := tableFor(entityType)
		if err != nil {
			return nil, err
		}
		rows := make([]row, 0, len(ids))
		q := fmt.Sprintf("SELECT id, %s AS name, %s AS campaign_id FROM %s WHERE id IN ?", tbl.nameColumn, tbl.campaignColumn, tbl.table)
		if err := r.db.WithContext(ctx).Raw(q, ids).Scan(&rows).Error; err != nil {
			return nil, translateErr("resolve "+string(entityType), err)
		}
		for _, m := range rows {
			ref := domain.EntityRef{Type: entityType, ID: m.ID}
			result[ref] = domain.EntitySummary{Type: entityType, ID: m.ID, Name: m.Name, CampaignID: m.CampaignID}
		}
	}
	return result, nil
}

var campaignChildren = []domain.EntityType{
	domain.EntityAdventure,
	domain.EntitySession,
	domain.EntityCharacter,
	domain.EntityLocation,
	domain.EntityQuest,
}

func (r *Repository) DeleteEntity(ctx context.Context, ref domain.EntityRef) ([]string, error) {
	tbl, err := tableFor(ref.Type)
	if err != nil {
		return nil, err
	}

	var urls []string
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(tbl.table).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.NotFound(string(ref.Type), ref.ID)
		}

		doomed := map[domain.EntityType][]uint{ref.Type: {ref.ID}}
		if ref.Type == domain.EntityCampaign {
			for _, child := range campaignChildren {
				var ids []uint
				if err := tx.Table(entityTables[child].table).Where("campaign_id = ?", ref.ID).Pluck("id", &ids).Error; err != nil {
					return err
				}
				if len(ids) > 0 {
					doomed[child] = ids
				}
			}
		}

		for entityType, ids := range doomed {
			if entityTables[entityType].images {
				found, err := r.collectImageURLs(tx, entityType, ids)
				if err != nil {
					return err
				}
				urls = append(urls, found...)
			}
			if err := tx.Where("entity_type = ? AND entity_id IN ?", string(entityType), ids).Delete(&MagicItemAssignmentModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entity_type = ? AND entity_id IN ?", string(entityType), ids).Delete(&WikiArticleEntityModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("owner_type = ? AND owner_id IN ?", string(entityType), ids).Delete(&DiaryEntryModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("(source_entity_type = ? AND source_entity_id IN ?) OR (target_entity_type = ? AND target_entity_id IN ?)",
				string(entityType), ids, string(entityType), ids).Delete(&RelationModel{}).Error; err != nil {
				return err
			}
		}

		if ref.Type == domain.EntityMagicItem {
			if err := tx.Where("magic_item_id = ?", ref.ID).Delete(&MagicItemAssignmentModel{}).Error; err != nil {
				return err
			}
		}

		return tx.Exec("DELETE FROM "+tbl.table+" WHERE id = ?", ref.ID).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, translateErr("delete "+ref.String(), err)
	}

	r.log.Debug().Str("entity", ref.String()).Int("images", len(urls)).Msg("entity deleted with dependents")
	return urls, nil
}

func (r *Repository) collectImageURLs(tx *gorm.DB, entityType domain.EntityType, ids []uint) ([]string, error) {
	type row struct {
		ID     uint
		Images datatypes.JSON
	}
	rows := make([]row, 0, len(ids))
	if err := tx.Table(entityTables[entityType].table).Select("id, images").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	urls := make([]string, 0)
	for _, m := range rows {
		var images []domain.Image
		r.decodeInto(m.Images, &images, entityTables[entityType].table, "images", m.ID)
		for _, img := range images {
			urls = append(urls, img.URL)
		}
	}
	return urls, nil
}

func (r *Repository) AppendImage(ctx context.Context, ref domain.EntityRef, image domain.Image) ([]domain.Image, error) {
	return r.rewriteImages(ctx, ref, func(images []domain.Image) ([]domain.Image, error) {
		for _, existing := range images {
			if existing.URL == image.URL {
				return nil, fmt.Errorf("image %s on %s: %w", image.URL, ref, domain.ErrConflict)
			}
		}
		return append(images, image), nil
	})
}

func (r *Repository) RemoveImage(ctx context.Context, ref domain.EntityRef, url string) ([]domain.Image, error) {
	return r.rewriteImages(ctx, ref, func(images []domain.Image) ([]domain.Image, error) {
		kept := make([]domain.Image, 0, len(images))
		for _, existing := range images {
			if existing.URL != url {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(images) {
			return nil, fmt.Errorf("image %s on %s: %w", url, ref, domain.ErrNotFound)
		}
		return kept, nil
	})
}

// rewriteImages is a read-modify-write of one images column inside a
// transaction so concurrent uploads to the same record do not drop entries.
func (r *Repository) rewriteImages(ctx context.Context, ref domain.EntityRef, change func([]domain.Image) ([]domain.Image, error)) ([]domain.Image, error) {
	tbl, err := tableFor(ref.Type)
	if err != nil {
		return nil, err
	}
	if !tbl.images {
		return nil, domain.Invalid("entityType", "%s does not carry images", ref.Type)
	}

	var out []domain.Image
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type row struct {
			ID     uint
			Images datatypes.JSON
		}
		rows := make([]row, 0, 1)
		if err := tx.Table(tbl.table).Select("id, images").Where("id = ?", ref.ID).Scan(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return domain.NotFound(string(ref.Type), ref.ID)
		}

		images := make([]domain.Image, 0)
		r.decodeInto(rows[0].Images, &images, tbl.table, "images", ref.ID)
		next, err := change(images)
		if err != nil {
			return err
		}
		out = next

		return tx.Table(tbl.table).Where("id = ?", ref.ID).Updates(map[string]any{
			"images":     encodeList(next),
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, translateErr("update images of "+ref.String(), err)
	}
	return out, nil
}

func (r *Repository) CountImageReferences(ctx context.Context, url string) (int64, error) {
	var total int64
	for _, entityType := range domain.EntityTypes() {
		tbl := entityTables[entityType]
		if !tbl.images {
			continue
		}
		var count int64
		q := fmt.Sprintf(`
SELECT COUNT(*)
FROM %s t, json_each(CASE WHEN json_valid(t.images) THEN t.images ELSE '[]' END) img
WHERE json_extract(img.value, '$.url') = ?
`, tbl.table)
		if err := r.db.WithContext(ctx).Raw(q, url).Scan(&count).Error; err != nil {
			return 0, translateErr("count image references", err)
		}
		total += count
	}
	return total, nil
}
