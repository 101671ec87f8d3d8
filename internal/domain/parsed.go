package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type SpellData struct {
	Level         *int     `json:"level,omitempty"`
	School        string   `json:"school,omitempty"`
	CastingTime   string   `json:"castingTime,omitempty"`
	Range         string   `json:"range,omitempty"`
	Components    string   `json:"components,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Ritual        bool     `json:"ritual,omitempty"`
	Concentration bool     `json:"concentration,omitempty"`
	Classes       []string `json:"classes,omitempty"`
}

type MonsterData struct {
	Size            string         `json:"size,omitempty"`
	Type            string         `json:"type,omitempty"`
	Alignment       string         `json:"alignment,omitempty"`
	ArmorClass      *int           `json:"armorClass,omitempty"`
	HitPoints       *int           `json:"hitPoints,omitempty"`
	Speed           string         `json:"speed,omitempty"`
	ChallengeRating string         `json:"challengeRating,omitempty"`
	Abilities       map[string]int `json:"abilities,omitempty"`
}

type MagicItemData struct {
	Rarity             string `json:"rarity,omitempty"`
	ItemType           string `json:"itemType,omitempty"`
	RequiresAttunement bool   `json:"requiresAttunement,omitempty"`
}

// CheckParsedData verifies that raw fits the shape implied by the content
// type. An empty document is accepted for every type.
func CheckParsedData(contentType ContentType, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("must be a JSON object")
	}

	switch contentType {
	case ContentSpell:
		var v SpellData
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("spell data: %w", err)
		}
		if v.Level != nil && (*v.Level < 0 || *v.Level > 9) {
			return fmt.Errorf("spell level must be between 0 and 9")
		}
	case ContentMonster:
		var v MonsterData
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("monster data: %w", err)
		}
	case ContentMagicItem:
		var v MagicItemData
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("magic item data: %w", err)
		}
		if v.Rarity != "" && !IsRarity(v.Rarity) {
			return fmt.Errorf("unknown rarity %q", v.Rarity)
		}
	default:
		var v map[string]any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
	}
	return nil
}

var rarities = map[string]bool{
	"common":    true,
	"uncommon":  true,
	"rare":      true,
	"very-rare": true,
	"legendary": true,
	"artifact":  true,
}

func IsRarity(v string) bool { return rarities[v] }
