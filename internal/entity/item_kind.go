package entity

import "fmt"

// ItemKind names one of the four taggable content tables.
type ItemKind string

const (
	ItemProjects     ItemKind = "projects"
	ItemScripts      ItemKind = "scripts"
	ItemNotes        ItemKind = "notes"
	ItemInspirations ItemKind = "inspirations"
)

// ItemKinds is the sweep order used by every cross-table tag operation.
var ItemKinds = []ItemKind{ItemProjects, ItemScripts, ItemNotes, ItemInspirations}

// ParseItemKind accepts the plural table names as well as the singular forms.
func ParseItemKind(raw string) (ItemKind, error) {
	switch raw {
	case "projects", "project":
		return ItemProjects, nil
	case "scripts", "script":
		return ItemScripts, nil
	case "notes", "note":
		return ItemNotes, nil
	case "inspirations", "inspiration":
		return ItemInspirations, nil
	default:
		return "", fmt.Errorf("unknown item type %q", raw)
	}
}

// Singular is the label used on grouped search results.
func (k ItemKind) Singular() string {
	switch k {
	case ItemProjects:
		return "project"
	case ItemScripts:
		return "script"
	case ItemNotes:
		return "note"
	case ItemInspirations:
		return "inspiration"
	default:
		return string(k)
	}
}
