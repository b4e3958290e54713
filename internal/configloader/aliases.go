// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered merging,
// environment variable support, and validation.
package configloader

import (
	"slices"
	"strings"
)

// extensionAliases maps alternative spellings to registered extension names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensionAliases = map[string]string{
	"github":         "gfm",
	"github-flavor":  "gfm",
	"tables":         "table",
	"task-list":      "tasklist",
	"task_list":      "tasklist",
	"tasks":          "tasklist",
	"strike":         "strikethrough",
	"del":            "strikethrough",
	"autolinks":      "autolink",
	"linkify":        "autolink",
	"sub":            "subscript",
	"sup":            "superscript",
	"emojis":         "emoji",
	"emoji-shortcut": "emoji",
}

// extensionGroups expand to several extensions at once.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensionGroups = map[string][]string{
	"extras": {"subscript", "superscript", "emoji"},
	"all":    {"gfm", "subscript", "superscript", "emoji"},
}

// NormalizeExtensionName lowercases name and resolves aliases.
// Unknown names are returned lowercased; validation reports them.
func NormalizeExtensionName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := extensionAliases[key]; ok {
		return canonical
	}
	return key
}

// IsGroup returns true if the name expands to several extensions.
func IsGroup(name string) bool {
	_, ok := extensionGroups[strings.ToLower(name)]
	return ok
}

// GroupNames returns the extension group names, sorted.
func GroupNames() []string {
	names := make([]string, 0, len(extensionGroups))
	for name := range extensionGroups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetGroupExtensions returns the extensions a group expands to.
// Returns nil if the group is not recognized.
func GetGroupExtensions(group string) []string {
	return extensionGroups[strings.ToLower(group)]
}

// NormalizeExtensions resolves aliases, expands groups, and drops
// duplicates while keeping first-seen order. Empty input stays empty.
func NormalizeExtensions(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	add := func(name string) {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	for _, name := range names {
		if group := GetGroupExtensions(name); group != nil {
			for _, member := range group {
				add(member)
			}
			continue
		}
		add(NormalizeExtensionName(name))
	}
	return out
}

// GetAliasesForExtension returns all aliases for a registered extension name, sorted.
func GetAliasesForExtension(name string) []string {
	var aliases []string
	for alias, canonical := range extensionAliases {
		if canonical == name {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases)
	return aliases
}
