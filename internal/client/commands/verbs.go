package commands

import "strings"

// Verb is the operation selected by the first command line token.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbListItems
	VerbAllLists
	VerbShowItem
	VerbMarkDone
	VerbMarkUndone
	VerbAnnotate
	VerbCreate
	VerbRelocate
	VerbListCategories
	VerbTagItem
	VerbHelp
	VerbVersion
)

// verbAliases maps every accepted spelling to its verb. Lookups are case-insensitive.
var verbAliases = map[string]Verb{
	"list":       VerbListItems,
	"lists":      VerbAllLists,
	"item":       VerbShowItem,
	"show":       VerbShowItem,
	"done":       VerbMarkDone,
	"complete":   VerbMarkDone,
	"undone":     VerbMarkUndone,
	"uncomplete": VerbMarkUndone,
	"modify":     VerbAnnotate,
	"edit":       VerbAnnotate,
	"comment":    VerbAnnotate,
	"comments":   VerbAnnotate,
	"add":        VerbCreate,
	"move":       VerbRelocate,
	"mv":         VerbRelocate,
	"categories": VerbListCategories,
	"categorize": VerbTagItem,
	"label":      VerbTagItem,
	"help":       VerbHelp,
	"--help":     VerbHelp,
	"-h":         VerbHelp,
	"version":    VerbVersion,
	"--version":  VerbVersion,
}

// LookupVerb resolves a token to its verb, or VerbUnknown.
func LookupVerb(token string) Verb {
	return verbAliases[strings.ToLower(strings.TrimSpace(token))]
}

// String returns the canonical verb name used in logs.
func (v Verb) String() string {
	switch v {
	case VerbListItems:
		return "list-items"
	case VerbAllLists:
		return "all-lists"
	case VerbShowItem:
		return "show-item"
	case VerbMarkDone:
		return "mark-done"
	case VerbMarkUndone:
		return "mark-undone"
	case VerbAnnotate:
		return "annotate"
	case VerbCreate:
		return "create"
	case VerbRelocate:
		return "relocate"
	case VerbListCategories:
		return "list-categories"
	case VerbTagItem:
		return "tag-item"
	case VerbHelp:
		return "help"
	case VerbVersion:
		return "version"
	case VerbUnknown:
	}
	return "unknown"
}

// HelpTopic returns the key of the verb's entry in the help catalog.
func (v Verb) HelpTopic() string {
	switch v {
	case VerbListItems:
		return "list"
	case VerbAllLists:
		return "lists"
	case VerbShowItem:
		return "item"
	case VerbMarkDone:
		return "done"
	case VerbMarkUndone:
		return "undone"
	case VerbAnnotate:
		return "modify"
	case VerbCreate:
		return "add"
	case VerbRelocate:
		return "move"
	case VerbListCategories:
		return "categories"
	case VerbTagItem:
		return "categorize"
	case VerbHelp:
		return "help"
	case VerbVersion:
		return "version"
	case VerbUnknown:
	}
	return ""
}

// Offline reports whether the verb is answered locally. Offline verbs need
// neither configuration nor a backend, so they cannot fail on either.
func (v Verb) Offline() bool {
	switch v {
	case VerbHelp, VerbVersion, VerbUnknown:
		return true
	case VerbListItems, VerbAllLists, VerbShowItem, VerbMarkDone, VerbMarkUndone,
		VerbAnnotate, VerbCreate, VerbRelocate, VerbListCategories, VerbTagItem:
	}
	return false
}
