package commands

import (
	"strings"

	"vittlify/internal/domain/errors/domain"
)

// Command is one fully resolved invocation. Parse builds it without touching
// the network; Execute runs it.
type Command struct {
	Verb    Verb
	Options Options

	// GUID is the list or item the verb operates on.
	GUID string
	// GUIDs are the items of a mark-done/mark-undone batch. Empty means the
	// recently completed view.
	GUIDs []string
	// Name is the name of the item to create.
	Name string
	// Text is the annotation text, or the comments of a created item.
	Text string
	// Destination is the target list of a relocate or the category of a tag-item.
	Destination string
	// Topic is the help topic; empty means general help.
	Topic string
}

// Parse resolves args (verb first) into a Command. Arity is checked here, so an
// arity error never follows a network call. defaultList stands in for a missing
// list identifier where a verb allows it.
func Parse(args []string, defaultList string) (Command, error) {
	if len(args) == 0 {
		return Command{Verb: VerbUnknown}, nil
	}

	verb := LookupVerb(args[0])
	tokens := args[1:]
	positional := positionalTokens(tokens)
	cmd := Command{Verb: verb, Options: ParseOptions(tokens)}

	switch verb {
	case VerbListItems:
		cmd.GUID = defaultList
		if len(positional) > 0 {
			cmd.GUID = positional[0]
		}
		if cmd.GUID == "" {
			return Command{}, domain.NewArityError("list: %s", domain.ErrNoIdentifier)
		}

	case VerbShowItem, VerbListCategories:
		if len(positional) != 1 {
			return Command{}, domain.NewArityCountError(args[0], 1, len(positional))
		}
		cmd.GUID = positional[0]

	case VerbMarkDone, VerbMarkUndone:
		cmd.GUIDs = positional

	case VerbAnnotate:
		return parseAnnotate(args[0], tokens)

	case VerbCreate:
		switch {
		case len(positional) == 0:
			return Command{}, domain.NewArityError("%s: an item name is required", args[0])
		case len(positional) == 1:
			if defaultList == "" {
				return Command{}, domain.NewArityError("%s: %s", args[0], domain.ErrNoIdentifier)
			}
			cmd.GUID, cmd.Name = defaultList, positional[0]
		default:
			cmd.GUID, cmd.Name = positional[0], positional[1]
			cmd.Text = strings.Join(positional[2:], " ")
		}

	case VerbRelocate, VerbTagItem:
		if len(positional) != 2 {
			return Command{}, domain.NewArityCountError(args[0], 2, len(positional))
		}
		cmd.GUID, cmd.Destination = positional[0], positional[1]

	case VerbHelp:
		if len(positional) > 0 {
			cmd.Topic = positional[0]
		}

	case VerbAllLists, VerbVersion, VerbUnknown:
	}

	return cmd, nil
}

// parseAnnotate takes the first positional token as the item. Of the tokens
// after it, those not starting with "-" or containing a space form the text;
// the remaining flag tokens are the options.
func parseAnnotate(alias string, tokens []string) (Command, error) {
	cmd := Command{Verb: VerbAnnotate}

	start := -1
	for i, token := range tokens {
		if isPositional(token) {
			start = i
			break
		}
	}
	if start < 0 {
		return Command{}, domain.NewArityError("%s: %s", alias, domain.ErrNoIdentifier)
	}
	cmd.GUID = tokens[start]

	var flags, words []string
	flags = append(flags, tokens[:start]...)
	for _, token := range tokens[start+1:] {
		if !strings.HasPrefix(token, "-") || strings.Contains(token, " ") {
			words = append(words, token)
			continue
		}
		flags = append(flags, token)
	}

	cmd.Options = ParseOptions(flags)
	cmd.Text = strings.Join(words, " ")
	return cmd, nil
}

// positionalTokens returns the non-empty tokens that are not flags, in order.
func positionalTokens(tokens []string) []string {
	var positional []string
	for _, token := range tokens {
		if isPositional(token) {
			positional = append(positional, token)
		}
	}
	return positional
}

// isPositional reports whether token is a non-blank token not starting with "-".
// The prefix is tested on the raw token, as annotate does, so " -5" is text.
func isPositional(token string) bool {
	return strings.TrimSpace(token) != "" && !strings.HasPrefix(token, "-")
}
