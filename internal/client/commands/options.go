package commands

import "strings"

// Options are the boolean flags a command line may carry. Every verb receives
// the same set and reads only what it needs.
type Options struct {
	Extended        bool
	Quiet           bool
	Unfinished      bool
	IncludeCategory bool
	Append          bool
	Delete          bool
	// Short has no letter form; it only trims version output.
	Short bool
}

// ParseOptions scans tokens for flags. Tokens not starting with "-" are ignored,
// as are unknown long flags. A short token sets every flag whose letter it
// contains, so "-eq" equals "-e -q".
func ParseOptions(tokens []string) Options {
	var opts Options
	for _, token := range tokens {
		switch {
		case strings.HasPrefix(token, "--"):
			opts.setLong(strings.TrimPrefix(token, "--"))
		case strings.HasPrefix(token, "-"):
			for _, letter := range token[1:] {
				opts.setShort(letter)
			}
		}
	}
	return opts
}

func (o *Options) setLong(name string) {
	switch name {
	case "extended":
		o.Extended = true
	case "quiet":
		o.Quiet = true
	case "unfinished":
		o.Unfinished = true
	case "categories":
		o.IncludeCategory = true
	case "append":
		o.Append = true
	case "delete":
		o.Delete = true
	case "short":
		o.Short = true
	}
}

func (o *Options) setShort(letter rune) {
	switch letter {
	case 'e':
		o.Extended = true
	case 'q':
		o.Quiet = true
	case 'u':
		o.Unfinished = true
	case 'c':
		o.IncludeCategory = true
	case 'a':
		o.Append = true
	case 'd':
		o.Delete = true
	}
}
