package commands

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed help.yaml
var helpYAML []byte

// HelpCatalog holds the general help text and one entry per command.
type HelpCatalog struct {
	General string            `yaml:"general"`
	Topics  map[string]string `yaml:"topics"`
}

// LoadHelp decodes the embedded help catalog.
func LoadHelp() (*HelpCatalog, error) {
	return ParseHelp(helpYAML)
}

// ParseHelp decodes a help catalog, rejecting unknown keys.
func ParseHelp(data []byte) (*HelpCatalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var catalog HelpCatalog
	if err := decoder.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode help catalog: %w", err)
	}
	if strings.TrimSpace(catalog.General) == "" {
		return nil, errors.New("decode help catalog: general help is empty")
	}
	return &catalog, nil
}

// Topic returns the help for the command named by topic, which may be any
// alias. Unknown or empty topics return the general help.
func (h *HelpCatalog) Topic(topic string) string {
	if text, ok := h.Topics[LookupVerb(topic).HelpTopic()]; ok {
		return text
	}
	return h.General
}
