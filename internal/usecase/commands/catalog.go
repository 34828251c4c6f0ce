package commands

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"teaBot/internal/usecase/afk"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Catalog describes the commands that ship with the bot, their AFK message
// templates and the gachi song list. It is parsed once at startup.
type Catalog struct {
	Commands    []CatalogCommand         `yaml:"commands"`
	AfkMessages map[string]afk.Templates `yaml:"afk_messages"`
	GachiSongs  []GachiSong              `yaml:"gachi_songs"`
}

type CatalogCommand struct {
	ID       string   `yaml:"id"`
	Aliases  []string `yaml:"aliases"`
	Body     string   `yaml:"body"`
	Class    string   `yaml:"class"`
	Cooldown Duration `yaml:"cooldown"`
	AfkKind  string   `yaml:"afk_kind"`
}

type GachiSong struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Duration lets cooldowns be written as "10s" in the catalog.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("catalog: bad duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for _, cmd := range c.Commands {
		if cmd.ID == "" || len(cmd.Aliases) == 0 {
			return nil, fmt.Errorf("catalog: command without id or aliases")
		}
		if cmd.AfkKind != "" {
			if _, ok := c.AfkMessages[cmd.AfkKind]; !ok {
				return nil, fmt.Errorf("catalog: %s: unknown afk kind %q", cmd.ID, cmd.AfkKind)
			}
		}
	}
	return &c, nil
}

// Spec converts a catalog entry into a registerable command spec.
func (c CatalogCommand) Spec() (*Spec, error) {
	var body string
	switch c.Body {
	case "", "none":
		body = BodyNone
	case "word":
		body = BodyWord
	case "int":
		body = BodyInt
	default:
		return nil, fmt.Errorf("catalog: %s: unknown body grammar %q", c.ID, c.Body)
	}

	class := ClassGeneral
	if c.Class == "moderation" {
		class = ClassModeration
	}

	return &Spec{
		ID:       c.ID,
		Aliases:  c.Aliases,
		Body:     body,
		Class:    class,
		Cooldown: time.Duration(c.Cooldown),
		AfkKind:  c.AfkKind,
	}, nil
}
