// Package content serves the pre-authored awareness snippets the bot
// replies with. Seeds are compiled into the binary, one JSON file per
// topic and language; a missing localized file falls back to English.
package content

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/swasthyasaathi/bot/internal/models"
)

//go:embed seeds/*.json
var seedFS embed.FS

// Seed is one topic's authored content in one language.
type Seed struct {
	Title   string   `json:"title,omitempty"`
	Bullets []string `json:"bullets"`
	Source  string   `json:"source"`
}

// Library resolves (topic, language) to a Seed.
type Library struct {
	seeds map[string]Seed
}

// NewLibrary parses every embedded seed file.
func NewLibrary() (*Library, error) {
	entries, err := seedFS.ReadDir("seeds")
	if err != nil {
		return nil, fmt.Errorf("error reading seed directory: %v", err)
	}

	seeds := make(map[string]Seed, len(entries))
	for _, e := range entries {
		data, err := seedFS.ReadFile("seeds/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("error reading seed %s: %v", e.Name(), err)
		}
		var s Seed
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("error parsing seed %s: %v", e.Name(), err)
		}
		key := e.Name()[:len(e.Name())-len(".json")]
		seeds[key] = s
	}

	return &Library{seeds: seeds}, nil
}

// Lookup returns the seed for a topic in the requested language,
// falling back to the English seed when no localized one exists.
func (l *Library) Lookup(topic string, lang models.Language) (Seed, error) {
	if s, ok := l.seeds[topic+"_"+string(lang)]; ok {
		return s, nil
	}
	if s, ok := l.seeds[topic+"_en"]; ok {
		return s, nil
	}
	return Seed{}, fmt.Errorf("no seed for topic %q", topic)
}
