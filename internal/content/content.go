// Package content holds the chatbot's bundled data: canned answers, chat strings,
// the owner profile used for the system prompt and the fallback project dataset.
// Every loader returns a fresh value; callers own what they get back.
package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/victorwamb/IA-PF/internal/entities"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed answers.yaml
	answersYAML []byte
	//go:embed translations.yaml
	translationsYAML []byte
	//go:embed profile.yaml
	profileYAML []byte
	//go:embed projects.json
	projectsJSON []byte
)

// Strings is the chat vocabulary of one language.
type Strings struct {
	Placeholder  string   `yaml:"placeholder" json:"placeholder"`
	Send         string   `yaml:"send" json:"send"`
	Thinking     string   `yaml:"thinking" json:"thinking"`
	Unsure       string   `yaml:"unsure" json:"unsure"`
	Error        string   `yaml:"error" json:"error"`
	ViewProjects string   `yaml:"view_projects" json:"viewProjects"`
	TryAsking    string   `yaml:"try_asking" json:"tryAsking"`
	Suggestions  []string `yaml:"suggestions" json:"suggestions"`
}

type Skills struct {
	Languages  []string `yaml:"languages"`
	Frameworks []string `yaml:"frameworks"`
	AIML       []string `yaml:"ai_ml"`
	APIs       []string `yaml:"apis"`
}

type ProfileProject struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
}

type Education struct {
	School string `yaml:"school"`
	Period string `yaml:"period"`
	Field  string `yaml:"field"`
}

// Profile describes the portfolio owner; the completion endpoint turns it into its system prompt.
type Profile struct {
	Name           string           `yaml:"name"`
	Role           string           `yaml:"role"`
	Summary        string           `yaml:"summary"`
	Email          string           `yaml:"email"`
	GitHub         string           `yaml:"github"`
	Location       string           `yaml:"location"`
	Skills         Skills           `yaml:"skills"`
	Projects       []ProfileProject `yaml:"projects"`
	Education      []Education      `yaml:"education"`
	LookingFor     string           `yaml:"looking_for"`
	Passions       []string         `yaml:"passions"`
	Hobbies        []string         `yaml:"hobbies"`
	FutureProjects string           `yaml:"future_projects"`
}

// DefaultAnswers returns the bundled canned answers in declaration order.
func DefaultAnswers() ([]entities.PredefinedEntry, error) {
	return decodeAnswers(answersYAML)
}

// LoadAnswers reads canned answers from a YAML file; an empty path yields the bundled set.
func LoadAnswers(path string) ([]entities.PredefinedEntry, error) {
	if path == "" {
		return DefaultAnswers()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}
	return decodeAnswers(data)
}

func decodeAnswers(data []byte) ([]entities.PredefinedEntry, error) {
	var entries []entities.PredefinedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return entries, nil
}

// DefaultTranslations returns chat strings keyed by language code.
func DefaultTranslations() (map[string]Strings, error) {
	var tables map[string]Strings
	if err := yaml.Unmarshal(translationsYAML, &tables); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return tables, nil
}

// LoadProfile reads the owner profile from a YAML file; an empty path yields the bundled one.
func LoadProfile(path string) (Profile, error) {
	data := profileYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Profile{}, fmt.Errorf("read profile file: %w", err)
		}
		data = b
	}
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// StaticProjects returns the dataset shipped with the binary, used when the API is unreachable.
func StaticProjects() ([]entities.Project, error) {
	var projects []entities.Project
	if err := json.Unmarshal(projectsJSON, &projects); err != nil {
		return nil, fmt.Errorf("decode static projects: %w", err)
	}
	return projects, nil
}
