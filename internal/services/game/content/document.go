package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed story.schema.json
var storySchemaJSON []byte

const storySchemaURL = "story.schema.json"

// MetadataDocument names the document an error refers to.
const MetadataDocument = "Document"

var compileStorySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(storySchemaURL, bytes.NewReader(storySchemaJSON)); err != nil {
		return nil, fmt.Errorf("add story schema: %w", err)
	}
	return compiler.Compile(storySchemaURL)
})

// Document is a story as authored in YAML.
type Document struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	LocationID string         `yaml:"location_id"`
	Pages      []PageDocument `yaml:"pages"`
}

// PageDocument is one page of a story document. Pages are numbered by position.
type PageDocument struct {
	Content string           `yaml:"content"`
	Options []OptionDocument `yaml:"options"`
}

// OptionDocument is one option on a page. ID defaults to <page id>-o<position>.
type OptionDocument struct {
	ID     string          `yaml:"id"`
	Label  string          `yaml:"label"`
	Effect *EffectDocument `yaml:"effect"`
}

// EffectDocument is the stat change of an option.
type EffectDocument struct {
	Kind   string `yaml:"kind"`
	Amount int    `yaml:"amount"`
}

// Story is a parsed document ready to be written.
type Story struct {
	Story narrative.Story
	Pages []narrative.Page
}

// Parse validates raw YAML against the story schema and maps it to narrative
// types. name identifies the document in errors.
func Parse(name string, raw []byte) (Story, error) {
	schema, err := compileStorySchema()
	if err != nil {
		return Story{}, fmt.Errorf("compile story schema: %w", err)
	}

	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return Story{}, invalidDocument(name, "decode yaml", err)
	}
	instance, err := jsonInstance(tree)
	if err != nil {
		return Story{}, invalidDocument(name, "convert yaml", err)
	}
	if err := schema.Validate(instance); err != nil {
		return Story{}, invalidDocument(name, "validate", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Story{}, invalidDocument(name, "decode yaml", err)
	}
	story := doc.toNarrative()
	if err := narrative.ValidateStory(story.Story, story.Pages); err != nil {
		return Story{}, invalidDocument(name, "validate", err)
	}
	if err := uniqueOptionIDs(story.Pages); err != nil {
		return Story{}, invalidDocument(name, "validate", err)
	}
	return story, nil
}

// jsonInstance round-trips a YAML tree through JSON so the validator sees
// only JSON types. Mappings with non-string keys fail here.
func jsonInstance(tree any) (any, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (d Document) toNarrative() Story {
	story := narrative.Story{
		ID:         d.ID,
		Title:      d.Title,
		LocationID: d.LocationID,
		PageCount:  len(d.Pages),
	}
	pages := make([]narrative.Page, 0, len(d.Pages))
	for i, pageDoc := range d.Pages {
		number := i + 1
		page := narrative.Page{
			ID:      PageID(d.ID, number),
			StoryID: d.ID,
			Number:  number,
			Content: pageDoc.Content,
			Options: make([]narrative.Option, 0, len(pageDoc.Options)),
		}
		for j, optionDoc := range pageDoc.Options {
			optionID := optionDoc.ID
			if optionID == "" {
				optionID = fmt.Sprintf("%s-o%d", page.ID, j+1)
			}
			effect := narrative.Effect{Kind: narrative.EffectNone}
			if optionDoc.Effect != nil {
				effect = narrative.Effect{
					Kind:   narrative.ParseEffectKind(optionDoc.Effect.Kind),
					Amount: optionDoc.Effect.Amount,
				}
			}
			page.Options = append(page.Options, narrative.Option{
				ID:     optionID,
				PageID: page.ID,
				Label:  optionDoc.Label,
				Effect: effect,
			})
		}
		pages = append(pages, page)
	}
	return Story{Story: story, Pages: pages}
}

// PageID returns the id given to page number of storyID.
func PageID(storyID string, number int) string {
	return fmt.Sprintf("%s-p%d", storyID, number)
}

func uniqueOptionIDs(pages []narrative.Page) error {
	seen := make(map[string]int)
	for _, page := range pages {
		for _, option := range page.Options {
			if previous, ok := seen[option.ID]; ok {
				return fmt.Errorf("option id %s used on pages %d and %d", option.ID, previous, page.Number)
			}
			seen[option.ID] = page.Number
		}
	}
	return nil
}

func invalidDocument(name, step string, cause error) error {
	err := apperrors.Wrap(apperrors.CodeStoryDocumentInvalid, fmt.Sprintf("%s: %s: %v", name, step, cause), cause)
	err.Metadata = map[string]string{MetadataDocument: name}
	return err
}
