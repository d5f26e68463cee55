package responsetype

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogData []byte

// ErrUnclassifiableType is returned for response-type tags missing from the
// catalog. Callers must not fall back to a default classification.
var ErrUnclassifiableType = errors.New("responsetype: unclassifiable type")

// Tag identifies a response type as stored by the backend.
type Tag string

const (
	TagYesNo             Tag = "YesNo"
	TagShortAnswer       Tag = "ShortAnswer"
	TagLongAnswer        Tag = "LongAnswer"
	TagDropdown          Tag = "Dropdown"
	TagMultipleSelection Tag = "MultipleSelection"
	TagSingleFileUpload  Tag = "SingleFileUpload"
	TagDate              Tag = "Date"
	TagAddressInput      Tag = "AddressInput"
	TagNumeric           Tag = "Numeric"
)

// Step names the extra wizard step a response type requires.
type Step string

const (
	StepNone      Step = ""
	StepOptions   Step = "question-options"
	StepWordLimit Step = "add-word-count"
)

// Definition is one catalog entry.
type Definition struct {
	Tag         Tag    `yaml:"tag" json:"tag"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description,omitempty"`
	Next        Step   `yaml:"next" json:"next,omitempty"`
}

// Classification describes what the wizard must collect for a response type
// and where it goes after the type step.
type Classification struct {
	Tag               Tag
	RequiresOptions   bool
	RequiresWordLimit bool
	Next              Step
}

// RequiresExtraStep reports whether the wizard must visit another step before
// the question can be committed.
func (c Classification) RequiresExtraStep() bool {
	return c.Next != StepNone
}

// CreateRedirect returns the path visited after the type step of a create
// flow. Types without an extra step land on the section page.
func (c Classification) CreateRedirect(appID, sectionID string) string {
	base := sectionPath(appID, sectionID)
	if c.Next == StepNone {
		return base
	}
	return base + "/" + string(c.Next)
}

// EditRedirect returns the path visited after the type step of an edit flow.
// Types without an extra step return to the question's content page.
func (c Classification) EditRedirect(appID, sectionID, questionID string) string {
	base := sectionPath(appID, sectionID) + "/" + url.PathEscape(questionID) + "/edit/"
	if c.Next == StepNone {
		return base + "question-content"
	}
	return base + string(c.Next)
}

func sectionPath(appID, sectionID string) string {
	return "/build-application/" + url.PathEscape(appID) + "/" + url.PathEscape(sectionID)
}

// Catalog is an immutable lookup table of response types.
type Catalog struct {
	defs  []Definition
	byTag map[Tag]Definition
}

type catalogFile struct {
	Types []Definition `yaml:"types"`
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("responsetype: parse catalog: %w", err)
	}
	if len(f.Types) == 0 {
		return nil, errors.New("responsetype: catalog is empty")
	}

	c := &Catalog{
		defs:  make([]Definition, 0, len(f.Types)),
		byTag: make(map[Tag]Definition, len(f.Types)),
	}
	for _, def := range f.Types {
		def.Tag = Tag(strings.TrimSpace(string(def.Tag)))
		if def.Tag == "" {
			return nil, errors.New("responsetype: catalog entry without tag")
		}
		if _, exists := c.byTag[def.Tag]; exists {
			return nil, fmt.Errorf("responsetype: duplicate tag %q", def.Tag)
		}
		switch def.Next {
		case StepNone, StepOptions, StepWordLimit:
		default:
			return nil, fmt.Errorf("responsetype: tag %q has unknown next step %q", def.Tag, def.Next)
		}
		if def.Label == "" {
			def.Label = string(def.Tag)
		}
		c.defs = append(c.defs, def)
		c.byTag[def.Tag] = def
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog, parsed once.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(catalogData)
	})
	return defaultCatalog, defaultErr
}

// Classify resolves a tag against the embedded catalog.
func Classify(tag string) (Classification, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return Classification{}, err
	}
	return c.Classify(tag)
}

// Classify resolves a tag to its step requirements.
func (c *Catalog) Classify(tag string) (Classification, error) {
	if c == nil {
		return Classification{}, errors.New("responsetype: catalog is nil")
	}
	def, ok := c.byTag[Tag(strings.TrimSpace(tag))]
	if !ok {
		return Classification{}, fmt.Errorf("%w: %q", ErrUnclassifiableType, tag)
	}
	return Classification{
		Tag:               def.Tag,
		RequiresOptions:   def.Next == StepOptions,
		RequiresWordLimit: def.Next == StepWordLimit,
		Next:              def.Next,
	}, nil
}

// Lookup returns the catalog entry for tag.
func (c *Catalog) Lookup(tag string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.byTag[Tag(strings.TrimSpace(tag))]
	return def, ok
}

// Definitions returns the entries in catalog order.
func (c *Catalog) Definitions() []Definition {
	if c == nil {
		return nil
	}
	return append([]Definition(nil), c.defs...)
}
