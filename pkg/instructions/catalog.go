// Package instructions serves the use-case guidance documents bundled
// with the server. The catalog is loaded once from embedded files and
// is immutable afterwards, so lookups are safe for unlimited concurrent
// readers.
package instructions

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed docs/*.md
var docsFS embed.FS

// UseCase names one task category with bundled guidance.
type UseCase string

// The closed set of use cases. "ingest" is the canonical spelling for
// ingestion; "wap" is kept as an accepted alias because earlier tool
// surfaces used it.
const (
	UseCaseData     UseCase = "data"
	UseCaseIngest   UseCase = "ingest"
	UseCasePipeline UseCase = "pipeline"
	UseCaseRepair   UseCase = "repair"
	UseCaseTest     UseCase = "test"
	UseCaseSDK      UseCase = "sdk"
)

// aliases maps accepted alternate spellings to canonical use cases.
var aliases = map[string]UseCase{
	"wap": UseCaseIngest,
}

// Catalog maps use cases to their guidance documents.
type Catalog struct {
	docs map[UseCase]string
}

// Load reads the bundled documents. It fails only when the binary was
// built without one of the expected files.
func Load() (*Catalog, error) {
	cases := []UseCase{
		UseCaseData, UseCaseIngest, UseCasePipeline,
		UseCaseRepair, UseCaseTest, UseCaseSDK,
	}

	docs := make(map[UseCase]string, len(cases))
	for _, uc := range cases {
		data, err := docsFS.ReadFile("docs/" + string(uc) + ".md")
		if err != nil {
			return nil, fmt.Errorf("loading instructions for %q: %w", uc, err)
		}
		docs[uc] = string(data)
	}
	return &Catalog{docs: docs}, nil
}

// Lookup returns the guidance document for a use case. The key set is
// closed: unrecognized keys are a caller error that names the valid
// set, never a missing-document error.
func (c *Catalog) Lookup(useCase string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(useCase))

	uc := UseCase(key)
	if canonical, ok := aliases[key]; ok {
		uc = canonical
	}

	doc, ok := c.docs[uc]
	if !ok {
		return "", fmt.Errorf("invalid use_case %q, must be one of %s", useCase, strings.Join(c.ValidKeys(), ", "))
	}
	return doc, nil
}

// ValidKeys returns the accepted keys, canonical spellings plus
// aliases, sorted for stable error messages.
func (c *Catalog) ValidKeys() []string {
	keys := make([]string, 0, len(c.docs)+len(aliases))
	for uc := range c.docs {
		keys = append(keys, string(uc))
	}
	for alias := range aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	return keys
}
