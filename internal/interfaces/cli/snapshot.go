package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexfield/perm-engine/internal/application/casetrack"
	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

// loadCaseFacts reads a single case snapshot from a YAML or JSON file.  The
// format is chosen by extension; anything that is not .json is parsed as
// YAML, which also accepts JSON input.
func loadCaseFacts(path string) (*permcase.CaseDateFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}

	var facts permcase.CaseDateFacts
	if isJSONFile(path) {
		if err := json.Unmarshal(data, &facts); err != nil {
			return nil, fmt.Errorf("parse case file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &facts); err != nil {
			return nil, fmt.Errorf("parse case file %s: %w", path, err)
		}
	}
	return &facts, nil
}

// loadCaseRecords reads a list of identified case records, as consumed by
// the calendar, reminder and sweep commands.
func loadCaseRecords(path string) ([]casetrack.CaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}

	var records []casetrack.CaseRecord
	if isJSONFile(path) {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse cases file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse cases file %s: %w", path, err)
		}
	}
	return records, nil
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// parseAsOf resolves the --as-of flag: empty means today in the local
// timezone.
func parseAsOf(s string) (permcase.Date, error) {
	if s == "" {
		return permcase.Today(), nil
	}
	d, err := permcase.ParseDate(s)
	if err != nil {
		return permcase.Date{}, fmt.Errorf("invalid --as-of value %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}
