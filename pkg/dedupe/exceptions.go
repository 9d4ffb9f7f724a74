package dedupe

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/namematch"
)

// ExceptionList names buildings that must never be merged with anything,
// even when geographically close and similarly named. The canonical example
// is a set of co-located, historically distinct sister buildings whose names
// differ only in a qualifier.
type ExceptionList struct {
	names []string
}

// defaultExceptionNames covers the Moscow "Seven Sisters": seven distinct
// Stalinist high-rises that share naming patterns and, in two cases, sit
// within a few hundred meters of each other.
var defaultExceptionNames = []string{
	"Seven Sisters",
	"Hotel Ukraina",
	"Moscow State University Main Building",
	"Kotelnicheskaya Embankment Building",
	"Kudrinskaya Square Building",
	"Hotel Leningradskaya",
	"Red Gates Administrative Building",
	"Ministry of Foreign Affairs Building",
}

// DefaultExceptions returns the built-in exception list.
func DefaultExceptions() *ExceptionList {
	return NewExceptionList(defaultExceptionNames)
}

// NewExceptionList builds an exception list from building names.
func NewExceptionList(names []string) *ExceptionList {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if nn := namematch.Normalize(n); nn != "" {
			normalized = append(normalized, nn)
		}
	}
	return &ExceptionList{names: normalized}
}

// exceptionsFile is the YAML shape of an exception list on disk.
type exceptionsFile struct {
	Exceptions []string `yaml:"exceptions"`
}

// LoadExceptions reads an exception list from a YAML file of the form:
//
//	exceptions:
//	  - Hotel Ukraina
//	  - Kotelnicheskaya Embankment Building
func LoadExceptions(path string) (*ExceptionList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("exceptions", "reading exception list", err)
	}
	var file exceptionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return NewExceptionList(file.Exceptions), nil
}

// Matches reports whether a record name belongs to the exception list.
// Matching uses the stricter base-name aliasing check so qualified variants
// ("Hotel Ukraina (Radisson Royal)") still hit their exception entry.
func (e *ExceptionList) Matches(name string) bool {
	if e == nil {
		return false
	}
	for _, exception := range e.names {
		if namematch.SharesSignificantPortion(name, exception) {
			return true
		}
	}
	return false
}

// Len returns the number of configured exceptions.
func (e *ExceptionList) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names)
}
