package fare

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Keys of the flag-down row that seeds the cab estimator.
const (
	FareTypeFlagDown = "Flag-Down Fare"
	TaxiTypeStandard = "Standard"

	// DefaultFlagDownFare applies when the table has no usable flag-down row.
	DefaultFlagDownFare = 4.40
)

//go:embed transport_fare.json
var defaultFareTable []byte

// FareTableEntry is one row of the published taxi fare table.
type FareTableEntry struct {
	TaxiFareType string `json:"taxiFareType"`
	TaxiType     string `json:"taxiType"`
	Fare         string `json:"fare"`
}

// FareTable is static reference data loaded once at start. It is never
// mutated after construction, so it is safe for concurrent readers.
type FareTable struct {
	entries []FareTableEntry
}

// LoadFareTable reads the table from path, or the embedded copy when path is empty.
func LoadFareTable(path string) (*FareTable, error) {
	data := defaultFareTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fare table: %w", err)
		}
	}
	return ParseFareTable(data)
}

// ParseFareTable decodes a `{"taxiFareTable": [...]}` document.
func ParseFareTable(data []byte) (*FareTable, error) {
	var doc struct {
		TaxiFareTable []FareTableEntry `json:"taxiFareTable"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fare table: %w", err)
	}
	entries := make([]FareTableEntry, len(doc.TaxiFareTable))
	copy(entries, doc.TaxiFareTable)
	return &FareTable{entries: entries}, nil
}

// Len returns the number of rows.
func (t *FareTable) Len() int { return len(t.entries) }

// Lookup returns the first row matching fareType and taxiType.
func (t *FareTable) Lookup(fareType, taxiType string) (FareTableEntry, bool) {
	for _, e := range t.entries {
		if e.TaxiFareType == fareType && e.TaxiType == taxiType {
			return e, true
		}
	}
	return FareTableEntry{}, false
}

// FlagDownFare returns the lower bound of the standard flag-down range,
// or DefaultFlagDownFare when the row is absent or unreadable.
func (t *FareTable) FlagDownFare() float64 {
	entry, ok := t.Lookup(FareTypeFlagDown, TaxiTypeStandard)
	if !ok {
		return DefaultFlagDownFare
	}
	v, err := parseRangeLowerBound(entry.Fare)
	if err != nil {
		return DefaultFlagDownFare
	}
	return v
}

// parseRangeLowerBound reads "$4.40 - $4.80" as 4.40.
func parseRangeLowerBound(s string) (float64, error) {
	s = strings.ReplaceAll(s, "$", "")
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(s, 64)
}
