package entity

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Cost classes for airlines.
const (
	CostNormal = "normal-cost"
	CostLow    = "low-cost"
)

// Day segments and the "don't care" sentinel used by time preferences.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeAll       = "all"
)

// Cabin classes and the "don't care" sentinel.
const (
	ClassEconomy  = "economy"
	ClassBusiness = "business"
	ClassAll      = "all"
)

// MaxConnectionsAny is the sentinel meaning no connection constraint.
const MaxConnectionsAny = 2

// FactTable holds the static priors and known facts that parameterize
// sampling. Loaded once per run and shared read-only.
type FactTable struct {
	Airlines map[string]string `yaml:"airlines"` // code -> cost class

	PriceLimits []int `yaml:"price_limits"`

	TimeChoices []string  `yaml:"time_choices"`
	TimePrior   []float64 `yaml:"time_prior"`

	AirlinePreferences     []string  `yaml:"airline_preferences"`
	AirlinePreferencePrior []float64 `yaml:"airline_preference_prior"`

	FlightPriceMean     map[string]int     `yaml:"flight_price_mean"`
	PriceNormStd        map[int]float64    `yaml:"price_norm_std"` // keyed by connections
	LowCostMeanFraction map[string]float64 `yaml:"low_cost_mean_fraction"`

	ClassMembers []string  `yaml:"class_members"`
	ClassPrior   []float64 `yaml:"class_prior"`

	ClassChoices     []string  `yaml:"class_choices"`
	ClassChoicePrior []float64 `yaml:"class_choice_prior"`

	ConnectionMembers []int     `yaml:"connection_members"`
	ConnectionPrior   []float64 `yaml:"connection_prior"`

	FirstNames []string `yaml:"first_names"`
	LastNames  []string `yaml:"last_names"`

	AirportCodes []string          `yaml:"airport_codes"`
	AirportNames map[string]string `yaml:"airport_names"`

	Months []string `yaml:"months"`

	ReservationProb float64   `yaml:"reservation_prob"`
	GoalPrior       []float64 `yaml:"goal_prior"` // book, change, cancel

	BaseDepartureEpoch int64 `yaml:"base_departure_epoch"`
	TimeDeviation      int64 `yaml:"time_deviation"` // seconds
}

// DefaultFactTable returns the built-in fact table. The name and airport
// lists can be replaced from a reference store or a YAML override file.
func DefaultFactTable() *FactTable {
	return &FactTable{
		Airlines: map[string]string{
			"UA":        CostNormal,
			"AA":        CostNormal,
			"Delta":     CostNormal,
			"Hawaiian":  CostNormal,
			"Southwest": CostLow,
			"Frontier":  CostLow,
			"JetBlue":   CostLow,
			"Spirit":    CostLow,
		},
		PriceLimits: []int{200, 500, 1000, 5000},

		TimeChoices: []string{TimeMorning, TimeAfternoon, TimeEvening, TimeAll},
		TimePrior:   []float64{0.03, 0.04, 0.03, 0.9},

		AirlinePreferences:     []string{CostNormal, "all"},
		AirlinePreferencePrior: []float64{0.05, 0.95},

		FlightPriceMean:     map[string]int{ClassEconomy: 300, ClassBusiness: 1300},
		PriceNormStd:        map[int]float64{0: 0.2, 1: 0.4, 2: 0.6},
		LowCostMeanFraction: map[string]float64{ClassEconomy: 0.7, ClassBusiness: 0.5},

		ClassMembers: []string{ClassEconomy, ClassBusiness},
		ClassPrior:   []float64{0.9, 0.1},

		ClassChoices:     []string{ClassAll, ClassEconomy, ClassBusiness},
		ClassChoicePrior: []float64{0.9, 0.07, 0.03},

		ConnectionMembers: []int{0, 1, 2},
		ConnectionPrior:   []float64{0.07, 0.9, 0.03},

		FirstNames: []string{
			"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
			"Michael", "Linda", "William", "Elizabeth", "David", "Barbara",
			"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
			"Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
		},
		LastNames: []string{
			"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
			"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
			"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
			"Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		},

		AirportCodes: []string{
			"ATL", "LAX", "ORD", "DFW", "DEN", "JFK", "SFO", "SEA",
			"LAS", "MCO", "EWR", "CLT", "PHX", "IAH", "MIA", "BOS",
			"MSP", "DTW", "PHL", "LGA", "IAD", "OAK", "HOU", "DCA",
		},
		AirportNames: map[string]string{
			"ATL": "Atlanta", "LAX": "Los Angeles", "ORD": "Chicago",
			"DFW": "Dallas", "DEN": "Denver", "JFK": "New York",
			"SFO": "San Francisco", "SEA": "Seattle", "LAS": "Las Vegas",
			"MCO": "Orlando", "EWR": "Newark", "CLT": "Charlotte",
			"PHX": "Phoenix", "IAH": "Houston", "MIA": "Miami",
			"BOS": "Boston", "MSP": "Minneapolis", "DTW": "Detroit",
			"PHL": "Philadelphia", "LGA": "New York", "IAD": "Washington",
			"OAK": "Oakland", "HOU": "Houston", "DCA": "Washington",
		},

		Months: []string{
			"Jan", "Feb", "Mar", "Apr", "May", "June",
			"July", "Aug", "Sept", "Oct", "Nov", "Dec",
		},

		ReservationProb: 0.10,
		GoalPrior:       []float64{0.80, 0.1, 0.1},

		BaseDepartureEpoch: 1300000000,
		TimeDeviation:      3600 * 12,
	}
}

// LoadFactTable reads a YAML override file and merges it over the defaults.
// Only fields present in the file replace the built-in values.
func LoadFactTable(path string) (*FactTable, error) {
	facts := DefaultFactTable()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fact table %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, facts); err != nil {
		return nil, fmt.Errorf("parse fact table %s: %w", path, err)
	}
	if err := facts.Validate(); err != nil {
		return nil, err
	}
	return facts, nil
}

const priorTolerance = 1e-3

// Validate checks that every categorical prior is a proper distribution and
// matches its member list. An invalid prior is a configuration bug and must
// stop the run before any sampling happens.
func (f *FactTable) Validate() error {
	priors := []struct {
		name    string
		members int
		prior   []float64
	}{
		{"time_prior", len(f.TimeChoices), f.TimePrior},
		{"airline_preference_prior", len(f.AirlinePreferences), f.AirlinePreferencePrior},
		{"class_prior", len(f.ClassMembers), f.ClassPrior},
		{"class_choice_prior", len(f.ClassChoices), f.ClassChoicePrior},
		{"connection_prior", len(f.ConnectionMembers), f.ConnectionPrior},
		{"goal_prior", len(Goals), f.GoalPrior},
	}
	for _, p := range priors {
		if len(p.prior) != p.members {
			return fmt.Errorf("%s has %d weights for %d members", p.name, len(p.prior), p.members)
		}
		sum := 0.0
		for _, w := range p.prior {
			if w < 0 {
				return fmt.Errorf("%s contains a negative weight", p.name)
			}
			sum += w
		}
		if math.Abs(sum-1) > priorTolerance {
			return fmt.Errorf("%s sums to %v, expected 1", p.name, sum)
		}
	}
	if len(f.AirportCodes) < 2 {
		return fmt.Errorf("need at least 2 airport codes, got %d", len(f.AirportCodes))
	}
	if len(f.FirstNames) == 0 || len(f.LastNames) == 0 {
		return fmt.Errorf("first and last name lists must not be empty")
	}
	if len(f.Months) != 12 {
		return fmt.Errorf("months list has %d entries, expected 12", len(f.Months))
	}
	if len(f.PriceLimits) < 2 {
		return fmt.Errorf("price limit list needs at least 2 tiers, got %d", len(f.PriceLimits))
	}
	return nil
}

// CostClass returns the cost classification for an airline code, defaulting
// to normal-cost for unknown codes.
func (f *FactTable) CostClass(airline string) string {
	if c, ok := f.Airlines[airline]; ok {
		return c
	}
	return CostNormal
}

// AirlineCodes returns the airline codes in a stable order so that sampling
// stays reproducible under a fixed seed.
func (f *FactTable) AirlineCodes() []string {
	codes := make([]string, 0, len(f.Airlines))
	for code := range f.Airlines {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MonthIndex returns the 1-based month index of a month name, or 0 if the
// name is unknown.
func (f *FactTable) MonthIndex(month string) int {
	for i, m := range f.Months {
		if m == month {
			return i + 1
		}
	}
	return 0
}

// ApplyReference replaces the fact lists that can come from a reference
// store. Empty arguments leave the corresponding defaults untouched.
func (f *FactTable) ApplyReference(airlines map[string]string, airports map[string]string, firstNames, lastNames []string) {
	if len(airlines) > 0 {
		f.Airlines = airlines
	}
	if len(airports) > 0 {
		codes := make([]string, 0, len(airports))
		for code := range airports {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		f.AirportCodes = codes
		f.AirportNames = airports
	}
	if len(firstNames) > 0 {
		f.FirstNames = firstNames
	}
	if len(lastNames) > 0 {
		f.LastNames = lastNames
	}
}
