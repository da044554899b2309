// ABOUTME: Tier parametrizes the roadblock assembler per escalation level
// ABOUTME: Named presets plus YAML catalogs replace one roadblock type per level
package roadblock

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownTier is returned when a tier name has no preset or catalog entry
	ErrUnknownTier = errors.New("unknown tier")
	// ErrInvalidTier wraps tier validation failures
	ErrInvalidTier = errors.New("invalid tier")
)

// BackupUnit is the kind of unit manning a slot
type BackupUnit string

const (
	BackupNone    BackupUnit = "none"
	BackupLocal   BackupUnit = "local"
	BackupState   BackupUnit = "state"
	BackupFederal BackupUnit = "federal"
	BackupSwat    BackupUnit = "swat"
)

// Range is an inclusive integer range
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r Range) valid() bool {
	return r.Min >= 0 && r.Min <= r.Max
}

// VehicleModel is a vehicle the tier may park across a lane
type VehicleModel struct {
	Model  string  `json:"model" yaml:"model"`
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
}

// BarrierModel is the prop row placed in front of each slot
type BarrierModel struct {
	Model   string  `json:"model" yaml:"model"`
	Width   float64 `json:"width" yaml:"width"`
	Spacing float64 `json:"spacing" yaml:"spacing"`
	Offset  float64 `json:"offset" yaml:"offset"`
}

// LightPattern is the light row placed ahead of the barriers
type LightPattern struct {
	Model  string  `json:"model" yaml:"model"`
	Count  int     `json:"count" yaml:"count"`
	Offset float64 `json:"offset" yaml:"offset"`
}

// Tier configures one escalation level of roadblock
type Tier struct {
	Name           string         `json:"name" yaml:"name"`
	Level          int            `json:"level" yaml:"level"`
	MaxSlots       int            `json:"max_slots" yaml:"max_slots"`
	VehicleRange   Range          `json:"vehicle_range" yaml:"vehicle_range"`
	Vehicles       []VehicleModel `json:"vehicles" yaml:"vehicles"`
	Occupants      Range          `json:"occupants" yaml:"occupants"`
	OccupantModels []string       `json:"occupant_models" yaml:"occupant_models"`
	Barrier        BarrierModel   `json:"barrier" yaml:"barrier"`
	Lights         LightPattern   `json:"lights" yaml:"lights"`
	OppositeLanes  bool           `json:"opposite_lanes" yaml:"opposite_lanes"`
	SpeedZone      bool           `json:"speed_zone" yaml:"speed_zone"`
	SpeedLimit     float64        `json:"speed_limit" yaml:"speed_limit"`
	Blip           bool           `json:"blip" yaml:"blip"`
	Backup         BackupUnit     `json:"backup" yaml:"backup"`
}

// Validate checks the tier can drive the assembler
func (t Tier) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidTier)
	}
	if t.MaxSlots < 0 {
		return fmt.Errorf("%w %s: max_slots cannot be negative", ErrInvalidTier, t.Name)
	}
	if !t.VehicleRange.valid() {
		return fmt.Errorf("%w %s: vehicle range %d-%d", ErrInvalidTier, t.Name, t.VehicleRange.Min, t.VehicleRange.Max)
	}
	if t.VehicleRange.Max > 0 && len(t.Vehicles) == 0 {
		return fmt.Errorf("%w %s: vehicles required when vehicle range is non-zero", ErrInvalidTier, t.Name)
	}
	for _, v := range t.Vehicles {
		if v.Model == "" || v.Length <= 0 {
			return fmt.Errorf("%w %s: vehicle %q needs a model and positive length", ErrInvalidTier, t.Name, v.Model)
		}
	}
	if !t.Occupants.valid() {
		return fmt.Errorf("%w %s: occupant range %d-%d", ErrInvalidTier, t.Name, t.Occupants.Min, t.Occupants.Max)
	}
	if t.Occupants.Max > 0 && len(t.OccupantModels) == 0 {
		return fmt.Errorf("%w %s: occupant models required when occupants are configured", ErrInvalidTier, t.Name)
	}
	if t.Barrier.Model != "" && t.Barrier.Spacing <= 0 {
		return fmt.Errorf("%w %s: barrier spacing must be positive", ErrInvalidTier, t.Name)
	}
	if t.Lights.Count < 0 {
		return fmt.Errorf("%w %s: light count cannot be negative", ErrInvalidTier, t.Name)
	}
	if t.SpeedZone && t.SpeedLimit < 0 {
		return fmt.Errorf("%w %s: speed limit cannot be negative", ErrInvalidTier, t.Name)
	}
	return nil
}

// HasVehicles reports whether any slot can receive a vehicle
func (t Tier) HasVehicles() bool {
	return t.VehicleRange.Max > 0
}

var (
	cone = BarrierModel{Model: "prop_roadcone02a", Width: 0.5, Spacing: 1.5, Offset: 4}

	presets = map[string]Tier{
		"local": {
			Name:           "local",
			Level:          1,
			MaxSlots:       2,
			VehicleRange:   Range{Min: 1, Max: 2},
			Vehicles:       []VehicleModel{{Model: "police", Length: 5.0, Width: 2.0}, {Model: "police2", Length: 5.1, Width: 2.0}},
			Occupants:      Range{Min: 1, Max: 1},
			OccupantModels: []string{"s_m_y_cop_01", "s_f_y_cop_01"},
			Barrier:        cone,
			Blip:           true,
			Backup:         BackupLocal,
		},
		"state": {
			Name:           "state",
			Level:          2,
			VehicleRange:   Range{Min: 2, Max: 3},
			Vehicles:       []VehicleModel{{Model: "sheriff", Length: 5.1, Width: 2.0}, {Model: "sheriff2", Length: 5.4, Width: 2.2}},
			Occupants:      Range{Min: 1, Max: 2},
			OccupantModels: []string{"s_m_y_sheriff_01", "s_f_y_sheriff_01"},
			Barrier:        BarrierModel{Model: "prop_barrier_work05", Width: 2.5, Spacing: 3, Offset: 4},
			Lights:         LightPattern{Model: "prop_flare_01", Count: 2, Offset: 8},
			SpeedZone:      true,
			SpeedLimit:     5,
			Blip:           true,
			Backup:         BackupState,
		},
		"federal": {
			Name:           "federal",
			Level:          3,
			VehicleRange:   Range{Min: 2, Max: 4},
			Vehicles:       []VehicleModel{{Model: "fbi", Length: 5.2, Width: 2.0}, {Model: "fbi2", Length: 5.7, Width: 2.3}},
			Occupants:      Range{Min: 2, Max: 2},
			OccupantModels: []string{"s_m_m_fibsec_01", "mp_m_fibsec_01"},
			Barrier:        BarrierModel{Model: "prop_mp_barrier_02b", Width: 2.8, Spacing: 3.2, Offset: 4.5},
			Lights:         LightPattern{Model: "prop_air_lights_02a", Count: 2, Offset: 9},
			OppositeLanes:  true,
			SpeedZone:      true,
			SpeedLimit:     5,
			Blip:           true,
			Backup:         BackupFederal,
		},
		"swat": {
			Name:           "swat",
			Level:          4,
			VehicleRange:   Range{Min: 3, Max: 6},
			Vehicles:       []VehicleModel{{Model: "riot", Length: 6.8, Width: 2.8}, {Model: "fbi2", Length: 5.7, Width: 2.3}},
			Occupants:      Range{Min: 2, Max: 4},
			OccupantModels: []string{"s_m_y_swat_01"},
			Barrier:        BarrierModel{Model: "prop_mp_barrier_02b", Width: 2.8, Spacing: 3.2, Offset: 5},
			Lights:         LightPattern{Model: "prop_air_lights_02a", Count: 3, Offset: 10},
			OppositeLanes:  true,
			SpeedZone:      true,
			SpeedLimit:     3,
			Blip:           true,
			Backup:         BackupSwat,
		},
		"closure": {
			Name:          "closure",
			Level:         0,
			VehicleRange:  Range{Min: 0, Max: 0},
			Occupants:     Range{Min: 0, Max: 0},
			Barrier:       BarrierModel{Model: "prop_roadcone02a", Width: 0.5, Spacing: 1.2, Offset: 2},
			Lights:        LightPattern{Model: "prop_flare_01", Count: 2, Offset: 6},
			OppositeLanes: true,
			SpeedZone:     true,
			SpeedLimit:    5,
			Backup:        BackupNone,
		},
	}
)

// PresetTiers returns the built-in tiers ordered by level
func PresetTiers() []Tier {
	tiers := make([]Tier, 0, len(presets))
	for _, t := range presets {
		tiers = append(tiers, cloneTier(t))
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	return tiers
}

// TierByName returns the built-in tier with the given name
func TierByName(name string) (Tier, error) {
	t, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, name)
	}
	return cloneTier(t), nil
}

// ClosureTier is the tier used to close a road without police units
func ClosureTier() Tier {
	t, _ := TierByName("closure")
	return t
}

// Catalog is a set of tiers keyed by name
type Catalog map[string]Tier

type catalogFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers reads a YAML tier catalog. Every tier is validated.
func LoadTiers(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tier catalog: %w", err)
	}
	return ParseTiers(data)
}

// ParseTiers decodes a YAML tier catalog
func ParseTiers(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tier catalog: %w", err)
	}

	catalog := make(Catalog, len(file.Tiers))
	for _, t := range file.Tiers {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(t.Name)
		if _, dup := catalog[key]; dup {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidTier, t.Name)
		}
		catalog[key] = t
	}
	return catalog, nil
}

// Lookup finds name in the catalog, falling back to the presets
func (c Catalog) Lookup(name string) (Tier, error) {
	if t, ok := c[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cloneTier(t), nil
	}
	return TierByName(name)
}

// All returns the presets merged with the catalog, ordered by level then name.
// Catalog entries replace presets of the same name.
func (c Catalog) All() []Tier {
	merged := make(map[string]Tier, len(presets)+len(c))
	for k, t := range presets {
		merged[k] = t
	}
	for k, t := range c {
		merged[k] = t
	}
	tiers := make([]Tier, 0, len(merged))
	for _, t := range merged {
		tiers = append(tiers, cloneTier(t))
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].Level != tiers[j].Level {
			return tiers[i].Level < tiers[j].Level
		}
		return tiers[i].Name < tiers[j].Name
	})
	return tiers
}

func cloneTier(t Tier) Tier {
	t.Vehicles = append([]VehicleModel(nil), t.Vehicles...)
	t.OccupantModels = append([]string(nil), t.OccupantModels...)
	return t
}
