package psi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/encounter"
)

// Population types declared by the indicator definitions.
const (
	PopulationAdult            = "adult"
	PopulationNewbornOnly      = "newborn_only"
	PopulationMaternal         = "maternal_obstetric"
	PopulationElectiveSurgical = "elective_surgical_only"
	PopulationSurgical         = "surgical_only"
	PopulationAbdominopelvic   = "abdominopelvic_surgical"
	PopulationMedicalSurgical  = "medical_and_surgical"
)

// Definition is the per-indicator metadata consulted by the base
// eligibility filter: the population type and any extra fields the
// definition declares as required for data quality.
type Definition struct {
	PopulationType string
	RequiredFields []string
}

// Definitions maps indicator code (e.g. "PSI_03") to its definition.
type Definitions map[string]Definition

// fieldAliases maps legacy field names used in definition files to the
// canonical encounter schema names.
var fieldAliases = map[string]string{
	"DISP": encounter.FieldDischargeDisposition,
}

// definition file shape
type defsFile struct {
	Data map[string]struct {
		Indicator struct {
			PopulationType string `json:"population_type"`
		} `json:"indicator"`
		ExclusionCriteria []struct {
			Category string `json:"category"`
			Rules    []struct {
				Description string `json:"description"`
				Fields      []struct {
					Name string `json:"name"`
				} `json:"fields"`
			} `json:"rules"`
		} `json:"exclusion_criteria"`
	} `json:"data"`
}

// LoadDefinitions parses an indicator definition document. Rule groups
// other than data_quality are ignored here; their logic lives in the
// evaluators themselves.
func LoadDefinitions(r io.Reader) (Definitions, error) {
	var f defsFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode indicator definitions: %w", err)
	}

	defs := make(Definitions, len(f.Data))
	for code, entry := range f.Data {
		d := Definition{PopulationType: entry.Indicator.PopulationType}
		seen := make(map[string]bool)
		for _, group := range entry.ExclusionCriteria {
			if group.Category != "data_quality" {
				continue
			}
			for _, rule := range group.Rules {
				if rule.Description != "Missing required fields" {
					continue
				}
				for _, field := range rule.Fields {
					name := field.Name
					if alias, ok := fieldAliases[name]; ok {
						name = alias
					}
					if !seen[name] {
						seen[name] = true
						d.RequiredFields = append(d.RequiredFields, name)
					}
				}
			}
		}
		defs[code] = d
	}
	return defs, nil
}

// LoadDefinitionsFile loads definitions from disk. A missing or malformed
// file yields empty definitions and a logged warning; evaluation still
// proceeds with the universal required-field rules.
func LoadDefinitionsFile(path string, logger *zap.Logger) Definitions {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("indicator definition file not readable", zap.String("path", path), zap.Error(err))
		return Definitions{}
	}
	defer f.Close()

	defs, err := LoadDefinitions(f)
	if err != nil {
		logger.Warn("indicator definition file malformed", zap.String("path", path), zap.Error(err))
		return Definitions{}
	}
	logger.Info("indicator definitions loaded", zap.Int("indicators", len(defs)))
	return defs
}
