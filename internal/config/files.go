package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mfeldt/staffplan/internal/calibration"
)

// RolesConfig describes per-role planning parameters (roles.yaml).
type RolesConfig struct {
	UtilizationTargets map[string]float64            `yaml:"utilization_targets"`
	Rates              map[string]map[string]float64 `yaml:"rates"`
	Seniority          map[string]string             `yaml:"seniority"`
	DefaultRate        float64                       `yaml:"default_rate"`
}

// WeightsConfig describes plan-shaping weights (weights.yaml): the static
// role mix, minimum team composition per project type, the SOW id to
// contract id mapping and the calibration block.
type WeightsConfig struct {
	RoleMix            map[string]float64        `yaml:"role_mix"`
	DefaultProjectType string                    `yaml:"default_project_type"`
	MinTeamComposition map[string]map[string]int `yaml:"min_team_composition"`
	SOWContracts       map[string]string         `yaml:"sow_contracts"`
	Calibration        CalibrationConfig         `yaml:"calibration"`
}

// CalibrationConfig mirrors the calibration block of weights.yaml. Pointer
// fields distinguish "unset" from explicit zeros.
type CalibrationConfig struct {
	AIConfidence         *float64 `yaml:"ai_confidence"`
	HistoricalConfidence *float64 `yaml:"historical_confidence"`
	MinSimilarContracts  *int     `yaml:"min_similar_contracts"`
	SimilarityThreshold  *float64 `yaml:"similarity_threshold"`
	FallbackStrategy     string   `yaml:"fallback_strategy"`
}

// LoadRoles reads roles.yaml. A missing file yields the zero config (all
// defaults apply through the accessors); an unparsable file is an error.
func LoadRoles(path string) (*RolesConfig, error) {
	var cfg RolesConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWeights reads weights.yaml with the same missing-file semantics as
// LoadRoles.
func LoadWeights(path string) (*WeightsConfig, error) {
	var cfg WeightsConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// UtilizationTarget returns the billable-fraction target for a role,
// defaulting to 0.8 when unconfigured.
func (c *RolesConfig) UtilizationTarget(role string) float64 {
	if v, ok := c.UtilizationTargets[strings.ToLower(role)]; ok {
		return v
	}
	return 0.8
}

// Rate returns the hourly rate for a role and seniority, falling back to the
// configured default rate (200 when unset).
func (c *RolesConfig) Rate(role, seniority string) float64 {
	if byLevel, ok := c.Rates[strings.ToLower(role)]; ok {
		if v, ok := byLevel[strings.ToLower(seniority)]; ok {
			return v
		}
	}
	if c.DefaultRate > 0 {
		return c.DefaultRate
	}
	return 200
}

// SeniorityLevel returns the seniority label for a role. Unconfigured
// management roles map to "senior", everything else to "junior".
func (c *RolesConfig) SeniorityLevel(role string) string {
	key := strings.ToLower(role)
	if v, ok := c.Seniority[key]; ok {
		return v
	}
	switch key {
	case "senior", "manager", "partner":
		return "senior"
	}
	return "junior"
}

// ProjectType returns the configured default project type.
func (c *WeightsConfig) ProjectType() string {
	if c.DefaultProjectType != "" {
		return c.DefaultProjectType
	}
	return "project"
}

// MinTeam returns the minimum headcount per role for a project type,
// defaulting to one account manager and one designer.
func (c *WeightsConfig) MinTeam(projectType string) map[string]int {
	if team, ok := c.MinTeamComposition[strings.ToLower(projectType)]; ok {
		return team
	}
	return map[string]int{"account_manager": 1, "designer": 1}
}

// Settings converts the calibration block into engine settings, applying
// defaults for any unset field.
func (c *WeightsConfig) Settings() calibration.Settings {
	s := calibration.DefaultSettings()
	if c.Calibration.AIConfidence != nil {
		s.AIConfidence = *c.Calibration.AIConfidence
	}
	if c.Calibration.HistoricalConfidence != nil {
		s.HistoricalConfidence = *c.Calibration.HistoricalConfidence
	}
	if c.Calibration.MinSimilarContracts != nil {
		s.MinSimilarContracts = *c.Calibration.MinSimilarContracts
	}
	if c.Calibration.SimilarityThreshold != nil {
		s.SimilarityThreshold = *c.Calibration.SimilarityThreshold
	}
	if c.Calibration.FallbackStrategy != "" {
		s.FallbackStrategy = c.Calibration.FallbackStrategy
	}
	return s
}
