package optimizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/saveplan/internal/models"
)

//go:embed mock_result.yaml
var mockResultYAML []byte

// MockResult returns the fixed demo plan shown when the backend is unreachable.
// Each call returns a fresh copy.
func MockResult() *models.OptimizationResult {
	var result models.OptimizationResult
	if err := yaml.Unmarshal(mockResultYAML, &result); err != nil {
		// The fixture is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("optimizer: invalid embedded mock result: %v", err))
	}
	result.Mock = true
	return &result
}
