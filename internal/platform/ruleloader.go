package platform

import (
	"github.com/specialistvlad/makeplatform/internal/perrors"
	"github.com/specialistvlad/makeplatform/internal/projectconfig"
)

// evaluateRuleFile decodes the HCL rule file at path into the platform's
// project config, wrapping any failure as a RuleEvaluationError so callers
// can tell which file was at fault (spec.md §4.2 step 4).
func (p *Platform) evaluateRuleFile(path string) error {
	if err := projectconfig.EvaluateFile(p.projectConfig, path); err != nil {
		return &perrors.RuleEvaluationError{File: path, Err: err}
	}
	return nil
}
