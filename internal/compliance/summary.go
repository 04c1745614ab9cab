package compliance

import "github.com/username/fleet-compliance-api/internal/document"

// Result pairs a requirement with its resolution.
type Result struct {
	Requirement Requirement
	Resolution  Resolution
}

// Summary is the per-client compliance rollup.
type Summary struct {
	Required   int             `json:"required"`
	Compliant  int             `json:"compliant"`
	Percentage float64         `json:"percentage"`
	Critical   []document.Type `json:"critical"`
}

// Summarize computes compliant/required*100 over required requirements only. A client with
// no required requirements is fully compliant.
func Summarize(results []Result) Summary {
	s := Summary{Critical: []document.Type{}}
	for _, r := range results {
		if !r.Requirement.IsRequired {
			continue
		}
		s.Required++
		if r.Resolution.ComplianceStatus == Compliant {
			s.Compliant++
		}
		if r.Resolution.ComplianceStatus.Critical() {
			s.Critical = append(s.Critical, r.Requirement.DocumentType)
		}
	}

	if s.Required == 0 {
		s.Percentage = 100
	} else {
		s.Percentage = float64(s.Compliant) / float64(s.Required) * 100
	}
	return s
}
