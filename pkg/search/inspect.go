package search

import (
	libinjection "github.com/corazawaf/libinjection-go"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/query"
)

// Finding is a filter value that looks like SQL injection.
type Finding struct {
	Field       string
	Value       string
	Fingerprint string
}

// Inspect reports filter values matching libinjection fingerprints. Values
// are always bound as parameters, so findings are for audit only.
func Inspect(spec query.FilterSpec) []Finding {
	var findings []Finding
	for _, field := range spec.Fields() {
		values, _ := spec.Values(field)
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if isSQLi, fingerprint := libinjection.IsSQLi(s); isSQLi {
				findings = append(findings, Finding{Field: field, Value: s, Fingerprint: fingerprint})
			}
		}
	}
	return findings
}

// LogFindings writes one warning per finding.
func LogFindings(logger *zap.Logger, findings []Finding) {
	for _, f := range findings {
		logger.Warn("Suspicious search value",
			zap.String("field", f.Field),
			zap.String("fingerprint", f.Fingerprint))
	}
}
