package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// Report renders every Error as a human-readable line to w, the
// always-on output the CLI writes to stderr regardless of whether
// --sarif was also requested.
func Report(w io.Writer, errs []*Error) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}

// WriteSARIF renders errs as a SARIF 2.1.0 log, grounded on
// output.SARIFFormatter's own sarif.New/AddRule/AddResult shape — one
// rule per Kind actually present, one result per Error.
func WriteSARIF(w io.Writer, errs []*Error) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("duoc", "https://github.com/duallang/duoc")

	seenRules := map[Kind]bool{}
	for _, e := range errs {
		if seenRules[e.Kind] {
			continue
		}
		seenRules[e.Kind] = true
		run.AddRule(e.Kind.ruleID()).
			WithDescription(e.Kind.String()).
			WithName(e.Kind.String())
	}

	for _, e := range errs {
		result := run.CreateResultForRule(e.Kind.ruleID()).
			WithMessage(sarif.NewTextMessage(e.Message))
		if e.Module != "" {
			region := sarif.NewRegion().WithStartLine(e.Range.StartLine)
			if e.Range.StartCol > 0 {
				region.WithStartColumn(e.Range.StartCol)
			}
			location := sarif.NewLocation().
				WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(e.Module)).
						WithRegion(region),
				)
			result.AddLocation(location)
		}
	}

	report.AddRun(run)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
