package events

// KindFinalReport identifies the terminal run report.
const KindFinalReport Kind = "final_report"

type ReportStatus string

const (
	StatusSuccess ReportStatus = "Success"
	StatusFailure ReportStatus = "Failure"
)

// FinalReport is the report the synthesizer compiles at the end of a run.
type FinalReport struct {
	Base
	Status         ReportStatus
	FinalStructure string
	// Validation carries the property measurements for the final
	// structure, including the original molecule's properties under
	// "original_props".
	Validation map[string]any
	// History is the full ordered conversation history of the run.
	History  []string
	Attempts int
	// ExecutiveSummary is the analyst-written prose summary of the cycle.
	ExecutiveSummary string
}

// NewFinalReport creates a final report event.
func NewFinalReport(status ReportStatus, finalStructure string) FinalReport {
	return FinalReport{Base: NewBase(KindFinalReport), Status: status, FinalStructure: finalStructure}
}

// Succeeded reports whether the pipeline marked the run successful.
func (r FinalReport) Succeeded() bool {
	return r.Status == StatusSuccess
}
