package entities

// StepState is the display state of one checklist entry.
type StepState string

const (
	StepStateCompleted  StepState = "completed"
	StepStateInProgress StepState = "in_progress"
	StepStatePending    StepState = "pending"
)

// ProcessingStepNames is the fixed ordered checklist shown while a report is
// being assembled. ProcessingStep on the purchase indexes into this list.
var ProcessingStepNames = [6]string{
	"validate_document",
	"fetch_registration_data",
	"fetch_financial_records",
	"fetch_legal_records",
	"compile_report",
	"deliver_report",
}

// StepView is one checklist entry projected for display.
type StepView struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	State StepState `json:"state"`
}

// ProcessingSteps projects (processingStep, status) onto the checklist. Pure
// read-only: safe to compute on every request. The current step is in_progress
// only while the worker is actually running.
func ProcessingSteps(current int, status PurchaseStatus) []StepView {
	views := make([]StepView, len(ProcessingStepNames))
	for i, name := range ProcessingStepNames {
		state := StepStatePending
		switch {
		case i < current:
			state = StepStateCompleted
		case i == current && status == PurchaseStatusProcessing:
			state = StepStateInProgress
		}
		views[i] = StepView{Index: i, Name: name, State: state}
	}
	return views
}
