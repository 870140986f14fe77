package strategy

// Scenario names the decision point a table node covers. Tables may use any
// name; the ones below are those the fallback policy and sweeps know about.
type Scenario string

const (
	Open      Scenario = "Open"
	FirstIn   Scenario = "FirstIn"
	VsOpen    Scenario = "VsOpen"
	VsShove   Scenario = "VsShove"
	VsSqueeze Scenario = "VsSqueeze"
)

// Opening reports whether the scenario is first to act, which never has an
// opponent dimension.
func (s Scenario) Opening() bool {
	return s == Open || s == FirstIn
}
