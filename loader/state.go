package loader

// RunState tracks progress through the staged load pipeline.
// States advance strictly in order; any unhandled error aborts the run
// and the operator re-runs from the start, which is safe because every
// creation step uses replace semantics.
type RunState string

const (
	StateStart                RunState = "START"
	StateStageCreated         RunState = "STAGE_CREATED"
	StateStagePopulated       RunState = "STAGE_POPULATED"
	StateColumnsProfiled      RunState = "COLUMNS_PROFILED"
	StateDestinationCreated   RunState = "DESTINATION_CREATED"
	StateDestinationPopulated RunState = "DESTINATION_POPULATED"
	StateDone                 RunState = "DONE"
)
