package ui

// View represents different UI views
type View int

const (
	ViewLoading View = iota
	ViewRuns
	ViewHelp
	ViewError
)
