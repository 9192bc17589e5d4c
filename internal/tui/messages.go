package tui

// modelLoadedMsg reports the end of an illustration switch.
type modelLoadedMsg struct {
	Ref string
	Err error
}

// ErrorMsg surfaces a message in the error banner.
type ErrorMsg struct {
	Message string
}
