package epicycle

// Hooks into the terminal loop for the external tests
var (
	HandleKeyBoardEvent = (*View).handleKeyBoardEvent
	Exit                = (*View).exit
	Run                 = (*View).run
)
