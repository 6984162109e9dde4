package prism

var (
	Debug  = false // set to true for verbose debug output
	PNG    = false // set to true to render the traced frame to PNG
	Record = false // set to true to record the traced frame into a session directory
	GIF    = false // set to true to render a full-turn rotation sweep of the first element
	// Zeroish merges boundary points and absorbs rounding error in containment tests.
	Zeroish = 1e-9
)
