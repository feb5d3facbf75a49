package network

// Command is a tagged tuple enqueued by a web-facing collaborator and
// drained by the radio loop, at most one per cycle. The only recognised
// Kind today is "register"; others are logged and ignored.
type Command struct {
	Kind string
	Name string
	MAC  uint32
}

// CommandKindRegister matches the original source's ("register", (name, mac))
// tuple tag.
const CommandKindRegister = "register"
