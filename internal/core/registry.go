package core

// lookup resolves both canonical names and aliases; ordered keeps each
// command once, in registration order, for stable listings.
var (
	lookup  = map[string]Command{}
	ordered []Command
)

// RegisterCommand makes cmd reachable under its name and every alias.
// Registering the same name twice replaces the lookup entry but not the
// listing slot.
func RegisterCommand(cmd Command) {
	if _, exists := lookup[cmd.Name()]; !exists {
		ordered = append(ordered, cmd)
	}
	lookup[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		lookup[a] = cmd
	}
}

// GetCommand resolves a name or alias to its command.
func GetCommand(name string) (Command, bool) {
	cmd, ok := lookup[name]
	return cmd, ok
}

// AllCommands lists every registered command once, aliases folded in,
// in registration order.
func AllCommands() []Command {
	out := make([]Command, len(ordered))
	copy(out, ordered)
	return out
}
