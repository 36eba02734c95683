package config

// GroupWeights orders command groups in the help output.
var GroupWeights = map[string]int{
	"music":    0,
	"settings": 10,
	"info":     20,
}
