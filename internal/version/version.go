package version

const (
	AppName    = "AquaBot"
	AppVersion = "0.3.0"
)
