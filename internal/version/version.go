package version

const (
	Name    = "lakectl"
	Version = "0.1.0"
)
