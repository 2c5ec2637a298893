package application

const (
	// AppName is the application name used for directories and identification
	AppName = "pullr"

	// Version is the released version string
	Version = "0.1.0"
)
