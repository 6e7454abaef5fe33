package logging

import "go.uber.org/zap"

// New builds the process logger. mode "prod"/"production" selects the JSON
// production config, anything else the console development config.
func New(mode string) (*zap.Logger, error) {
	switch mode {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
