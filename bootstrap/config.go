package bootstrap

import (
	"github.com/kbukum/voicenotes/config"
)

// Config is the constraint for application configuration types. A struct
// embedding config.ServiceConfig gets GetServiceConfig for free and only
// adds its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
