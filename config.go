package cmsadmin

import "github.com/goliatone/go-cms-admin/internal/runtimeconfig"

var (
	ErrBaseURLRequired         = runtimeconfig.ErrBaseURLRequired
	ErrBaseURLInvalid          = runtimeconfig.ErrBaseURLInvalid
	ErrTimeoutInvalid          = runtimeconfig.ErrTimeoutInvalid
	ErrPageSizeInvalid         = runtimeconfig.ErrPageSizeInvalid
	ErrSortDirectionInvalid    = runtimeconfig.ErrSortDirectionInvalid
	ErrSettingsProviderUnknown = runtimeconfig.ErrSettingsProviderUnknown
	ErrSettingsDSNRequired     = runtimeconfig.ErrSettingsDSNRequired
	ErrSettingsKeyRequired     = runtimeconfig.ErrSettingsKeyRequired
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrHandoffDelayInvalid     = runtimeconfig.ErrHandoffDelayInvalid
)

type (
	Config           = runtimeconfig.Config
	APIConfig        = runtimeconfig.APIConfig
	PaginationConfig = runtimeconfig.PaginationConfig
	SettingsConfig   = runtimeconfig.SettingsConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	ConsoleConfig    = runtimeconfig.ConsoleConfig
)

// DefaultConfig returns the console defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
