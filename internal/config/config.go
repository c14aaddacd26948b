package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/packpick/internal/command"
	"github.com/pders01/packpick/internal/registry"
)

const (
	DefaultSiteURL    = "https://peonping.com/"
	DefaultServerAddr = "127.0.0.1:8080"
)

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry.url", registry.DefaultURL)
	v.SetDefault("registry.timeout", registry.DefaultTimeout)
	v.SetDefault("install.mode", string(command.ModeCurl))
	v.SetDefault("site.url", DefaultSiteURL)
	v.SetDefault("audio.command", "")
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.manifest_workers", registry.DefaultPrefetchWorkers)
	v.SetDefault("log.level", "info")
}

// GetRegistryURL returns the registry index location
func GetRegistryURL() string {
	return viper.GetString("registry.url")
}

// GetRegistryTimeout returns the per-request timeout for registry fetches
func GetRegistryTimeout() time.Duration {
	return viper.GetDuration("registry.timeout")
}

// GetInstallMode returns the configured install mode, curl when invalid
func GetInstallMode() command.Mode {
	mode, err := command.ParseMode(viper.GetString("install.mode"))
	if err != nil {
		return command.ModeCurl
	}
	return mode
}

// GetSiteURL returns the page that share links point at
func GetSiteURL() string {
	return viper.GetString("site.url")
}

// GetAudioCommand returns the configured player command line, "" for auto-detect
func GetAudioCommand() string {
	return viper.GetString("audio.command")
}

// GetServerAddr returns the listen address of the HTTP API
func GetServerAddr() string {
	return viper.GetString("server.addr")
}

// GetManifestWorkers returns how many manifests the server prefetches in parallel
func GetManifestWorkers() int {
	return viper.GetInt("server.manifest_workers")
}

// GetLogLevel returns the configured log level name
func GetLogLevel() string {
	return viper.GetString("log.level")
}
