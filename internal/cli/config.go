package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelsvc/internal/common/fsutil"
	"modelsvc/internal/config"
	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
	"modelsvc/internal/registry"
)

// EnvPrefix prefixes every environment variable read by the CLI, e.g.
// MODELSVC_MAX_CONCURRENCY for --max-concurrency.
const EnvPrefix = "MODELSVC"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags makes every flag visible to cmd readable through v.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return v.BindPFlags(cmd.LocalFlags())
}

// resolveConfig loads the config file named by --config (if any), overlays
// flags and MODELSVC_* variables that were explicitly set, then applies
// defaults and validates.
func resolveConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if p := v.GetString("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	dur := func(key string, dst *config.Duration) {
		if v.IsSet(key) {
			dst.Duration = v.GetDuration(key)
		}
	}
	list := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = v.GetStringSlice(key)
		}
	}

	str("addr", &cfg.Addr)
	str("model", &cfg.Model)
	str("artifact", &cfg.ArtifactPath)
	str("metadata", &cfg.MetadataPath)
	if v.IsSet("strict") {
		cfg.StrictFields = v.GetBool("strict")
	}
	str("log-level", &cfg.LogLevel)
	str("log-file", &cfg.LogFile)
	str("request-log", &cfg.RequestLog)
	if v.IsSet("max-body-bytes") {
		cfg.MaxBodyBytes = v.GetInt64("max-body-bytes")
	}
	dur("predict-timeout", &cfg.PredictTimeout)
	num("max-concurrency", &cfg.MaxConcurrency)
	num("max-queue-depth", &cfg.MaxQueueDepth)
	dur("max-wait", &cfg.MaxWait)
	dur("shutdown-grace", &cfg.ShutdownGrace)
	if v.IsSet("rate-limit-rps") {
		cfg.RateLimitRPS = v.GetFloat64("rate-limit-rps")
	}
	num("rate-limit-burst", &cfg.RateLimitBurst)
	if v.IsSet("cors") {
		cfg.CORSEnabled = v.GetBool("cors")
	}
	list("cors-origins", &cfg.CORSAllowedOrigins)
	list("cors-methods", &cfg.CORSAllowedMethods)
	list("cors-headers", &cfg.CORSAllowedHeaders)

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// loadMetadata reads the configured model.yaml or discovers one above the
// working directory.
func loadMetadata(cfg config.Config) (*metadata.Metadata, error) {
	if cfg.MetadataPath != "" {
		p, err := fsutil.Resolve(cfg.MetadataPath)
		if err != nil {
			return nil, err
		}
		return metadata.Load(p)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return metadata.Discover(wd)
}

// buildFactory selects the configured model. Without an explicit artifact
// path the models/ directory next to model.yaml is searched.
func buildFactory(reg *registry.Registry, cfg config.Config, md *metadata.Metadata) (model.Factory, error) {
	artifact := cfg.ArtifactPath
	if artifact == "" {
		base := "."
		if md.Path != "" {
			base = filepath.Dir(md.Path)
		}
		artifact = filepath.Join(base, "models")
	}
	return reg.Factory(cfg.Model, registry.Options{ArtifactPath: artifact, Metadata: md, Strict: cfg.StrictFields})
}
