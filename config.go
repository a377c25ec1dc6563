package keel

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OptionsFromEnv populates bootstrap options from the environment, reading
// .env files first when given (missing files are tolerated). Factories are
// always supplied in code afterwards.
//
// Recognized variables:
//
//	KEEL_ENFORCE_NAMESPACE   bool, default true
//	KEEL_AUTO_SUBSCRIBE      bool, default false
//	KEEL_VIEWMODEL_CAPABILITY string, default "observable/notifies-on-change"
//	KEEL_TRACE_RESOLUTIONS   bool, default false
func OptionsFromEnv(envFiles ...string) Options {
	if len(envFiles) > 0 {
		// Non-fatal: files may not exist outside local development.
		_ = godotenv.Load(envFiles...)
	}

	opts := DefaultOptions()
	opts.EnforceNamespaceConvention = envBool("KEEL_ENFORCE_NAMESPACE", opts.EnforceNamespaceConvention)
	opts.AutoSubscribeHandlers = envBool("KEEL_AUTO_SUBSCRIBE", opts.AutoSubscribeHandlers)
	opts.ViewModelBaseCapability = Capability(env("KEEL_VIEWMODEL_CAPABILITY", string(opts.ViewModelBaseCapability)))
	opts.TraceResolutions = envBool("KEEL_TRACE_RESOLUTIONS", opts.TraceResolutions)

	return opts
}

// optionsFile is the YAML shape accepted by OptionsFromFile.
type optionsFile struct {
	EnforceNamespaceConvention *bool  `yaml:"enforce_namespace_convention"`
	AutoSubscribeHandlers      *bool  `yaml:"auto_subscribe_handlers"`
	ViewModelBaseCapability    string `yaml:"view_model_base_capability"`
	TraceResolutions           *bool  `yaml:"trace_resolutions"`
}

// OptionsFromFile populates bootstrap options from a YAML file. Absent keys
// keep their defaults.
func OptionsFromFile(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options file: %w", err)
	}

	var f optionsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Options{}, fmt.Errorf("parse options file %s: %w", path, err)
	}

	opts := DefaultOptions()

	if f.EnforceNamespaceConvention != nil {
		opts.EnforceNamespaceConvention = *f.EnforceNamespaceConvention
	}

	if f.AutoSubscribeHandlers != nil {
		opts.AutoSubscribeHandlers = *f.AutoSubscribeHandlers
	}

	if f.ViewModelBaseCapability != "" {
		opts.ViewModelBaseCapability = Capability(f.ViewModelBaseCapability)
	}

	if f.TraceResolutions != nil {
		opts.TraceResolutions = *f.TraceResolutions
	}

	return opts, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return parsed
}
