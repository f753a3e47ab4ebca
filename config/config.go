package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	apperrors "voice-demos/pkg/errors"
)

// TTS model allowlist. Order sets preference: the preview model is the
// default, the mini model is the one-shot fallback target.
const (
	ModelPreferred = "gpt-4o-audio-preview"
	ModelFallback  = "gpt-4o-mini-tts"
)

var ModelAllowlist = []string{ModelPreferred, ModelFallback}

// Config is the fully resolved, immutable run configuration. It is composed
// once in Load from defaults, the optional toml file, .env files, the
// process environment and CLI flags, in that precedence order. Nothing in
// the program mutates the process environment.
type Config struct {
	APIKey    string
	ProjectID string
	OrgID     string

	OutputDir string
	Format    string
	Speed     float64

	Model         string
	FallbackModel string
	RequireBetter bool

	Retries      int
	RetryBackoff float64
	Sleep        float64

	Force  bool
	Strict bool
	Verify bool
	Debug  bool

	OnlyLang string
	Voices   []string
}

// Flags carries raw CLI values into Load. Numeric fields use -1 and string
// fields use "" as the "flag not given" sentinel so lower-precedence layers
// still apply.
type Flags struct {
	ConfigPath    string
	Force         bool
	Strict        bool
	Verify        bool
	RequireBetter bool
	Debug         bool
	Sleep         float64
	OnlyLang      string
	Voices        string
	Retries       int
	RetryBackoff  float64
	Out           string
	Model         string
	Format        string
}

// fileConfig is the optional config.toml schema. All fields are pointers so
// an absent key leaves the default untouched.
type fileConfig struct {
	OutputDir     *string  `toml:"output_dir"`
	Format        *string  `toml:"format"`
	Speed         *float64 `toml:"speed"`
	Model         *string  `toml:"model"`
	RequireBetter *bool    `toml:"require_better"`
	Retries       *int     `toml:"retries"`
	RetryBackoff  *float64 `toml:"retry_backoff"`
	Sleep         *float64 `toml:"sleep"`
}

func defaultConfig() Config {
	return Config{
		OutputDir:     "public/demos",
		Format:        "mp3",
		Speed:         0.95,
		Model:         ModelPreferred,
		FallbackModel: ModelFallback,
		Retries:       2,
		RetryBackoff:  1.5,
		Sleep:         0.75,
	}
}

// Load resolves the effective configuration. Returns an AppError with a
// configuration code when the credential is missing or the model selection
// violates the allowlist / require-better constraint.
func Load(flags Flags) (Config, error) {
	cfg := defaultConfig()

	if err := applyFile(&cfg, flags.ConfigPath); err != nil {
		return Config{}, err
	}

	env := newEnvLookup()
	applyEnv(&cfg, env)
	applyFlags(&cfg, flags)

	if err := resolveModel(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" {
		return Config{}, apperrors.ErrMissingCredential
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	if path == "" {
		path = "config.toml"
		if _, err := os.Stat(path); err != nil {
			return nil // optional when not asked for explicitly
		}
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return apperrors.Wrap(apperrors.CodeBadConfig, fmt.Sprintf("parse %s", path), err)
	}
	if fc.OutputDir != nil {
		cfg.OutputDir = *fc.OutputDir
	}
	if fc.Format != nil {
		cfg.Format = *fc.Format
	}
	if fc.Speed != nil {
		cfg.Speed = *fc.Speed
	}
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.RequireBetter != nil {
		cfg.RequireBetter = *fc.RequireBetter
	}
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.RetryBackoff != nil {
		cfg.RetryBackoff = *fc.RetryBackoff
	}
	if fc.Sleep != nil {
		cfg.Sleep = *fc.Sleep
	}
	return nil
}

func applyEnv(cfg *Config, env lookupFunc) {
	cfg.APIKey = strings.TrimSpace(env("OPENAI_API_KEY"))
	cfg.ProjectID = env("OPENAI_PROJECT_ID")
	cfg.OrgID = env("OPENAI_ORG_ID")

	if m := strings.TrimSpace(env("OPENAI_TTS_MODEL")); m != "" {
		cfg.Model = m
	}
	if v := strings.ToLower(strings.TrimSpace(env("OPENAI_REQUIRE_BETTER_TTS"))); v == "1" || v == "true" {
		cfg.RequireBetter = true
	}
}

func applyFlags(cfg *Config, flags Flags) {
	if flags.Out != "" {
		cfg.OutputDir = flags.Out
	}
	if flags.Format != "" {
		cfg.Format = flags.Format
	}
	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	if flags.Retries >= 0 {
		cfg.Retries = flags.Retries
	}
	if flags.RetryBackoff >= 0 {
		cfg.RetryBackoff = flags.RetryBackoff
	}
	if flags.Sleep >= 0 {
		cfg.Sleep = flags.Sleep
	}
	if flags.RequireBetter {
		cfg.RequireBetter = true
	}
	cfg.Force = flags.Force
	cfg.Strict = flags.Strict
	cfg.Verify = flags.Verify
	cfg.Debug = flags.Debug
	cfg.OnlyLang = flags.OnlyLang

	if flags.Voices != "" {
		for _, v := range strings.Split(flags.Voices, ",") {
			if v = strings.TrimSpace(v); v != "" {
				cfg.Voices = append(cfg.Voices, v)
			}
		}
		cfg.Voices = lo.Uniq(cfg.Voices)
	}
}

// resolveModel enforces the allowlist and the require-better constraint
// before any network activity happens.
func resolveModel(cfg *Config) error {
	if !lo.Contains(ModelAllowlist, cfg.Model) {
		return apperrors.New(apperrors.CodeModelNotAllowed,
			fmt.Sprintf("model %q is not allowlisted (allowed: %s)", cfg.Model, strings.Join(ModelAllowlist, ", ")))
	}
	if cfg.RequireBetter && cfg.Model != ModelPreferred {
		return apperrors.New(apperrors.CodeModelNotAllowed,
			fmt.Sprintf("require-better is set: model must be %s", ModelPreferred))
	}
	return nil
}
