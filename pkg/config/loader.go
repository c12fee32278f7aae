package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "SKELETOR_"

var log = logging.GetLogger("config")

// LoadOptions select the settings sources.
type LoadOptions struct {
	// Path is an explicit settings file, which must exist. When empty the
	// user settings file is read if present.
	Path string
	// Overrides are applied last, keyed by dotted setting name.
	Overrides map[string]interface{}
	// SkipFile ignores every settings file.
	SkipFile bool
	// SkipEnv ignores SKELETOR_* variables.
	SkipEnv bool
}

// Default returns the built-in settings.
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipFile: true, SkipEnv: true})
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load layers defaults, the settings file, the environment and overrides,
// in that order.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	// 2. Settings file
	path, required := opts.Path, true
	if path == "" {
		path, required = paths.ConfigFile(), false
	}
	if !opts.SkipFile {
		if err := loadFile(k, paths.ExpandHome(path), required); err != nil {
			return nil, err
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply setting overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToModeHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to decode settings")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().Str("file", path).Bool("env", !opts.SkipEnv).Msg("settings loaded")
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return errors.FromIO(err, path, errors.ErrConfigLoad)
	}

	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse settings file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps SKELETOR_APPLY_PROGRESS_EVERY to apply.progress_every. The
// first underscore separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// stringToModeHookFunc decodes octal strings such as "0755" into a Mode.
func stringToModeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Mode(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		return ParseMode(data.(string))
	}
}
