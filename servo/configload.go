package servo

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// LoadConfig reads a YAML/JSON/TOML file at path (any format viper
// autodetects from the extension) and decodes it over Default(), so a
// caller only has to specify the keys it wants to override. This is a thin
// convenience for whatever wires up a Core; the core itself never touches
// viper or the filesystem.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "reading config file %q", path)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "building config decoder")
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, errors.Wrapf(err, "decoding config file %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
