package kmeans

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadConfig decodes a TOML clustering config:
//
//	k = 2
//	seed = 7
//	max_iterations = 20
//	points = [[1.0, 1.0], [1.5, 2.0], [8.0, 8.0]]
//
//	[random]
//	count = 100
//	dimension = 2
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err == nil {
		err = rejectUndecoded(md)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a TOML clustering config from a string.
func ParseConfig(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err == nil {
		err = rejectUndecoded(md)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// rejectUndecoded fails on keys that match no Config field, so a misspelt
// key is not silently ignored.
func rejectUndecoded(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}
