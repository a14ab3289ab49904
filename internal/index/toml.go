package index

import toml "github.com/pelletier/go-toml/v2"

// unmarshalTOML is a thin wrapper so scan.go doesn't need to import go-toml
// directly; kept separate because build-artifact detection is the only
// consumer of a TOML parser in this module.
func unmarshalTOML(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
