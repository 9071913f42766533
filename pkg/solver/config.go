package solver

import "github.com/go-viper/mapstructure/v2"

// ParametersFromMap decodes an untyped map (e.g. sourced from a host
// service's own config layer, a YAML/JSON document already unmarshalled
// into map[string]any, or similar) into a Parameters struct, starting
// from DefaultParameters() so unset keys keep their documented defaults
// (SPEC_FULL §6 [AMBIENT — config]). Keys are matched case-insensitively
// against each field's mapstructure tag, not its Go field name: e.g.
// "restart_policy" or "RESTART_POLICY" bind to Parameters.RestartPolicy,
// while "RestartPolicy" does not; this mirrors the
// DIMACS-adjacent config-decoding idiom used across the Go ecosystem's
// service layers rather than inventing a bespoke flag parser.
func ParametersFromMap(raw map[string]any) (Parameters, error) {
	p := DefaultParameters()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
		TagName:          "mapstructure",
	})
	if err != nil {
		return p, err
	}
	if err := decoder.Decode(raw); err != nil {
		return p, err
	}
	return p, nil
}
