package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Pro7ech/decfail/failure"
	"github.com/Pro7ech/decfail/noise"
)

// record returns the scheme and the parameters selected by the flags.
// The parameters of the preset, of the JSON file and of -set are merged
// in this order, later sources overriding earlier ones.
func (s *source) record() (scheme failure.Scheme, record map[string]float64, err error) {

	record = map[string]float64{}

	if s.preset != "" {

		var preset noise.Preset
		if preset, err = noise.PresetByName(s.preset); err != nil {
			return
		}

		if s.scheme != "" && !strings.EqualFold(s.scheme, preset.Scheme) {
			return -1, nil, fmt.Errorf("preset %q is a %s parameter set, not %s", preset.Name, preset.Scheme, s.scheme)
		}

		if scheme, err = failure.ParseScheme(preset.Scheme); err != nil {
			return
		}

		if record, err = scheme.Parameters(preset.Parameters); err != nil {
			return
		}

	} else {

		if s.scheme == "" {
			return -1, nil, fmt.Errorf("missing -scheme or -preset")
		}

		if scheme, err = failure.ParseScheme(s.scheme); err != nil {
			return
		}
	}

	if s.params != "" {

		var fromFile map[string]float64
		if fromFile, err = readParams(s.params); err != nil {
			return
		}

		for k, v := range fromFile {
			record[k] = v
		}
	}

	if s.set != "" {

		var fromFlag map[string]float64
		if fromFlag, err = parseSet(s.set); err != nil {
			return
		}

		for k, v := range fromFlag {
			record[k] = v
		}
	}

	if len(record) == 0 {
		return -1, nil, fmt.Errorf("no parameters: use -preset, -params or -set")
	}

	return
}

// readParams reads a JSON object whose values are numbers or strings
// accepted by [failure.ParseValue], e.g. {"n": 256, "q": "2^13"}.
func readParams(path string) (record map[string]float64, err error) {

	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}

	var raw map[string]interface{}
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fields := make(map[string]string, len(raw))
	record = make(map[string]float64, len(raw))

	for k, v := range raw {
		switch v := v.(type) {
		case float64:
			record[k] = v
		case string:
			fields[k] = v
		default:
			return nil, fmt.Errorf("%s: %w: field %q: invalid value %v", path, failure.ErrMalformedParameter, k, v)
		}
	}

	var parsed map[string]float64
	if parsed, err = failure.ParseRecord(fields); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for k, v := range parsed {
		record[k] = v
	}

	return
}

// parseSet parses a comma separated list of k=v.
func parseSet(s string) (record map[string]float64, err error) {

	fields := map[string]string{}

	for _, kv := range strings.Split(s, ",") {

		if kv = strings.TrimSpace(kv); kv == "" {
			continue
		}

		k, v, found := strings.Cut(kv, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q is not of the form k=v", failure.ErrMalformedParameter, kv)
		}

		fields[strings.TrimSpace(k)] = v
	}

	return failure.ParseRecord(fields)
}
