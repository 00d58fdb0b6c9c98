// Package timex holds time helpers shared across the server: a JSON-friendly
// duration for configuration files and the injectable Clock used for every
// token expiry decision.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration wraps time.Duration so it can be decoded from JSON either as a
// string ("15m", "72h") or as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}
