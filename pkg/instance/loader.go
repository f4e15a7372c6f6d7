// Package instance reads problem instances from files or streams.
//
// Three formats are accepted: YAML, JSON and a line-oriented text form
// (population, day count, then one "seats, seat price, hotel price" line per
// day).
package instance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evac/core/model"
)

// Format selects a decoder.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FormatFor infers the format from a file extension. Unknown extensions and
// "-" (stdin) are read as text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Load reads the instance stored at path. The instance is not validated.
func Load(path string) (model.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Instance{}, err
	}
	defer func() { _ = f.Close() }()
	in, err := Decode(f, FormatFor(path))
	if err != nil {
		return model.Instance{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Decode reads one instance from r.
func Decode(r io.Reader, format Format) (model.Instance, error) {
	var in model.Instance
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&in); err != nil {
			return in, fmt.Errorf("%w: %v", model.ErrInvalidInstance, err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return in, fmt.Errorf("%w: %v", model.ErrInvalidInstance, err)
		}
	case FormatText:
		return decodeText(r)
	default:
		return in, fmt.Errorf("%w: unknown instance format %q", model.ErrInvalidConfiguration, format)
	}
	return in, nil
}

func decodeText(r io.Reader) (model.Instance, error) {
	var in model.Instance
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if s := strings.TrimSpace(sc.Text()); s != "" {
				return s, true
			}
		}
		return "", false
	}
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", model.ErrInvalidInstance, line, fmt.Sprintf(format, args...))
	}

	s, ok := next()
	if !ok {
		return in, bad("missing population")
	}
	pop, err := strconv.Atoi(s)
	if err != nil {
		return in, bad("population %q", s)
	}
	s, ok = next()
	if !ok {
		return in, bad("missing day count")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return in, bad("day count %q", s)
	}
	in.Population = pop
	// n is untrusted; grow with the lines actually read.
	in.Days = make([]model.Day, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		s, ok = next()
		if !ok {
			return in, bad("expected %d days, got %d", n, i)
		}
		d, err := parseDay(s)
		if err != nil {
			return in, bad("%v", err)
		}
		in.Days = append(in.Days, d)
	}
	if err := sc.Err(); err != nil {
		return in, err
	}
	return in, nil
}

// parseDay reads "seats, seat price, hotel price".
func parseDay(s string) (model.Day, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return model.Day{}, fmt.Errorf("day %q: want 3 fields", s)
	}
	seats, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.Day{}, fmt.Errorf("seats %q", parts[0])
	}
	seat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Day{}, fmt.Errorf("seat price %q", parts[1])
	}
	hotel, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return model.Day{}, fmt.Errorf("hotel price %q", parts[2])
	}
	return model.Day{Seats: seats, PricePerSeat: seat, PricePerHotel: hotel}, nil
}
