package events

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-task-gantt/internal/core/model"
)

// tableFile is the YAML shape of a custom event table.
type tableFile struct {
	Name     string     `yaml:"name"`
	Tracking string     `yaml:"tracking"`
	Banner   string     `yaml:"banner,omitempty"`
	Types    []typeFile `yaml:"types"`
}

type typeFile struct {
	Name   string `yaml:"name"`
	Start  string `yaml:"start"`
	End    string `yaml:"end,omitempty"`
	Marker bool   `yaml:"marker,omitempty"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"`
}

// LoadTable reads a YAML event table from disk.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := LoadTableFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load event table %s: %w", path, err)
	}
	return table, nil
}

// LoadTableFromReader parses a YAML event table.
func LoadTableFromReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	table := &Table{
		Name:     tf.Name,
		Tracking: Tracking(tf.Tracking),
		Specs:    make([]Spec, 0, len(tf.Types)),
	}
	if table.Tracking == "" {
		table.Tracking = TrackTask
	}
	if table.PerTask() {
		banner := tf.Banner
		if banner == "" {
			banner = DefaultBanner
		}
		if table.Banner, err = regexp.Compile(banner); err != nil {
			return nil, fmt.Errorf("invalid banner pattern: %w", err)
		}
	}

	for _, tt := range tf.Types {
		spec := Spec{
			Name:   model.EventType(tt.Name),
			Marker: tt.Marker,
			Style:  Style{Height: tt.Height, Color: tt.Color},
		}
		if tt.Start != "" {
			if spec.Start, err = regexp.Compile(tt.Start); err != nil {
				return nil, fmt.Errorf("event type %s: invalid start pattern: %w", tt.Name, err)
			}
		}
		if tt.End != "" {
			if spec.End, err = regexp.Compile(tt.End); err != nil {
				return nil, fmt.Errorf("event type %s: invalid end pattern: %w", tt.Name, err)
			}
		}
		if spec.Style.Height <= 0 {
			spec.Style.Height = 8
		}
		if spec.Style.Color == "" {
			spec.Style.Color = "#808080"
		}
		table.Specs = append(table.Specs, spec)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteTable encodes a table in the YAML shape LoadTable reads.
func WriteTable(w io.Writer, table *Table) error {
	tf := tableFile{
		Name:     table.Name,
		Tracking: string(table.Tracking),
		Types:    make([]typeFile, 0, len(table.Specs)),
	}
	if table.Banner != nil {
		tf.Banner = table.Banner.String()
	}
	for _, s := range table.Specs {
		tt := typeFile{
			Name:   string(s.Name),
			Start:  s.Start.String(),
			Marker: s.Marker,
			Height: s.Style.Height,
			Color:  s.Style.Color,
		}
		if s.End != nil {
			tt.End = s.End.String()
		}
		tf.Types = append(tf.Types, tt)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&tf); err != nil {
		return err
	}
	return enc.Close()
}
