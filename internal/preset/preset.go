// Package preset loads parameter values from HCL files and exports the
// current values of a registry in the same format:
//
//	group "TRACKING" {
//	  param "Threshold" {
//	    value = 3.5
//	  }
//	}
package preset

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"live-parameter-overlay/internal/param"
)

// File is a decoded preset file.
type File struct {
	Groups []GroupBlock `hcl:"group,block"`
}

type GroupBlock struct {
	Name   string       `hcl:"name,label"`
	Params []ParamBlock `hcl:"param,block"`
}

type ParamBlock struct {
	Name  string    `hcl:"name,label"`
	Value cty.Value `hcl:"value"`
}

// Load parses and decodes the preset file at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse preset file %s: %s", path, diags.Error())
	}
	return decode(path, file.Body)
}

// Parse decodes a preset from memory; filename is used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse preset %s: %s", filename, diags.Error())
	}
	return decode(filename, file.Body)
}

func decode(name string, body hcl.Body) (*File, error) {
	var f File
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode preset %s: %s", name, diags.Error())
	}
	return &f, nil
}

// Apply sets every parameter named in the preset through the code path, so
// the GUI picks the values up on the next tick. Entries that cannot be
// applied are logged and reported together; the rest still apply. It
// returns the number of parameters set.
func (f *File) Apply(reg *param.Registry, logger logrus.FieldLogger) (int, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var errs []error
	applied := 0
	for _, gb := range f.Groups {
		group, err := param.ParseGroup(gb.Name)
		if err != nil {
			logger.WithField("group", gb.Name).Warn("Preset names an unknown group")
			errs = append(errs, err)
			continue
		}
		for _, pb := range gb.Params {
			fields := logrus.Fields{"group": group.String(), "name": pb.Name}
			entry, ok := reg.Entry(group, pb.Name)
			if !ok {
				logger.WithFields(fields).Warn("Preset names an unknown parameter")
				errs = append(errs, fmt.Errorf("%w: %s.%s", param.ErrParameterNotFound, group, pb.Name))
				continue
			}
			value, err := fromCty(pb.Value, entry.Kind())
			if err == nil {
				err = entry.SetVariant(value)
			}
			if err != nil {
				logger.WithFields(fields).WithError(err).Warn("Preset value not applied")
				errs = append(errs, fmt.Errorf("%s.%s: %w", group, pb.Name, err))
				continue
			}
			logger.WithFields(fields).WithField("value", value.String()).Debug("Preset value applied")
			applied++
		}
	}
	return applied, errors.Join(errs...)
}

func fromCty(v cty.Value, kind param.Kind) (param.Value, error) {
	switch kind {
	case param.KindBool:
		var b bool
		err := gocty.FromCtyValue(v, &b)
		return param.BoolValue(b), err
	case param.KindInt:
		var i int
		err := gocty.FromCtyValue(v, &i)
		return param.IntValue(i), err
	case param.KindFloat:
		var f float32
		err := gocty.FromCtyValue(v, &f)
		return param.FloatValue(f), err
	case param.KindDouble:
		var d float64
		err := gocty.FromCtyValue(v, &d)
		return param.DoubleValue(d), err
	default:
		return param.Value{}, fmt.Errorf("%w: unsupported kind %s", param.ErrKindMismatch, kind)
	}
}
