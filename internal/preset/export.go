package preset

import (
	"fmt"
	"io"
	"math"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"live-parameter-overlay/internal/param"
)

// Export writes the current value of every live parameter as a preset.
func Export(reg *param.Registry, w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for _, group := range param.Groups() {
		if len(reg.Names(group)) == 0 {
			continue
		}
		block := root.AppendNewBlock("group", []string{group.String()}).Body()
		err := reg.ForEachInGroup(group, func(e param.Entry) error {
			v, err := toCty(e.Variant())
			if err != nil {
				return fmt.Errorf("export %s.%s: %w", group, e.Name(), err)
			}
			block.AppendNewBlock("param", []string{e.Name()}).Body().SetAttributeValue("value", v)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

func toCty(v param.Value) (cty.Value, error) {
	switch v.Kind() {
	case param.KindBool:
		b, err := v.Bool()
		return cty.BoolVal(b), err
	case param.KindInt:
		i, err := v.Int()
		return cty.NumberIntVal(int64(i)), err
	case param.KindFloat:
		f, err := v.Float()
		if err != nil {
			return cty.NilVal, err
		}
		if err := finite(float64(f)); err != nil {
			return cty.NilVal, err
		}
		// The shortest float32 text keeps 0.1 as 0.1 rather than its float64 widening.
		return cty.ParseNumberVal(v.String())
	case param.KindDouble:
		d, err := v.Double()
		if err != nil {
			return cty.NilVal, err
		}
		if err := finite(d); err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(d), nil
	default:
		return cty.NilVal, fmt.Errorf("%w: unsupported kind %s", param.ErrKindMismatch, v.Kind())
	}
}

// finite guards cty, which panics on NaN and cannot hold infinities in HCL.
func finite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", param.ErrNotFinite, f)
	}
	return nil
}
