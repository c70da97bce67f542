package filters

import (
	"fmt"

	"github.com/knetic/govaluate"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

// Applies a formula to the R, G and B channels of every pixel.
//
// The formula sees the current channel as v and the whole pixel as r, g, b, a
// (all on the 0..1 scale), e.g. "v * 1.2" or "(r + g + b) / 3".
// The result is clipped to [0, 1]; alpha is left alone.
func Expression(img *graphics.Image, formula string) error {
	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return fmt.Errorf("invalid expression %q: %w", formula, err)
	}
	if !img.IsValid() {
		return ErrInvalidImage
	}

	params := map[string]any{}
	eval := func(v float32) (float32, error) {
		params["v"] = float64(v)
		result, err := expr.Evaluate(params)
		if err != nil {
			return 0, err
		}
		f, ok := result.(float64)
		if !ok {
			return 0, fmt.Errorf("expression %q returned %T, want a number", formula, result)
		}
		return float32(f), nil
	}

	// Work on a copy so a failing formula leaves img untouched
	work := img.Clone()
	var evalErr error
	err = apply(work, func(p graphics.Pixel) graphics.Pixel {
		if evalErr != nil {
			return p
		}
		params["r"], params["g"], params["b"], params["a"] = float64(p.R), float64(p.G), float64(p.B), float64(p.A)

		out := p
		for _, ch := range []*float32{&out.R, &out.G, &out.B} {
			v, err := eval(*ch)
			if err != nil {
				evalErr = err
				return p
			}
			*ch = v
		}
		return out
	})
	if err != nil {
		return err
	}
	if evalErr != nil {
		return fmt.Errorf("evaluating %q: %w", formula, evalErr)
	}

	for y := 0; y < work.Height(); y++ {
		row, _ := work.Row(y)
		if err := img.SetRow(y, row); err != nil {
			return err
		}
	}
	return nil
}
