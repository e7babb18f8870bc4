package rating_test

import (
	"testing"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/rating"
)

func Test_ToInternal_Doubles_Stars_When_Scale_Is_Stars(t *testing.T) {
	t.Parallel()

	for stars, want := range map[float64]float64{1: 2, 2: 4, 3: 6, 4: 8, 5: 10} {
		if got := rating.ToInternal(stars, entry.ScaleStars); got != want {
			t.Errorf("ToInternal(%v, stars)=%v, want %v", stars, got, want)
		}
	}
}

func Test_RoundTrip_Returns_Input_When_Scale_Is_Decimal(t *testing.T) {
	t.Parallel()

	for _, scale := range []entry.RatingScale{entry.ScaleDecimal, entry.ScaleDecimalWhole} {
		for i := 0; i <= 100; i++ {
			v := float64(i) / 10
			if scale == entry.ScaleDecimalWhole && i%10 != 0 {
				continue
			}

			got := rating.FromInternal(rating.ToInternal(v, scale), scale)
			if got != v {
				t.Errorf("%s: round trip of %v gave %v", scale, v, got)
			}
		}
	}
}

func Test_RoundTrip_Returns_Input_When_Stars_Are_Whole(t *testing.T) {
	t.Parallel()

	for v := 1.0; v <= 5; v++ {
		got := rating.FromInternal(rating.ToInternal(v, entry.ScaleStars), entry.ScaleStars)
		if got != v {
			t.Errorf("round trip of %v stars gave %v", v, got)
		}
	}
}

func Test_ToInternal_Passes_Through_When_Input_Out_Of_Domain(t *testing.T) {
	t.Parallel()

	if got := rating.ToInternal(7, entry.ScaleStars); got != 14 {
		t.Errorf("ToInternal(7, stars)=%v, want 14 (unclamped)", got)
	}

	if got := rating.ToInternal(-3, entry.ScaleDecimal); got != -3 {
		t.Errorf("ToInternal(-3, decimal)=%v, want -3", got)
	}
}

func Test_Format_Renders_UI_Units(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		internal float64
		scale    entry.RatingScale
		want     string
	}{
		{name: "Stars", internal: 8, scale: entry.ScaleStars, want: "4★"},
		{name: "DecimalWhole", internal: 7, scale: entry.ScaleDecimalWhole, want: "7"},
		{name: "DecimalTenths", internal: 7.5, scale: entry.ScaleDecimal, want: "7.5"},
		{name: "DecimalWhole value", internal: 6, scale: entry.ScaleDecimal, want: "6"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := rating.Format(testCase.internal, testCase.scale); got != testCase.want {
				t.Errorf("Format(%v, %s)=%q, want %q", testCase.internal, testCase.scale, got, testCase.want)
			}
		})
	}
}
