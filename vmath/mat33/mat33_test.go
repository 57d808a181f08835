package mat33

import (
	"math"
	"testing"

	"spheretrace/vmath/vec3"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestRotationQuarterTurnAboutY(t *testing.T) {
	got := MulMV(Rotation(vec3.T{0, 1, 0}, math.Pi/2), vec3.T{1, 0, 0})
	want := vec3.T{0, 0, -1}
	if diff := cmp.Diff(got, want, approx); diff != "" {
		t.Errorf("Bad rotation; diff (-got +want)\n%s", diff)
	}
}

func TestRotationIsOrthonormal(t *testing.T) {
	r := Rotation(vec3.T{1, 2, 3}, 0.7)
	basis := []vec3.T{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, a := range basis {
		for j, b := range basis {
			want := 0.0
			if i == j {
				want = 1
			}
			got := vec3.IProd(MulMV(r, a), MulMV(r, b))
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("Columns %d and %d have inner product %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestRotationFixesAxis(t *testing.T) {
	axis := vec3.T{0, 0, 2}
	got := MulMV(Rotation(axis, 1.3), axis)
	if diff := cmp.Diff(got, axis, approx); diff != "" {
		t.Errorf("Axis moved under its own rotation; diff (-got +want)\n%s", diff)
	}
}
