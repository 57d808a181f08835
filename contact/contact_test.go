package contact

import (
	"testing"

	"spheretrace/ray"
	"spheretrace/vmath/vec3"

	"github.com/google/go-cmp/cmp"
)

func TestSetFaceNormal(t *testing.T) {
	outward := vec3.T{0, 0, 1}
	cases := []struct {
		name      string
		slope     vec3.T
		wantFront bool
		wantN     vec3.T
	}{
		{"from outside", vec3.T{0, 0, -1}, true, vec3.T{0, 0, 1}},
		{"from inside", vec3.T{0, 0, 1}, false, vec3.T{0, 0, -1}},
		{"grazing", vec3.T{1, 0, 0}, false, vec3.T{0, 0, -1}},
	}
	for _, tc := range cases {
		c := Contact{}
		c.SetFaceNormal(ray.Ray{Slope: tc.slope}, outward)
		if c.FrontFace != tc.wantFront {
			t.Errorf("%s: FrontFace = %v, want %v", tc.name, c.FrontFace, tc.wantFront)
		}
		if diff := cmp.Diff(c.N, tc.wantN); diff != "" {
			t.Errorf("%s: diff (-got +want)\n%s", tc.name, diff)
		}
	}
}
