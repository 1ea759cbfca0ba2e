package pen_test

import (
	"fmt"

	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/pen"
)

func ExampleMachine() {
	m := pen.New()
	m.Down(geom.Pt(0, 0))
	m.Down(geom.Pt(10, 0))
	m.Down(geom.Pt(20, 0))
	r := m.Up(geom.Pt(1, 1))

	fmt.Println(r.Action, r.Closed, len(r.Points), m.State())
	// Output: commit true 4 idle
}
