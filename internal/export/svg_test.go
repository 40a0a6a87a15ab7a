package export

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

func TestSceneToSVG(t *testing.T) {
	b, err := physics.NewBody(physics.V(100, 50), physics.V(0, 0), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	walls, err := physics.Borders(200, 100, physics.Sides{Left: true})
	if err != nil {
		t.Fatal(err)
	}

	svg := SceneToSVG(Scene{
		Width:  200,
		Height: 100,
		Bodies: []physics.Body{b},
		Walls:  walls,
		Trails: [][]physics.Vec2{{physics.V(0, 0), physics.V(10, 20)}},
	}, 2)

	for _, want := range []string{
		`width="400" height="200"`,
		`<circle cx="200.0" cy="100.0" r="20.0"/>`,
		`d="M0.0,0.0 L20.0,40.0"`,
		`<rect x="-10.0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q:\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
}

func TestSceneToSVG_Empty(t *testing.T) {
	svg := SceneToSVG(Scene{Width: 10, Height: 10}, 0)
	if strings.Contains(svg, "<circle") || strings.Contains(svg, "<path") {
		t.Errorf("empty scene drew shapes:\n%s", svg)
	}
	if !strings.Contains(svg, `width="10"`) {
		t.Errorf("non-positive scale should fall back to 1:\n%s", svg)
	}
}

func TestTrail(t *testing.T) {
	b, err := physics.NewBody(physics.V(100, 100), physics.V(60, 0), 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	cfg := dynamo.DefaultConfig()
	cfg.Boundaries = physics.Sides{}
	sim, err := dynamo.New([]physics.Body{b}, nil, cfg)
	if err != nil {
		t.Fatal(err)
	}

	trail := NewTrail(2, 0, 5)
	sim.AddObserver(trail)
	if _, err := sim.Run(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	pts := trail.Points()
	if len(pts) != 2 {
		t.Fatalf("got %d trails, want 2", len(pts))
	}
	if len(pts[0]) != 5 {
		t.Fatalf("got %d points, want 5", len(pts[0]))
	}
	if len(pts[1]) != 0 {
		t.Errorf("out of range index recorded %d points", len(pts[1]))
	}
	for i := 1; i < len(pts[0]); i++ {
		if !(pts[0][i].X > pts[0][i-1].X) {
			t.Errorf("trail not advancing at %d: %v", i, pts[0])
		}
	}
}
