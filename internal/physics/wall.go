package physics

// BorderThickness is the thickness of the walls synthesized on arena edges.
const BorderThickness = 10.0

// Wall is an immovable axis-aligned rectangle. It has infinite effective
// mass: collisions never move it.
type Wall struct {
	center        Vec2
	width, height float64
}

// NewWall returns a wall centered at center. Width and height must be positive.
func NewWall(center Vec2, width, height float64) (Wall, error) {
	if !(width > 0) {
		return Wall{}, invalid("width", width)
	}
	if !(height > 0) {
		return Wall{}, invalid("height", height)
	}
	return Wall{center: center, width: width, height: height}, nil
}

func (w Wall) Center() Vec2    { return w.center }
func (w Wall) Width() float64  { return w.width }
func (w Wall) Height() float64 { return w.height }

// Bounds returns the min and max corners of the wall.
func (w Wall) Bounds() (lo, hi Vec2) {
	half := Vec2{w.width / 2, w.height / 2}
	return w.center.Sub(half), w.center.Add(half)
}

// Sides selects which arena edges act as walls.
type Sides struct {
	Top    bool `yaml:"top"`
	Bottom bool `yaml:"bottom"`
	Left   bool `yaml:"left"`
	Right  bool `yaml:"right"`
}

// AllSides enables every arena edge.
func AllSides() Sides { return Sides{Top: true, Bottom: true, Left: true, Right: true} }

// Borders builds the boundary walls for a width×height arena with its
// origin in the top-left corner. Each wall is BorderThickness thick and
// centered on its edge.
func Borders(width, height float64, sides Sides) ([]Wall, error) {
	if !(width > 0) {
		return nil, invalid("arena width", width)
	}
	if !(height > 0) {
		return nil, invalid("arena height", height)
	}

	borders := make([]Wall, 0, 4)
	if sides.Top {
		borders = append(borders, Wall{center: Vec2{width / 2, 0}, width: width, height: BorderThickness})
	}
	if sides.Bottom {
		borders = append(borders, Wall{center: Vec2{width / 2, height}, width: width, height: BorderThickness})
	}
	if sides.Left {
		borders = append(borders, Wall{center: Vec2{0, height / 2}, width: BorderThickness, height: height})
	}
	if sides.Right {
		borders = append(borders, Wall{center: Vec2{width, height / 2}, width: BorderThickness, height: height})
	}
	return borders, nil
}
