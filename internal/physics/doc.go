// Package physics holds the value types of the arena: [Vec2], [Body] and
// [Wall], plus the boundary walls built by [Borders].
//
// Coordinates have the origin in the top-left corner with y growing
// downward. Bodies are circles with positive mass and radius; walls are
// immovable axis-aligned rectangles.
package physics
