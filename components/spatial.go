package components

// Position represents an entity's world position. Z is altitude.
type Position struct {
	X, Y, Z float32
}

// Velocity represents an entity's velocity in units per second.
type Velocity struct {
	X, Y, Z float32
}

// Rotation represents an entity's look direction.
type Rotation struct {
	Yaw float32 // radians, 0 = facing -Y ("forward")
}

// Body holds physical properties of an entity.
type Body struct {
	Radius float32
}
