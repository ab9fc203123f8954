package servo

import "time"

// JointTrajectoryPoint is one waypoint of an outgoing trajectory.
type JointTrajectoryPoint struct {
	Positions     []float64
	Velocities    []float64
	Accelerations []float64
	TimeFromStart time.Duration
}

// JointTrajectory is the JointTrajectory-shaped outgoing command.
type JointTrajectory struct {
	Stamp      time.Time
	JointNames []string
	Points     []JointTrajectoryPoint
}

// Float64MultiArray is the Float64MultiArray-shaped outgoing command: either
// the first point's positions or its velocities, per configuration.
type Float64MultiArray struct {
	Data []float64
}

// OutgoingCommand is a tagged variant over the two wire shapes the core can
// emit. Exactly one of Trajectory or Array is populated, selected by Format;
// this keeps the publish path a single switch instead of a base-class
// hierarchy over message types.
type OutgoingCommand struct {
	Format     OutputFormat
	Trajectory *JointTrajectory
	Array      *Float64MultiArray
}

// firstPoint returns the trajectory's first point, or the zero value if the
// trajectory has none yet.
func (t *JointTrajectory) firstPoint() JointTrajectoryPoint {
	if t == nil || len(t.Points) == 0 {
		return JointTrajectoryPoint{}
	}
	return t.Points[0]
}

// toOutgoing renders a built trajectory into the configured wire format.
func toOutgoing(format OutputFormat, traj *JointTrajectory, publishPositions bool) OutgoingCommand {
	if format == OutputJointTrajectory {
		return OutgoingCommand{Format: format, Trajectory: traj}
	}

	point := traj.firstPoint()
	arr := &Float64MultiArray{}
	switch {
	case publishPositions && len(point.Positions) > 0:
		arr.Data = append([]float64(nil), point.Positions...)
	case len(point.Velocities) > 0:
		arr.Data = append([]float64(nil), point.Velocities...)
	}
	return OutgoingCommand{Format: format, Array: arr}
}
