package servo

// buildHalt implements §4.7: a single trajectory point holding the joints at
// their current measured position with zero velocity. It never touches
// prev_joint_velocity, unlike a normal outgoing point, since a halt isn't a
// commanded motion to carry forward into the next cycle's acceleration
// clip.
func (b *outgoingBuilder) buildHalt(jointNames []string, positions []float64) *JointTrajectory {
	point := JointTrajectoryPoint{TimeFromStart: b.cfg.PublishPeriod}
	if b.cfg.PublishJointPositions {
		point.Positions = append([]float64(nil), positions...)
	}
	if b.cfg.PublishJointVelocities {
		point.Velocities = make([]float64, len(positions))
	}
	return &JointTrajectory{
		Stamp:      b.clock.Now(),
		JointNames: jointNames,
		Points:     []JointTrajectoryPoint{point},
	}
}
