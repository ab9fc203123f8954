package servo

import (
	"context"

	"go.viam.com/servocalcs/kinematics"
	"go.viam.com/servocalcs/logging"
	"go.viam.com/servocalcs/spatialmath"
)

// frameResolver computes the planning-frame-to-command-frame transform each
// cycle, per §4.8. It prefers the kinematics provider's cached knowledge of
// a frame and falls back to an external TF lookup relative to the model's
// root link.
type frameResolver struct {
	provider kinematics.Provider
	tf       kinematics.TFLookup
	logger   logging.Logger
}

func newFrameResolver(provider kinematics.Provider, tf kinematics.TFLookup, logger logging.Logger) *frameResolver {
	return &frameResolver{provider: provider, tf: tf, logger: logger.Sublogger("frame")}
}

// resolveFrame returns root -> frame, using the provider's cached knowledge
// when available and otherwise consulting the TF listener. On failure it
// returns the identity transform and logs, never propagating an error out of
// the control loop (§7, "Transform unavailable").
func (r *frameResolver) resolveFrame(ctx context.Context, frame, rootLink string) spatialmath.Pose {
	if r.provider.KnowsFrameTransform(ctx, frame) {
		pose, err := r.provider.FrameTransform(ctx, frame)
		if err == nil {
			return pose
		}
		r.logger.Warnw("kinematics provider failed to produce cached frame transform", "frame", frame, "error", err)
	}

	if r.tf == nil {
		r.logger.Warnw("no tf listener available to resolve frame", "frame", frame)
		return spatialmath.NewZeroPose()
	}

	pose, err := r.tf.LookupTransform(ctx, frame, rootLink)
	if err != nil {
		r.logger.Errorw("tf lookup failed", "frame", frame, "root_link", rootLink, "error", err)
		return spatialmath.NewZeroPose()
	}
	return pose
}

// calculateCommandFrameTransform returns planningFrame -> commandFrame as
// (root->planningFrame)^-1 * (root->commandFrame).
func (r *frameResolver) calculateCommandFrameTransform(ctx context.Context, planningFrame, commandFrame string) spatialmath.Pose {
	root := r.provider.RootLinkName(ctx)
	planningTF := r.resolveFrame(ctx, planningFrame, root)
	commandTF := r.resolveFrame(ctx, commandFrame, root)
	return spatialmath.Compose(planningTF.Inverse(), commandTF)
}
