package servo

import (
	"time"

	"github.com/pkg/errors"
)

// CommandInMode selects how incoming twist/joint-jog components are
// interpreted.
type CommandInMode string

// Supported command_in_type values.
const (
	CommandInUnitless    CommandInMode = "unitless"
	CommandInSpeedUnits  CommandInMode = "speed_units"
)

// OutputFormat selects the wire shape of the outgoing command.
type OutputFormat string

// Supported command_out_type values.
const (
	OutputJointTrajectory   OutputFormat = "JointTrajectory"
	OutputFloat64MultiArray OutputFormat = "Float64MultiArray"
)

// Config is the immutable-after-construction configuration for a Core. Field
// names mirror the wire configuration keys from the parameter-loading layer
// (out of scope here; something upstream decodes YAML/JSON into this struct
// with mapstructure, the way the rest of the ecosystem does).
type Config struct {
	// PublishPeriod is the fixed control-loop period, Delta t.
	PublishPeriod time.Duration `mapstructure:"publish_period"`

	CommandInType  CommandInMode `mapstructure:"command_in_type"`
	CommandOutType OutputFormat  `mapstructure:"command_out_type"`

	LinearScale     float64 `mapstructure:"linear_scale"`
	RotationalScale float64 `mapstructure:"rotational_scale"`
	JointScale      float64 `mapstructure:"joint_scale"`

	LowPassFilterCoeff float64 `mapstructure:"low_pass_filter_coeff"`

	LowerSingularityThreshold    float64 `mapstructure:"lower_singularity_threshold"`
	HardStopSingularityThreshold float64 `mapstructure:"hard_stop_singularity_threshold"`

	JointLimitMargin float64 `mapstructure:"joint_limit_margin"`

	IncomingCommandTimeout time.Duration `mapstructure:"incoming_command_timeout"`

	NumOutgoingHaltMsgsToPublish int `mapstructure:"num_outgoing_halt_msgs_to_publish"`

	UseGazebo                bool `mapstructure:"use_gazebo"`
	GazeboRedundantMsgCount  int  `mapstructure:"gazebo_redundant_message_count"`

	PlanningFrame            string `mapstructure:"planning_frame"`
	RobotLinkCommandFrame    string `mapstructure:"robot_link_command_frame"`
	MoveGroupName            string `mapstructure:"move_group_name"`

	PublishJointPositions     bool `mapstructure:"publish_joint_positions"`
	PublishJointVelocities    bool `mapstructure:"publish_joint_velocities"`
	PublishJointAccelerations bool `mapstructure:"publish_joint_accelerations"`

	CartesianCommandInTopic     string `mapstructure:"cartesian_command_in_topic"`
	JointCommandInTopic         string `mapstructure:"joint_command_in_topic"`
	PlanningFrameTopic          string `mapstructure:"planning_frame_topic"`
	RobotLinkCommandFrameTopic  string `mapstructure:"robot_link_command_frame_topic"`
	CommandOutTopic             string `mapstructure:"command_out_topic"`
	StatusTopic                 string `mapstructure:"status_topic"`
}

// Default returns a Config populated with the same defaults the reference
// jog controller ships, suitable as a base for mapstructure.Decode overrides.
func Default() Config {
	return Config{
		PublishPeriod:                20 * time.Millisecond,
		CommandInType:                CommandInUnitless,
		CommandOutType:               OutputJointTrajectory,
		LinearScale:                  0.4,
		RotationalScale:              0.8,
		JointScale:                   0.5,
		LowPassFilterCoeff:           2.0,
		LowerSingularityThreshold:    17.0,
		HardStopSingularityThreshold: 30.0,
		JointLimitMargin:             0.1,
		IncomingCommandTimeout:       200 * time.Millisecond,
		NumOutgoingHaltMsgsToPublish: 4,
		MoveGroupName:                "manipulator",
		PublishJointPositions:        true,
		PublishJointVelocities:       true,
		PublishJointAccelerations:    false,
		CartesianCommandInTopic:      "servo_server/delta_twist_cmds",
		JointCommandInTopic:          "servo_server/delta_joint_cmds",
		CommandOutTopic:              "servo_server/command",
		StatusTopic:                  "servo_server/status",
	}
}

// Validate checks the invariants the core relies on and never re-checks at
// runtime: a nonsensical config fails fast at construction instead of
// producing silently-wrong servoing.
func (c Config) Validate() error {
	if c.PublishPeriod <= 0 {
		return errors.New("publish_period must be positive")
	}
	if c.CommandInType != CommandInUnitless && c.CommandInType != CommandInSpeedUnits {
		return errors.Errorf("unknown command_in_type %q", c.CommandInType)
	}
	if c.CommandOutType != OutputJointTrajectory && c.CommandOutType != OutputFloat64MultiArray {
		return errors.Errorf("unknown command_out_type %q", c.CommandOutType)
	}
	if c.HardStopSingularityThreshold <= c.LowerSingularityThreshold {
		return errors.New("hard_stop_singularity_threshold must exceed lower_singularity_threshold")
	}
	if c.NumOutgoingHaltMsgsToPublish < 0 {
		return errors.New("num_outgoing_halt_msgs_to_publish must be >= 0")
	}
	return nil
}
