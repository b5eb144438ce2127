package launchspec

import "simlaunch/internal/robot"

const (
	SimulatorTableName = "simulator"
	PlannerTableName   = "planner"
)

// DefaultCatalog returns the built-in gazebo and move_group commands.
func DefaultCatalog() Catalog {
	simulator := NewTable(SimulatorTableName, map[robot.ID]Command{
		robot.PR2: ParseCommand("roslaunch modulation_rl pr2_empty_world.launch gui:=false"),
		robot.Tiago: ParseCommand("roslaunch modulation_rl tiago_gazebo.launch robot:=steel tuck_arm:=false " +
			"laser_model:=false camera_model:=false gui:=false"),
		robot.HSR: ParseCommand("roslaunch modulation_rl hsrb_empty_world.launch rviz:=false use_manipulation:=false " +
			"use_navigation:=false use_perception:=false use_task:=false use_teleop:=false use_web:=false " +
			"use_laser_odom:=false paused:=false gui:=false"),
	})
	planner := NewTable(PlannerTableName, map[robot.ID]Command{
		robot.PR2: ParseCommand("roslaunch pr2_moveit_config move_group.launch"),
		// tiago runs without a separate move_group.
		robot.Tiago: {},
		robot.HSR:   ParseCommand("roslaunch modulation_rl hsr_move_group.launch joint_states_topic:=/hsrb/robot_state/joint_states"),
	})
	worlds := map[robot.ID]WorldPolicy{
		robot.PR2:   {Extension: ".world"},
		robot.Tiago: {},
		// the hsr nodes cannot keep up with fast physics timestamps.
		robot.HSR: {Extension: ".world", Strip: "fast"},
	}
	return NewCatalog(simulator, planner, worlds)
}
