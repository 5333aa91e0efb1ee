// Package perrors declares the error kinds the platform surfaces to its
// callers. Each kind wraps an underlying cause (where one exists) so that
// errors.Is and errors.As keep working across the memoized-future boundary
// internal/platform builds node initialization on top of.
package perrors

import "fmt"

// ConfigDirNotFoundError is returned when neither .enb nor .bem exists under
// the project directory.
type ConfigDirNotFoundError struct {
	ProjectDir string
}

func (e *ConfigDirNotFoundError) Error() string {
	return fmt.Sprintf("no config directory (.enb or .bem) found under %q", e.ProjectDir)
}

// MakefileNotFoundError is returned when the required primary rule file is
// missing from the config directory.
type MakefileNotFoundError struct {
	ConfigDir string
}

func (e *MakefileNotFoundError) Error() string {
	return fmt.Sprintf("no primary rule file (enb-make.hcl or make.hcl) found under %q", e.ConfigDir)
}

// RuleEvaluationError wraps any error raised while evaluating a user rule
// file, forwarded verbatim alongside the file that produced it.
type RuleEvaluationError struct {
	File string
	Err  error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("evaluating rule file %q: %v", e.File, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error { return e.Err }

// TargetNotFoundError is returned when a user-specified target matches no
// node's path prefix.
type TargetNotFoundError struct {
	Target string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found: %s", e.Target)
}

// NodeInitError wraps a failure encountered while initializing a node. It is
// stored in the memoized init future so every waiter observes the same
// error.
type NodeInitError struct {
	NodePath string
	Err      error
}

func (e *NodeInitError) Error() string {
	return fmt.Sprintf("initializing node %q: %v", e.NodePath, e.Err)
}

func (e *NodeInitError) Unwrap() error { return e.Err }

// NodeBuildError wraps a failure returned from a node's Build.
type NodeBuildError struct {
	NodePath string
	Err      error
}

func (e *NodeBuildError) Error() string {
	return fmt.Sprintf("building node %q: %v", e.NodePath, e.Err)
}

func (e *NodeBuildError) Unwrap() error { return e.Err }

// NodeCleanError wraps a failure returned from a node's Clean.
type NodeCleanError struct {
	NodePath string
	Err      error
}

func (e *NodeCleanError) Error() string {
	return fmt.Sprintf("cleaning node %q: %v", e.NodePath, e.Err)
}

func (e *NodeCleanError) Unwrap() error { return e.Err }

// TaskNotFoundError is returned when the task registry is asked to run a
// task name that was never registered on it.
type TaskNotFoundError struct {
	Name string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.Name)
}
