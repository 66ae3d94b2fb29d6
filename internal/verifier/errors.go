package verifier

import "fmt"

// MismatchError reports a target whose presence contradicts its expectation.
type MismatchError struct {
	Target string
	// Present is true when the target exists but was not expected.
	Present bool
}

func (e *MismatchError) Error() string {
	if e.Present {
		return fmt.Sprintf("%s target present without expected tool", e.Target)
	}
	return fmt.Sprintf("Expected %s target to be present", e.Target)
}

// MissingArtifactError reports a companion file that an expected target
// needs but the build did not produce.
type MissingArtifactError struct {
	Target string
	Name   string
	Path   string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("Missing %s at: %s", e.Name, e.Path)
}
