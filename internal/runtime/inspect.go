package runtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
)

// parseInspect decodes `inspect` output for a single container.
// Both docker and podman print a JSON array.
func parseInspect(data []byte) (*ContainerState, error) {
	var inspects []container.InspectResponse
	if err := json.Unmarshal(data, &inspects); err != nil {
		return nil, fmt.Errorf("decoding inspect output: %w", err)
	}
	if len(inspects) == 0 {
		return nil, fmt.Errorf("inspect returned no containers")
	}

	ir := inspects[0]
	state := &ContainerState{}
	if ir.ContainerJSONBase != nil {
		state.ID = ir.ID
		state.Name = strings.TrimPrefix(ir.Name, "/")
		state.Image = ir.Image
		if ir.State != nil {
			state.Status = string(ir.State.Status)
			state.Running = ir.State.Running
			state.ExitCode = ir.State.ExitCode
			state.StartedAt = ir.State.StartedAt
			state.Error = ir.State.Error
		}
		if ir.HostConfig != nil {
			state.Privileged = ir.HostConfig.Privileged
			state.Memory = ir.HostConfig.Memory
		}
	}
	if ir.Config != nil && ir.Config.Image != "" {
		state.Image = ir.Config.Image
	}
	return state, nil
}

// isNotFound reports whether runtime output says the object does not exist.
// docker prints "No such object" or "No such container", podman prints
// "no such object".
func isNotFound(output string) bool {
	return strings.Contains(strings.ToLower(output), "no such")
}
