// Package health waits for test containers to become operable.
//
// A systemd container takes a while to boot after `run` returns. Probe
// polls it with a liveness command (`id` via exec) at a fixed interval
// until the command succeeds or the timeout elapses:
//
//	probe := health.NewProbe(rt)
//	probe.Timeout = 60 * time.Second
//	if err := probe.Wait(ctx, "t1"); err != nil {
//		// ContainerNotReady
//	}
//
// Another attempt is only made if it can start before the timeout, so a
// probe with timeout T and interval I makes at most ceil(T/I) attempts.
//
// # Diagnostics
//
// After every failed attempt the probe hands the failure to a Collector.
// Diagnostics prints the inspect output, a decoded state summary and the
// container logs. Each read that fails is logged and skipped.
package health
