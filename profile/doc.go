// Package profile provides optional runtime profiling for the ilang command.
//
// Profiling is compiled in only with the "pprof" build tag, which wires
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag [Modes] is empty and [Profiler.Start] is a no-op.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/ilang-prof"}
//	defer p.Start().Stop()
//
// From the command line:
//
//	go build -tags pprof .
//	./ilang --pprof-mode cpu check main.il
//	go tool pprof ./ilang "$XDG_CACHE_HOME"/ilang/pprof/cpu.pprof
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Profiles are named after their mode, e.g.
// cpu.pprof or trace.out.
package profile
