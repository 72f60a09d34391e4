package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
)

// profiler owns the CPU profile of one command and writes the heap
// profile when the command finishes.
type profiler struct {
	cpu     *os.File
	memPath string
}

func startProfiler(cpuPath, memPath string) (*profiler, error) {
	p := &profiler{memPath: memPath}
	if cpuPath == "" {
		return p, nil
	}

	f, err := os.Create(cpuPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create CPU profile").WithDetail("path", cpuPath)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to start CPU profile")
	}
	p.cpu = f
	logger.Debug("CPU profiling enabled", zap.String("path", cpuPath))
	return p, nil
}

func (p *profiler) stop() error {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		if err := p.cpu.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to close CPU profile")
		}
		p.cpu = nil
	}
	if p.memPath == "" {
		return nil
	}

	f, err := os.Create(p.memPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create heap profile").WithDetail("path", p.memPath)
	}
	defer f.Close()

	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write heap profile")
	}
	logger.Debug("heap profile written", zap.String("path", p.memPath))
	p.memPath = ""
	return nil
}
