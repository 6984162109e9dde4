package prism

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// TraceSpectrum traces every wavelength against the same scene on NumCPU workers.
// paths[i] belongs to wavelengths[i]; a failing wavelength only sets its own Err.
// The scene must not be mutated until it returns.
func (t *Tracer) TraceSpectrum(scene *Scene, wavelengths []Real) []*Path {
	total := len(wavelengths)
	paths := make([]*Path, total)
	if total == 0 {
		return paths
	}

	workers := imax(runtime.NumCPU(), 1)
	if workers > total {
		workers = total
	}

	var next, counter int64
	nextPrint := int64(1)
	if total >= 100 {
		nextPrint = int64(total / 100) // ~1%
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1) - 1)
				if i >= total {
					return
				}
				p, err := t.Trace(scene, wavelengths[i])
				if p == nil {
					p = &Path{Wavelength: wavelengths[i], Err: err}
				}
				paths[i] = p
				done := atomic.AddInt64(&counter, 1)
				if Debug && done%nextPrint == 0 {
					fmt.Printf("[PROGRESS] %.2f%%\n", Real(done)*100/Real(total))
				}
			}
		}()
	}
	wg.Wait()
	return paths
}

// SpectrumErrors collects the per-wavelength errors of a traced frame.
func SpectrumErrors(paths []*Path) []error {
	var errs []error
	for _, p := range paths {
		if p != nil && p.Err != nil {
			errs = append(errs, fmt.Errorf("%.1f nm: %w", p.Wavelength, p.Err))
		}
	}
	return errs
}
