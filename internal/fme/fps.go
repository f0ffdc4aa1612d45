package fme

// DerivedFPS holds the statistics-ready arrays assembled from a chain's
// per-present arrays, per §4.3.3. Entries are 0 where the source interval
// is 0, avoiding a division by zero.
type DerivedFPS struct {
	FrameTimeMs    []float64
	GPUTimeMs      []float64
	PresentedFps   []float64
	ApplicationFps []float64
	DisplayedFps   []float64
}

func safeRate(intervalMs float64) float64 {
	if intervalMs == 0 {
		return 0
	}
	return 1000 / intervalMs
}

// Derive computes the derived FPS/time arrays for chain.
func Derive(chain *SwapChainState) DerivedFPS {
	n := len(chain.CPUBusy)
	out := DerivedFPS{
		FrameTimeMs:  make([]float64, n),
		GPUTimeMs:    make([]float64, n),
		PresentedFps: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		frameTime := chain.CPUBusy[i] + chain.CPUWait[i]
		out.FrameTimeMs[i] = frameTime
		out.PresentedFps[i] = safeRate(frameTime)
		if i < len(chain.GPUBusy) && i < len(chain.GPUWait) {
			out.GPUTimeMs[i] = chain.GPUBusy[i] + chain.GPUWait[i]
		}
	}

	out.ApplicationFps = make([]float64, len(chain.AppDisplayedTime))
	for i, t := range chain.AppDisplayedTime {
		out.ApplicationFps[i] = safeRate(t)
	}

	out.DisplayedFps = make([]float64, len(chain.DisplayedTime))
	for i, t := range chain.DisplayedTime {
		out.DisplayedFps[i] = safeRate(t)
	}

	return out
}
