package query

import "presentmw/internal/ptypes"

// telemetryBit reports whether m is one of the asynchronously-sampled
// GPU/CPU telemetry metrics TA accumulates, and if so which bit identifies
// it and which bitset (GPU or CPU) it belongs to.
func telemetryBit(m ptypes.Metric) (bit ptypes.Metric, isGPU bool, ok bool) {
	switch m {
	case ptypes.MetricGPUPower, ptypes.MetricGPUVoltage, ptypes.MetricGPUFrequency,
		ptypes.MetricGPUTemperature, ptypes.MetricGPUUtilization,
		ptypes.MetricGPURenderComputeUtilization, ptypes.MetricGPUMediaUtilization,
		ptypes.MetricGPUMemPower, ptypes.MetricGPUMemVoltage, ptypes.MetricGPUMemFrequency,
		ptypes.MetricGPUMemEffectiveFrequency, ptypes.MetricGPUMemTemperature,
		ptypes.MetricGPUMemUsed, ptypes.MetricGPUMemSize, ptypes.MetricGPUMemUtilization,
		ptypes.MetricGPUMemWriteBandwidth, ptypes.MetricGPUMemReadBandwidth,
		ptypes.MetricGPUFanSpeed:
		return m, true, true
	case ptypes.MetricCPUUtilization, ptypes.MetricCPUPower, ptypes.MetricCPUTemperature,
		ptypes.MetricCPUFrequency, ptypes.MetricCPUCoreUtility:
		return m, false, true
	default:
		return 0, false, false
	}
}

func isFPSMetric(m ptypes.Metric) bool {
	switch m {
	case ptypes.MetricPresentedFPS, ptypes.MetricApplicationFPS, ptypes.MetricDisplayedFPS,
		ptypes.MetricCPUFrameTime, ptypes.MetricGPUTime:
		return true
	}
	return false
}

func isStaticMetric(m ptypes.Metric) bool {
	switch m {
	case ptypes.MetricCPUName, ptypes.MetricCPUVendor, ptypes.MetricCPUPowerLimit,
		ptypes.MetricGPUName, ptypes.MetricGPUVendor, ptypes.MetricGPUMemMaxBandwidth:
		return true
	}
	return false
}

func isScalarPerChainMetric(m ptypes.Metric) bool {
	switch m {
	case ptypes.MetricApplication, ptypes.MetricSwapChainAddress, ptypes.MetricPresentMode,
		ptypes.MetricPresentRuntime, ptypes.MetricPresentFlags, ptypes.MetricSyncInterval,
		ptypes.MetricAllowsTearing, ptypes.MetricFrameType, ptypes.MetricCPUStartQPC:
		return true
	}
	return false
}
