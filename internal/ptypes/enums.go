package ptypes

// Metric names one column a dynamic or frame query can request. The set
// mirrors the PM_METRIC catalog: per-frame CPU/GPU/display timings, derived
// FPS figures, and the asynchronous power/thermal/clock readings.
type Metric uint32

const (
	MetricUnspecified Metric = iota

	MetricApplication
	MetricSwapChainAddress
	MetricPresentMode
	MetricPresentRuntime
	MetricPresentFlags
	MetricSyncInterval
	MetricAllowsTearing
	MetricFrameType

	MetricCPUStartQPC
	MetricCPUBusy
	MetricCPUWait
	MetricCPUFrameTime

	MetricGPULatency
	MetricGPUBusy
	MetricGPUWait
	MetricGPUTime

	MetricDisplayLatency
	MetricDisplayedTime
	MetricAnimationError
	MetricClickToPhotonLatency

	MetricPresentedFPS
	MetricApplicationFPS
	MetricDisplayedFPS
	MetricDroppedFrames

	MetricGPUPower
	MetricGPUVoltage
	MetricGPUFrequency
	MetricGPUTemperature
	MetricGPUUtilization
	MetricGPURenderComputeUtilization
	MetricGPUMediaUtilization

	MetricGPUMemPower
	MetricGPUMemVoltage
	MetricGPUMemFrequency
	MetricGPUMemEffectiveFrequency
	MetricGPUMemTemperature
	MetricGPUMemUsed
	MetricGPUMemSize
	MetricGPUMemUtilization
	MetricGPUMemWriteBandwidth
	MetricGPUMemReadBandwidth
	MetricGPUFanSpeed

	MetricCPUUtilization
	MetricCPUPower
	MetricCPUTemperature
	MetricCPUFrequency
	MetricCPUCoreUtility

	MetricCPUName
	MetricCPUVendor
	MetricCPUPowerLimit
	MetricGPUName
	MetricGPUVendor
	MetricGPUMemMaxBandwidth
)

// Stat selects how a dynamic query aggregates a metric's samples over its
// window.
type Stat uint32

const (
	StatAvg Stat = iota
	StatNonZeroAvg
	StatMax
	StatMin
	StatMidPoint
	StatPercentile
	StatMidLerp
	StatNewestPoint
	StatOldestPoint
	StatCount
)

// Status is the PM_STATUS taxonomy returned by every fallible operation that
// crosses the client/service boundary.
type Status int32

const (
	StatusSuccess Status = iota
	StatusNoData
	StatusDataLoss
	StatusServiceError
	StatusInvalidPid
	StatusInvalidEtlFile
	StatusInvalidAdapterId
	StatusFailure
	StatusProcessNotExist
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNoData:
		return "no_data"
	case StatusDataLoss:
		return "data_loss"
	case StatusServiceError:
		return "service_error"
	case StatusInvalidPid:
		return "invalid_pid"
	case StatusInvalidEtlFile:
		return "invalid_etl_file"
	case StatusInvalidAdapterId:
		return "invalid_adapter_id"
	case StatusProcessNotExist:
		return "process_not_exist"
	default:
		return "failure"
	}
}
