// Package ptypes holds the wire-level data model shared by every layer of
// the middleware: the present-event record that arrives over the ring, the
// telemetry samples embedded in it, and the small enumerations the frame
// metric engine and query engine dispatch on.
package ptypes

// FrameType classifies how a present was generated.
type FrameType uint32

const (
	FrameTypeNotSet FrameType = iota
	FrameTypeApplication
	FrameTypeRepeated
	FrameTypeIntelXeFGFrame
	FrameTypeAMDAFMFFrame
)

// FinalState is the terminal disposition of a present.
type FinalState uint32

const (
	FinalStateUnknown FinalState = iota
	FinalStatePresented
	FinalStateDropped
	FinalStateDiscarded
	FinalStateError
)

// PresentMode identifies the swap-chain present path the OS used.
type PresentMode uint32

const (
	PresentModeUnknown PresentMode = iota
	PresentModeHardwareLegacyFlip
	PresentModeHardwareLegacyCopyToFrontBuffer
	PresentModeHardwareIndependentFlip
	PresentModeComposed
	PresentModeComposedFlip
	PresentModeComposedCopy
	PresentModeHardwareComposedIndependentFlip
)

// Runtime identifies the API runtime that issued the present.
type Runtime uint32

const (
	RuntimeUnknown Runtime = iota
	RuntimeDXGI
	RuntimeD3D9
	RuntimeOpenGL
	RuntimeVulkan
)

// PowerTelemetry is one asynchronously-sampled GPU-side reading, embedded in
// every FrameRecord by the capture service. Fields read 0 when unavailable.
type PowerTelemetry struct {
	GPUPower                    float64
	GPUVoltage                  float64
	GPUFrequency                float64
	GPUTemperature              float64
	GPUUtilization              float64
	GPURenderComputeUtilization float64
	GPUMediaUtilization         float64
	GPUMemPower                 float64
	GPUMemVoltage               float64
	GPUMemFrequency             float64
	GPUMemEffectiveFrequency    float64
	GPUMemTemperature           float64
	GPUMemUsed                  uint64
	GPUMemSize                  uint64
	GPUMemWriteBandwidth        float64
	GPUMemReadBandwidth         float64
	GPUPowerLimited             bool
	GPUTemperatureLimited       bool
	GPUCurrentLimited           bool
	GPUVoltageLimited           bool
	GPUUtilizationLimited       bool
	GPUMemPowerLimited          bool
	GPUMemTemperatureLimited    bool
	GPUMemCurrentLimited        bool
	GPUMemVoltageLimited        bool
	GPUMemUtilizationLimited    bool
	GPUFanSpeed                 [5]float64
}

// CpuTelemetry is one asynchronously-sampled CPU-side reading.
type CpuTelemetry struct {
	CPUUtilization float64
	CPUPower       float64
	CPUTemperature float64
	CPUFrequency   float64
	CPUCoreUtility []float64
}

// FrameRecord is the fixed-stride element stored in the shared-memory ring.
// All timestamps are QPC ticks; Application holds the process image name.
type FrameRecord struct {
	PresentStartTime uint64
	TimeInPresent    uint64
	GPUStartTime     uint64
	ReadyTime        uint64
	GPUDuration      uint64
	GPUVideoDuration uint64
	ScreenTime       uint64
	InputTime        uint64

	SwapChainAddress uint64
	FrameId          uint64

	FrameType       FrameType
	FinalState      FinalState
	PresentMode     PresentMode
	Runtime         Runtime
	SyncInterval    int32
	PresentFlags    uint32
	SupportsTearing bool

	Application string

	Power PowerTelemetry
	CPU   CpuTelemetry
}

// PresentEndTime is PresentStartTime + TimeInPresent, per the data model.
func (r *FrameRecord) PresentEndTime() uint64 {
	return r.PresentStartTime + r.TimeInPresent
}
