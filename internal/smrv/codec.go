package smrv

import (
	"encoding/binary"
	"fmt"
	"math"

	"presentmw/internal/ptypes"
)

// SlotSize is the fixed byte width of one encoded FrameRecord, matching the
// stride the capture service uses when laying out the ring. Application is
// truncated/NUL-padded to appNameSize.
const (
	appNameSize = 64
	powerFields = 26 // float64/uint64 fields in PowerTelemetry before the fan array
	fanSlots    = 5
	cpuCoreSlots = 16
	SlotSize    = 8*8 + 8*2 + 4*6 + 1 + appNameSize +
		powerFields*8 + fanSlots*8 +
		4*8 + cpuCoreSlots*8
)

// decodeFrameRecord parses a fixed-width slot as written by the capture
// service's encoder (encodeFrameRecord is the in-module inverse).
func decodeFrameRecord(b []byte) (ptypes.FrameRecord, error) {
	if len(b) < SlotSize {
		return ptypes.FrameRecord{}, fmt.Errorf("smrv: short slot: %d < %d", len(b), SlotSize)
	}
	var r ptypes.FrameRecord
	o := 0
	u64 := func() uint64 { v := binary.LittleEndian.Uint64(b[o : o+8]); o += 8; return v }
	f64 := func() float64 { return math.Float64frombits(u64()) }
	u32 := func() uint32 { v := binary.LittleEndian.Uint32(b[o : o+4]); o += 4; return v }

	r.PresentStartTime = u64()
	r.TimeInPresent = u64()
	r.GPUStartTime = u64()
	r.ReadyTime = u64()
	r.GPUDuration = u64()
	r.GPUVideoDuration = u64()
	r.ScreenTime = u64()
	r.InputTime = u64()

	r.SwapChainAddress = u64()
	r.FrameId = u64()

	r.FrameType = ptypes.FrameType(u32())
	r.FinalState = ptypes.FinalState(u32())
	r.PresentMode = ptypes.PresentMode(u32())
	r.Runtime = ptypes.Runtime(u32())
	r.SyncInterval = int32(u32())
	r.PresentFlags = u32()
	r.SupportsTearing = b[o] != 0
	o++

	name := b[o : o+appNameSize]
	o += appNameSize
	end := 0
	for end < len(name) && name[end] != 0 {
		end++
	}
	r.Application = string(name[:end])

	r.Power.GPUPower = f64()
	r.Power.GPUVoltage = f64()
	r.Power.GPUFrequency = f64()
	r.Power.GPUTemperature = f64()
	r.Power.GPUUtilization = f64()
	r.Power.GPURenderComputeUtilization = f64()
	r.Power.GPUMediaUtilization = f64()
	r.Power.GPUMemPower = f64()
	r.Power.GPUMemVoltage = f64()
	r.Power.GPUMemFrequency = f64()
	r.Power.GPUMemEffectiveFrequency = f64()
	r.Power.GPUMemTemperature = f64()
	r.Power.GPUMemUsed = u64()
	r.Power.GPUMemSize = u64()
	r.Power.GPUMemWriteBandwidth = f64()
	r.Power.GPUMemReadBandwidth = f64()
	r.Power.GPUPowerLimited = u64() != 0
	r.Power.GPUTemperatureLimited = u64() != 0
	r.Power.GPUCurrentLimited = u64() != 0
	r.Power.GPUVoltageLimited = u64() != 0
	r.Power.GPUUtilizationLimited = u64() != 0
	r.Power.GPUMemPowerLimited = u64() != 0
	r.Power.GPUMemTemperatureLimited = u64() != 0
	r.Power.GPUMemCurrentLimited = u64() != 0
	r.Power.GPUMemVoltageLimited = u64() != 0
	r.Power.GPUMemUtilizationLimited = u64() != 0
	for i := range r.Power.GPUFanSpeed {
		r.Power.GPUFanSpeed[i] = f64()
	}

	r.CPU.CPUUtilization = f64()
	r.CPU.CPUPower = f64()
	r.CPU.CPUTemperature = f64()
	r.CPU.CPUFrequency = f64()
	r.CPU.CPUCoreUtility = make([]float64, cpuCoreSlots)
	for i := range r.CPU.CPUCoreUtility {
		r.CPU.CPUCoreUtility[i] = f64()
	}

	return r, nil
}

// encodeFrameRecord is the inverse of decodeFrameRecord. Nothing in this
// module calls it (FakeSource stores records unencoded); the real capture
// service performs the equivalent encoding on the writer side, outside this
// module's scope.
func encodeFrameRecord(r ptypes.FrameRecord) []byte {
	b := make([]byte, SlotSize)
	o := 0
	putU64 := func(v uint64) { binary.LittleEndian.PutUint64(b[o:o+8], v); o += 8 }
	putF64 := func(v float64) { putU64(math.Float64bits(v)) }
	putU32 := func(v uint32) { binary.LittleEndian.PutUint32(b[o:o+4], v); o += 4 }
	putBool := func(v bool) {
		if v {
			putU64(1)
		} else {
			putU64(0)
		}
	}

	putU64(r.PresentStartTime)
	putU64(r.TimeInPresent)
	putU64(r.GPUStartTime)
	putU64(r.ReadyTime)
	putU64(r.GPUDuration)
	putU64(r.GPUVideoDuration)
	putU64(r.ScreenTime)
	putU64(r.InputTime)

	putU64(r.SwapChainAddress)
	putU64(r.FrameId)

	putU32(uint32(r.FrameType))
	putU32(uint32(r.FinalState))
	putU32(uint32(r.PresentMode))
	putU32(uint32(r.Runtime))
	putU32(uint32(r.SyncInterval))
	putU32(r.PresentFlags)
	if r.SupportsTearing {
		b[o] = 1
	}
	o++

	name := []byte(r.Application)
	if len(name) > appNameSize {
		name = name[:appNameSize]
	}
	copy(b[o:o+appNameSize], name)
	o += appNameSize

	putF64(r.Power.GPUPower)
	putF64(r.Power.GPUVoltage)
	putF64(r.Power.GPUFrequency)
	putF64(r.Power.GPUTemperature)
	putF64(r.Power.GPUUtilization)
	putF64(r.Power.GPURenderComputeUtilization)
	putF64(r.Power.GPUMediaUtilization)
	putF64(r.Power.GPUMemPower)
	putF64(r.Power.GPUMemVoltage)
	putF64(r.Power.GPUMemFrequency)
	putF64(r.Power.GPUMemEffectiveFrequency)
	putF64(r.Power.GPUMemTemperature)
	putU64(r.Power.GPUMemUsed)
	putU64(r.Power.GPUMemSize)
	putF64(r.Power.GPUMemWriteBandwidth)
	putF64(r.Power.GPUMemReadBandwidth)
	putBool(r.Power.GPUPowerLimited)
	putBool(r.Power.GPUTemperatureLimited)
	putBool(r.Power.GPUCurrentLimited)
	putBool(r.Power.GPUVoltageLimited)
	putBool(r.Power.GPUUtilizationLimited)
	putBool(r.Power.GPUMemPowerLimited)
	putBool(r.Power.GPUMemTemperatureLimited)
	putBool(r.Power.GPUMemCurrentLimited)
	putBool(r.Power.GPUMemVoltageLimited)
	putBool(r.Power.GPUMemUtilizationLimited)
	for _, v := range r.Power.GPUFanSpeed {
		putF64(v)
	}

	putF64(r.CPU.CPUUtilization)
	putF64(r.CPU.CPUPower)
	putF64(r.CPU.CPUTemperature)
	putF64(r.CPU.CPUFrequency)
	cores := make([]float64, cpuCoreSlots)
	copy(cores, r.CPU.CPUCoreUtility)
	for _, v := range cores {
		putF64(v)
	}

	return b
}
