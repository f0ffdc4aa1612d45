package adapter

import (
	"github.com/shirou/gopsutil/v3/cpu"
)

// StaticCPU reads the host's CPU identification for the CPU_NAME/CPU_VENDOR
// static-query metrics. Grounded on the rest of the example pack's use of
// gopsutil (Tyde-framescope) rather than the teacher, since the teacher has
// no CPU identification code of its own. StaticCPUInfo.PowerLimit has no
// portable gopsutil equivalent and is always left at 0.
func StaticCPU() (StaticCPUInfo, error) {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return StaticCPUInfo{}, err
	}
	return StaticCPUInfo{
		Name:   infos[0].ModelName,
		Vendor: infos[0].VendorID,
	}, nil
}
