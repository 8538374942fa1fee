package trafficstats

import "fmt"

type UnitSystem string

const (
	UnitSystemBinary UnitSystem = "binary"
	UnitSystemBytes  UnitSystem = "bytes"
)

func FormatRate(bytesPerSecond uint64) string {
	return formatBySystem(float64(bytesPerSecond), "/s", UnitSystemBinary)
}

func FormatTotal(bytes uint64) string {
	return formatBySystem(float64(bytes), "", UnitSystemBinary)
}

func FormatTotalWithSystem(bytes uint64, system UnitSystem) string {
	return formatBySystem(float64(bytes), "", system)
}

// FormatSnapshot renders a one-line summary for periodic logging.
func FormatSnapshot(s Snapshot) string {
	return fmt.Sprintf("rx %s (%s) tx %s (%s) connections %d dropped %d",
		FormatTotal(s.RXBytesTotal), FormatRate(s.RXRate),
		FormatTotal(s.TXBytesTotal), FormatRate(s.TXRate),
		s.Connections, s.Dropped)
}

func formatBySystem(value float64, suffix string, system UnitSystem) string {
	base := 1024.0
	units := []string{"B", "KiB", "MiB", "GiB"}
	if system == UnitSystemBytes {
		base = 1000
		units = []string{"B", "KB", "MB", "GB"}
	}

	i := 0
	for value >= base && i < len(units)-1 {
		value /= base
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s%s", value, units[i], suffix)
	}
	return fmt.Sprintf("%.1f %s%s", value, units[i], suffix)
}
