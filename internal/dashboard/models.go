package dashboard

// Period is the scan-activity window accepted by the backend.
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
)

var Periods = []Period{Period7Days, Period30Days, Period90Days}

func (p Period) Valid() bool {
	for _, known := range Periods {
		if p == known {
			return true
		}
	}
	return false
}

type Overview struct {
	TotalScans     int     `json:"total_scans"`
	Accuracy       float64 `json:"accuracy"`
	TimeSaved      float64 `json:"time_saved"`
	CostSavings    float64 `json:"cost_savings"`
	ScansChange    float64 `json:"scans_change"`
	AccuracyChange float64 `json:"accuracy_change"`
	TimeChange     float64 `json:"time_change"`
	CostChange     float64 `json:"cost_change"`
	ActiveDevices  int     `json:"active_devices,omitempty"`
}

type ActivityPoint struct {
	Date     string  `json:"date"`
	Scans    int     `json:"scans"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

type ScanActivity struct {
	Period   Period          `json:"period"`
	Activity []ActivityPoint `json:"activity"`
}

// TotalScans sums the scans across every point.
func (a *ScanActivity) TotalScans() int {
	total := 0
	for _, p := range a.Activity {
		total += p.Scans
	}
	return total
}

type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CategoryDistribution struct {
	Categories []CategoryShare `json:"categories"`
}

type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Latency int    `json:"latency_ms,omitempty"`
}

type SystemStatus struct {
	Status   string          `json:"status"`
	LastSync string          `json:"last_sync"`
	Uptime   float64         `json:"uptime,omitempty"`
	Services []ServiceStatus `json:"services,omitempty"`
}

// Operational reports whether every listed service is up.
func (s *SystemStatus) Operational() bool {
	for _, svc := range s.Services {
		if svc.Status != "operational" && svc.Status != "ok" {
			return false
		}
	}
	return s.Status == "operational" || s.Status == "ok" || (s.Status == "" && len(s.Services) > 0)
}
