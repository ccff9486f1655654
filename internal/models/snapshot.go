package models

import "time"

// Snapshot is one burner controller reading plus the server receipt time.
// ReceivedAt is assigned once at ingestion and never changes; DeviceDate is
// the timestamp the controller itself reports and is what every range query
// filters and orders on.
type Snapshot struct {
	ReceivedAt     time.Time `json:"received_at"`
	SwVer          string    `json:"SwVer"`
	DeviceDate     time.Time `json:"Date"`
	Mode           int       `json:"Mode"`
	State          int       `json:"State"`
	Status         int       `json:"Status"`
	IgnitionFail   bool      `json:"IgnitionFail"`
	PelletJam      bool      `json:"PelletJam"`
	Tset           int       `json:"Tset"`
	Tboiler        int       `json:"Tboiler"`
	Flame          int       `json:"Flame"`
	Heater         bool      `json:"Heater"`
	DHW            int       `json:"DHW"`
	DHWPump        bool      `json:"DHWPump"`
	CHPump         bool      `json:"CHPump"`
	BF             bool      `json:"BF"`
	FF             bool      `json:"FF"`
	Fan            int       `json:"Fan"`
	Power          int       `json:"Power"`
	ThermostatStop bool      `json:"ThermostatStop"`
	FFWorkTime     int       `json:"FFWorkTime"`
	TDS18          float64   `json:"TDS18"`
	TBMP           float64   `json:"TBMP"`
	PBMP           float64   `json:"PBMP"`
	KTYPE          float64   `json:"KTYPE"`
}

// LiveStatus is the field subset the dashboard header polls for.
type LiveStatus struct {
	SwVer   string  `json:"SwVer"`
	Power   int     `json:"Power"`
	Flame   int     `json:"Flame"`
	Tset    int     `json:"Tset"`
	Tboiler int     `json:"Tboiler"`
	State   int     `json:"State"`
	Status  int     `json:"Status"`
	DHW     int     `json:"DHW"`
	Fan     int     `json:"Fan"`
	DHWPump bool    `json:"DHWPump"`
	CHPump  bool    `json:"CHPump"`
	Mode    int     `json:"Mode"`
	TBMP    float64 `json:"TBMP"`
}

// StatsPoint is one row of the windowed history chart. Date is pre-formatted
// as "YYYY-MM-DDTHH:MM:SS" so the frontend can feed it to the chart directly.
type StatsPoint struct {
	Date           string  `json:"Date"`
	Power          int     `json:"Power"`
	Flame          int     `json:"Flame"`
	Tset           int     `json:"Tset"`
	Tboiler        int     `json:"Tboiler"`
	DHW            int     `json:"DHW"`
	ThermostatStop bool    `json:"ThermostatStop"`
	TDS18          float64 `json:"TDS18"`
	KTYPE          float64 `json:"KTYPE"`
	TBMP           float64 `json:"TBMP"`
}
