package domain

import (
	"time"
)

// SystemData is the root aggregate: the single persisted document holding
// the whole bookkeeping state. Every mutation loads it, changes an
// in-memory copy and writes it back whole.
type SystemData struct {
	// SchemaVersion tags the document with the migration level it was
	// written at. Documents from deployments that predate versioning carry
	// no field and decode as 0.
	SchemaVersion int `json:"schemaVersion,omitempty"`

	Users           []User           `json:"users"`
	Components      []Component      `json:"components"`
	ComponentIssues []ComponentIssue `json:"componentIssues"`
	Notifications   []Notification   `json:"notifications"`
	LoginSessions   []LoginSession   `json:"loginSessions"`

	// Requests is the legacy collection replaced by ComponentIssues. It is
	// only populated when decoding old documents and is dropped by the
	// migration pipeline.
	Requests []Request `json:"requests,omitempty"`
}

// SeedData returns the initial document used when no persisted document
// exists: one staff account and the five starter components, everything
// else empty.
func SeedData(now time.Time) SystemData {
	return SystemData{
		Users: []User{
			NewUser("admin-1", "Administrator", "staff@issacasimov.in", RoleStaff, now),
		},
		Components: []Component{
			NewComponent("comp-1", "Arduino Uno R3", "Microcontroller", "Arduino Uno R3 development board", 25),
			NewComponent("comp-2", "L298N Motor Driver", "Motor Driver", "Dual H-Bridge Motor Driver", 15),
			NewComponent("comp-3", "Ultrasonic Sensor HC-SR04", "Sensor", "Ultrasonic distance sensor", 20),
			NewComponent("comp-4", "Servo Motor SG90", "Actuator", "9g micro servo motor", 30),
			NewComponent("comp-5", "ESP32 Development Board", "Microcontroller", "WiFi and Bluetooth enabled microcontroller", 12),
		},
		ComponentIssues: []ComponentIssue{},
		Notifications:   []Notification{},
		LoginSessions:   []LoginSession{},
	}
}

// ReconcileActiveFlags recomputes every user's IsActive flag from the
// session list, so the stored flag cannot drift from the sessions when a
// document was mutated by other tooling. Returns true if any flag changed.
func (d *SystemData) ReconcileActiveFlags() bool {
	open := make(map[string]bool, len(d.LoginSessions))
	for _, s := range d.LoginSessions {
		if s.IsActive {
			open[s.UserID] = true
		}
	}

	changed := false
	for i := range d.Users {
		active := open[d.Users[i].ID]
		if d.Users[i].IsActive != active {
			d.Users[i].IsActive = active
			changed = true
		}
	}
	return changed
}

// SystemStats is a pure aggregation over the current document, recomputed
// fresh on every call.
type SystemStats struct {
	TotalUsers         int `json:"totalUsers"`
	ActiveUsers        int `json:"activeUsers"`
	TotalLogins        int `json:"totalLogins"`
	OnlineUsers        int `json:"onlineUsers"`
	TotalComponents    int `json:"totalComponents"`
	IssuedComponents   int `json:"issuedComponents"`
	ReturnedComponents int `json:"returnedComponents"`
	OverdueItems       int `json:"overdueItems"`
}

// ComputeStats derives the statistics view of the document as of now.
func (d SystemData) ComputeStats(now time.Time) SystemStats {
	stats := SystemStats{
		TotalUsers:      len(d.Users),
		TotalComponents: len(d.Components),
	}

	for _, u := range d.Users {
		if u.IsActive {
			stats.ActiveUsers++
		}
		stats.TotalLogins += u.LoginCount
	}

	for _, s := range d.LoginSessions {
		if s.IsActive {
			stats.OnlineUsers++
		}
	}

	for _, i := range d.ComponentIssues {
		switch i.Status {
		case IssueStatusIssued:
			stats.IssuedComponents++
		case IssueStatusReturned:
			stats.ReturnedComponents++
		}
		if i.Overdue(now) {
			stats.OverdueItems++
		}
	}

	return stats
}
