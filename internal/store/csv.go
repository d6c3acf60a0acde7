package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/issacasimov/labstore/internal/domain"
)

// csvTimeLayout is how session timestamps render in the export.
const csvTimeLayout = "2006-01-02 15:04:05"

// sessionCSVHeader is the fixed column set of the export. Consumers parse
// by position, so the order is part of the contract.
var sessionCSVHeader = []string{
	"Login Time",
	"Logout Time",
	"User Name",
	"User Email",
	"Role",
	"Device Info",
	"Session Duration (minutes)",
	"Status",
}

// ExportSessionsCSV renders all login sessions as a comma-separated table.
// Every field is quote-wrapped; open sessions render "Active" for the
// logout time, duration and status columns; durations are rounded from
// milliseconds to whole minutes. The format is hand-rendered rather than
// produced by encoding/csv, which quotes conditionally and terminates rows
// with CRLF.
func (s *Store) ExportSessionsCSV(ctx context.Context) string {
	sessions := s.Load(ctx).LoginSessions

	var b strings.Builder
	writeCSVRow(&b, sessionCSVHeader)

	for _, session := range sessions {
		b.WriteByte('\n')
		writeCSVRow(&b, sessionCSVRow(session))
	}

	return b.String()
}

// sessionCSVRow renders one session as its column values.
func sessionCSVRow(session domain.LoginSession) []string {
	logout := "Active"
	duration := "Active"
	status := "Active"

	if session.LogoutTime != nil {
		logout = session.LogoutTime.Format(csvTimeLayout)
	}
	if session.SessionDuration != nil {
		duration = strconv.FormatInt(roundMillisToMinutes(*session.SessionDuration), 10)
	}
	if !session.IsActive {
		status = "Ended"
	}

	device := session.DeviceInfo
	if device == "" {
		device = "Unknown"
	}

	return []string{
		session.LoginTime.Format(csvTimeLayout),
		logout,
		session.UserName,
		session.UserEmail,
		string(session.UserRole),
		device,
		duration,
		status,
	}
}

// writeCSVRow writes the fields quote-wrapped and comma-joined.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(field)
		b.WriteByte('"')
	}
}

// roundMillisToMinutes rounds a millisecond duration to whole minutes.
func roundMillisToMinutes(ms int64) int64 {
	return (ms + 30_000) / 60_000
}
