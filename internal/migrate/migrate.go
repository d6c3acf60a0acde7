// Package migrate evolves persisted documents to the current schema.
//
// Each stored document carries a schema version; Apply runs every step above
// that version in ascending order and stamps the result. Documents written
// before versioning existed decode as version 0 and run the full pipeline.
// Every step is pure and idempotent, so re-running the pipeline on an
// already migrated document is a no-op.
package migrate

import (
	"github.com/issacasimov/labstore/internal/domain"
)

// CurrentVersion is the schema version this build writes.
const CurrentVersion = 3

// Step is one migration: a pure function lifting a document from any
// version below Version to Version.
type Step struct {
	Version int
	Name    string
	Apply   func(*domain.SystemData) bool
}

// Steps is the ordered pipeline. Session backfill runs before the legacy
// request migration; the steps do not depend on each other's output.
var Steps = []Step{
	{Version: 1, Name: "ensure_login_sessions", Apply: EnsureLoginSessions},
	{Version: 2, Name: "migrate_legacy_requests", Apply: MigrateLegacyRequests},
	{Version: 3, Name: "ensure_component_issues", Apply: EnsureComponentIssues},
}

// Apply migrates the document to CurrentVersion in place. It returns true
// if any step changed the document or the stamped version advanced.
func Apply(doc *domain.SystemData) bool {
	changed := false
	for _, step := range Steps {
		if doc.SchemaVersion >= step.Version {
			continue
		}
		if step.Apply(doc) {
			changed = true
		}
		doc.SchemaVersion = step.Version
		changed = true
	}
	return changed
}

// EnsureLoginSessions backfills the loginSessions sequence for documents
// written before session tracking existed.
func EnsureLoginSessions(doc *domain.SystemData) bool {
	if doc.LoginSessions != nil {
		return false
	}
	doc.LoginSessions = []domain.LoginSession{}
	return true
}

// MigrateLegacyRequests derives componentIssues from the legacy requests
// sequence, preserving historical records. Runs only when the document has
// requests and no componentIssues; the legacy sequence is dropped either
// way.
func MigrateLegacyRequests(doc *domain.SystemData) bool {
	if doc.Requests == nil {
		return false
	}

	if doc.ComponentIssues == nil {
		issues := make([]domain.ComponentIssue, 0, len(doc.Requests))
		for _, req := range doc.Requests {
			issues = append(issues, ConvertRequest(req))
		}
		doc.ComponentIssues = issues
	}

	doc.Requests = nil
	return true
}

// EnsureComponentIssues backfills the componentIssues sequence when it is
// still absent after the legacy migration.
func EnsureComponentIssues(doc *domain.SystemData) bool {
	if doc.ComponentIssues != nil {
		return false
	}
	doc.ComponentIssues = []domain.ComponentIssue{}
	return true
}

// ConvertRequest maps a legacy request onto a component issue:
// requestDate becomes the issue date, notes become the purpose (defaulting
// to "Lab work"), the issuer is recorded as "Staff", and any status other
// than "returned" collapses to issued.
func ConvertRequest(req domain.Request) domain.ComponentIssue {
	purpose := req.Notes
	if purpose == "" {
		purpose = "Lab work"
	}

	status := domain.IssueStatusIssued
	if req.Status == string(domain.IssueStatusReturned) {
		status = domain.IssueStatusReturned
	}

	return domain.ComponentIssue{
		ID:            req.ID,
		StudentID:     req.StudentID,
		StudentName:   req.StudentName,
		ComponentID:   req.ComponentID,
		ComponentName: req.ComponentName,
		Quantity:      req.Quantity,
		IssueDate:     req.RequestDate,
		DueDate:       req.DueDate,
		Purpose:       purpose,
		IssuedBy:      "Staff",
		Status:        status,
		ReturnDate:    req.ReturnDate,
	}
}
