package domain

import (
	"time"
)

// IssueStatus is the lifecycle state of a component issue.
type IssueStatus string

// Issue states. An issue is created as issued and ends as returned.
const (
	IssueStatusIssued   IssueStatus = "issued"
	IssueStatusReturned IssueStatus = "returned"
)

// ComponentIssue records a component handed out to a student.
type ComponentIssue struct {
	// ID is the unique identifier for the issue record.
	ID string `json:"id"`

	// StudentID and StudentName identify the borrowing student.
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`

	// ComponentID and ComponentName identify the issued component.
	ComponentID   string `json:"componentId"`
	ComponentName string `json:"componentName"`

	// Quantity is the number of units issued.
	Quantity int `json:"quantity"`

	// IssueDate is when the component left the lab.
	IssueDate time.Time `json:"issueDate"`

	// DueDate is when the component is expected back.
	DueDate time.Time `json:"dueDate"`

	// Purpose is the stated reason for the issue.
	Purpose string `json:"purpose"`

	// IssuedBy names the staff member who handed out the component.
	IssuedBy string `json:"issuedBy"`

	// Status is issued or returned.
	Status IssueStatus `json:"status"`

	// ReturnDate is set when the component comes back.
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

// Overdue reports whether the issue is still out past its due date.
func (i ComponentIssue) Overdue(now time.Time) bool {
	return i.Status == IssueStatusIssued && i.DueDate.Before(now)
}

// Request is the legacy shape of a component issue, as written by
// deployments that predate the componentIssues collection. It survives only
// as migration input and in the compatibility shims.
type Request struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"studentId"`
	StudentName   string     `json:"studentName"`
	ComponentID   string     `json:"componentId"`
	ComponentName string     `json:"componentName"`
	Quantity      int        `json:"quantity"`
	RequestDate   time.Time  `json:"requestDate"`
	DueDate       time.Time  `json:"dueDate"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"`
}
